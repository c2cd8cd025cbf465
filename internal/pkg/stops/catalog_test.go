package stops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
stops:
  - name: Meskel Square
    latitude: 9.0107
    longitude: 38.7613
  - name: Piassa
    latitude: 9.0363
    longitude: 38.7524
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	s, ok := c.Lookup("  meskel square ")
	require.True(t, ok)
	assert.Equal(t, models.Position{Latitude: 9.0107, Longitude: 38.7613}, s.Position())

	_, ok = c.Lookup("Bole")
	assert.False(t, ok)

	all := c.All()
	assert.Equal(t, "Meskel Square", all[0].Name)
	assert.Equal(t, "Piassa", all[1].Name)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "stops: [unclosed"},
		{"missing name", "stops:\n  - latitude: 9\n    longitude: 38\n"},
		{"latitude out of range", "stops:\n  - name: X\n    latitude: 91\n    longitude: 38\n"},
		{"duplicate", "stops:\n  - {name: A, latitude: 9, longitude: 38}\n  - {name: a, latitude: 9, longitude: 38}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	path := filepath.Join(dir, "stops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}
