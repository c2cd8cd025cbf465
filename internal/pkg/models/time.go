package models

import (
	"time"
)

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// Clock abstracts time so schedulers and stores can be driven from tests
type Clock func() time.Time
