package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// EthiopiaCountryCode is prefixed to every normalized number
const EthiopiaCountryCode = "251"

var subscriberPattern = regexp.MustCompile(`^[79]\d{8}$`)

// NormalizeMSISDN converts local and international spellings of an Ethiopian
// mobile number to E.164 (+2519XXXXXXXX)
func NormalizeMSISDN(msisdn string) (string, error) {
	stripped := strings.NewReplacer("-", "", " ", "", "(", "", ")", "").Replace(msisdn)
	stripped = strings.TrimPrefix(stripped, "+")

	switch {
	case strings.HasPrefix(stripped, EthiopiaCountryCode):
		stripped = stripped[len(EthiopiaCountryCode):]
	case strings.HasPrefix(stripped, "0"):
		stripped = stripped[1:]
	}

	if !subscriberPattern.MatchString(stripped) {
		return "", fmt.Errorf("invalid MSISDN format: %q", msisdn)
	}

	return "+" + EthiopiaCountryCode + stripped, nil
}

// MaskPhoneNumber masks a phone number, keeping only the last 4 digits visible
func MaskPhoneNumber(phone string) string {
	cleanPhone := regexp.MustCompile(`[^0-9]`).ReplaceAllString(phone, "")
	if len(cleanPhone) <= 4 {
		return cleanPhone
	}

	return strings.Repeat("*", len(cleanPhone)-4) + cleanPhone[len(cleanPhone)-4:]
}
