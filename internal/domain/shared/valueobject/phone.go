package valueobject

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used for numbers written without a country code
const DefaultPhoneRegion = "PK"

// FormatPhone parses a phone number and returns it in E.164 form.
// Numbers without a leading + are interpreted in region.
func FormatPhone(raw, region string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", false
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", false
	}
	return libphonenumber.Format(num, libphonenumber.E164), true
}
