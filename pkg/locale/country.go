package locale

import (
	"strings"
)

const (
	DefaultTimezone = "UTC"
	DefaultRegion   = "DZ"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "DZ", "FR")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Valid phone number prefixes (e.g., ["+213", "213"])
	DefaultTimezone string   // IANA timezone identifier (e.g., "Africa/Algiers")
}

var (
	Countries = map[string]Country{
		"DZ": {
			Code:            "DZ",
			Name:            "Algeria",
			PhonePrefixes:   []string{"+213", "213"},
			DefaultTimezone: "Africa/Algiers",
		},
		"FR": {
			Code:            "FR",
			Name:            "France",
			PhonePrefixes:   []string{"+33", "33"},
			DefaultTimezone: "Europe/Paris",
		},
	}

	TimeZoneTags = map[string][]string{
		"DZ": {"Africa/Algiers"},
		"FR": {"Europe/Paris"},
	}
)

// DetectRegion maps an IANA zone to a supported region, defaulting to DZ.
func DetectRegion(tz string) string {
	for region, zones := range TimeZoneTags {
		for _, z := range zones {
			if strings.EqualFold(tz, z) {
				return region
			}
		}
	}
	return DefaultRegion
}
