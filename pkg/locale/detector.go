package locale

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// InferCountryFromPhone resolves the supported country of a phone number.
// International numbers are parsed with libphonenumber; bare country-code
// digits such as "213..." fall back to a prefix match.
func InferCountryFromPhone(phone string) *Country {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	if strings.HasPrefix(phone, "+") {
		if parsed, err := phonenumbers.Parse(phone, ""); err == nil {
			if country, ok := Countries[phonenumbers.GetRegionCodeForNumber(parsed)]; ok {
				return &country
			}
		}
	}

	return countryByPrefix(phone)
}

func InferTimezoneFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}

func countryByPrefix(phone string) *Country {
	for _, code := range []string{"DZ", "FR"} {
		country := Countries[code]
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(phone, prefix) {
				return &country
			}
		}
	}
	return nil
}
