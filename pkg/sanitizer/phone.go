package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Guest and owner phones are Algerian or French. National numbers are tried
// against DZ first.
var phoneRegions = [...]string{"DZ", "FR"}

// NormalizePhone returns phone in E.164 form, or "" when no supported region
// accepts it as a valid number. The 00 international prefix is read as "+".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(phone, "00"); ok {
		phone = "+" + rest
	}

	for _, region := range phoneRegions {
		num, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	return ""
}

// PhoneRegion returns the ISO region of an E.164 number, or "".
func PhoneRegion(e164 string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}
