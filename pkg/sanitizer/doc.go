// Package sanitizer normalizes user input before validation and storage.
//
// All normalization functions are idempotent. Invalid input is returned as an
// empty string or dropped from slices rather than reported as an error, so
// the validator downstream decides what is required.
//
// Normalization includes:
//   - Phone numbers: E.164 for the DZ and FR regions
//   - Names, cities and addresses: collapsed whitespace
//   - Free text: control characters stripped, line breaks kept
//   - Amenities: lowercase, deduplicated
//   - Links: relative app paths kept, absolute URLs forced to https
package sanitizer
