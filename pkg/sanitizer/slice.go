package sanitizer

// Apply runs normalize over items and keeps the first occurrence of each
// non-empty result, preserving input order. It never returns nil.
func Apply(items []string, normalize Strategy) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := normalize(item)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// NormalizeAmenities lowercases and deduplicates loft amenity labels.
func NormalizeAmenities(amenities []string) []string {
	return Apply(amenities, NormalizeLabel)
}

// NormalizeIDs trims and deduplicates a list of record or user IDs, as sent
// in transfers and broadcasts.
func NormalizeIDs(ids []string) []string {
	return Apply(ids, TrimAndNormalize)
}
