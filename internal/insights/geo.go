package insights

// DedupeGeolocations reduces the zip-code-level geolocation table to one row
// per unique customer, keeping the first occurrence in input order. It is
// independent of any date window and idempotent.
func DedupeGeolocations(rows []Geolocation) []Geolocation {
	seen := make(map[string]struct{}, len(rows))
	deduped := make([]Geolocation, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.CustomerUniqueID]; ok {
			continue
		}
		seen[row.CustomerUniqueID] = struct{}{}
		deduped = append(deduped, row)
	}
	return deduped
}
