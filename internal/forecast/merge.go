package forecast

// slotKey identifies one forecast slot: one city at one predicted timestamp.
type slotKey struct {
	city string
	unix int64
}

// Merge concatenates existing rows with newly transformed rows and removes
// duplicate forecast slots. The first-seen row for a slot wins, so rows
// already in the dataset keep their original ingestion timestamp and a
// re-run with an overlapping forecast window changes nothing for slots
// that were captured before.
func Merge(existing, incoming []Row) []Row {
	merged := make([]Row, 0, len(existing)+len(incoming))
	seen := make(map[slotKey]struct{}, len(existing)+len(incoming))

	add := func(rows []Row) {
		for _, r := range rows {
			k := slotKey{city: r.City, unix: r.ForecastTime.UTC().Unix()}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, r)
		}
	}

	add(existing)
	add(incoming)
	return merged
}
