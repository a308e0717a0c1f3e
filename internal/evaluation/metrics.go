package evaluation

// RecallAtK is the fraction of relevant product IDs that appear in the first
// k retrieved IDs. An empty relevant set scores 0.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}

	want := idSet(relevant)
	found := 0
	for _, id := range topK(retrieved, k) {
		if _, ok := want[id]; ok {
			found++
			delete(want, id)
		}
	}

	return float64(found) / float64(len(relevant))
}

// MRRAtK is the reciprocal rank of the first relevant ID within the first k
// retrieved, or 0 when none is there.
func MRRAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 || len(retrieved) == 0 {
		return 0.0
	}

	want := idSet(relevant)
	for i, id := range topK(retrieved, k) {
		if _, ok := want[id]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

func topK(ids []string, k int) []string {
	if k < len(ids) {
		return ids[:k]
	}
	return ids
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
