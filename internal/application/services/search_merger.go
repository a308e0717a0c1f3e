package services

import "github.com/zatekoja/zoramarket/internal/domain/entities"

// MergeResults flattens strategy outputs and removes duplicate IDs.
// Each ID keeps the position of its first occurrence and the value of its last.
func MergeResults(results [][]*entities.Product) []*entities.Product {
	index := make(map[string]int)
	merged := []*entities.Product{}

	for _, list := range results {
		for _, p := range list {
			if p == nil {
				continue
			}
			if i, ok := index[p.ID]; ok {
				merged[i] = p
				continue
			}
			index[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}
	return merged
}
