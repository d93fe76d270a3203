package store

import "github.com/uniportfoc/elibrary-client/internal/model"

// CategoryShares groups materials by category in first-encountered order and
// computes each category's percentage of the whole. An empty collection
// yields an empty result rather than dividing by zero.
func CategoryShares(items []model.Material) []model.CategoryShare {
	if len(items) == 0 {
		return nil
	}

	index := make(map[string]int, len(items))
	shares := make([]model.CategoryShare, 0)
	for _, it := range items {
		if i, ok := index[it.Category]; ok {
			shares[i].Count++
			continue
		}
		index[it.Category] = len(shares)
		shares = append(shares, model.CategoryShare{Name: it.Category, Count: 1})
	}

	total := float64(len(items))
	for i := range shares {
		shares[i].Percentage = float64(shares[i].Count) / total * 100
	}
	return shares
}
