package storage

import (
	"sort"

	"github.com/mmunhall/dice-sack/internal/model"
)

// SortNewestFirst orders records (given in insertion order) by CreatedAt
// descending. The sort is stable so equal timestamps keep insertion order.
func SortNewestFirst(recs []model.GroupRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
