// Package projection derives display-ready feature lists from a snapshot.
package projection

import (
	"cmp"
	"slices"

	"featureboard-be/internal/entity"
)

type SortKey string

const (
	SortVotesDesc SortKey = "votes-desc"
	SortVotesAsc  SortKey = "votes-asc"
	SortDateDesc  SortKey = "date-desc"
	SortDateAsc   SortKey = "date-asc"
)

// FilterAll keeps every status.
const FilterAll = "all"

type Options struct {
	Sort   SortKey
	Status string // FilterAll, "" or a status wire value
}

// ParseSortKey falls back to SortVotesDesc, the board's default ordering.
func ParseSortKey(s string) SortKey {
	switch key := SortKey(s); key {
	case SortVotesDesc, SortVotesAsc, SortDateDesc, SortDateAsc:
		return key
	}
	return SortVotesDesc
}

// ParseFilter validates a status filter, accepting "all" and "".
func ParseFilter(s string) (string, bool) {
	if s == "" || s == FilterAll {
		return FilterAll, true
	}
	if _, ok := entity.ParseStatus(s); ok {
		return s, true
	}
	return "", false
}

// Project filters and stably sorts features into a new slice. The input
// slice and the features it points to are left untouched.
func Project(features []*entity.Feature, opts Options) []*entity.Feature {
	out := make([]*entity.Feature, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		if opts.Status != "" && opts.Status != FilterAll && f.Status.String() != opts.Status {
			continue
		}
		out = append(out, f)
	}

	slices.SortStableFunc(out, comparator(ParseSortKey(string(opts.Sort))))
	return out
}

func comparator(key SortKey) func(a, b *entity.Feature) int {
	switch key {
	case SortVotesAsc:
		return func(a, b *entity.Feature) int { return cmp.Compare(a.VoteCount, b.VoteCount) }
	case SortDateDesc:
		return func(a, b *entity.Feature) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortDateAsc:
		return func(a, b *entity.Feature) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b *entity.Feature) int { return cmp.Compare(b.VoteCount, a.VoteCount) }
	}
}
