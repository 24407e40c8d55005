package projection

import (
	"testing"
	"time"

	"featureboard-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func feature(id int64, votes int, status entity.Status, created time.Time) *entity.Feature {
	return &entity.Feature{Id: id, VoteCount: votes, Status: status, CreatedAt: created}
}

func ids(features []*entity.Feature) []int64 {
	out := make([]int64, 0, len(features))
	for _, f := range features {
		out = append(out, f.Id)
	}
	return out
}

func votes(features []*entity.Feature) []int {
	out := make([]int, 0, len(features))
	for _, f := range features {
		out = append(out, f.VoteCount)
	}
	return out
}

func TestProjectSortsByVotes(t *testing.T) {
	now := time.Now()
	input := []*entity.Feature{
		feature(1, 3, entity.StatusSubmitted, now),
		feature(2, 1, entity.StatusSubmitted, now),
		feature(3, 2, entity.StatusSubmitted, now),
	}

	assert.Equal(t, []int{3, 2, 1}, votes(Project(input, Options{Sort: SortVotesDesc})))
	assert.Equal(t, []int{1, 2, 3}, votes(Project(input, Options{Sort: SortVotesAsc})))
	assert.Equal(t, []int64{1, 2, 3}, ids(input), "input order must not change")
}

func TestProjectIsStableForTies(t *testing.T) {
	now := time.Now()
	input := []*entity.Feature{
		feature(1, 2, entity.StatusPlanned, now),
		feature(2, 5, entity.StatusPlanned, now),
		feature(3, 2, entity.StatusPlanned, now),
		feature(4, 2, entity.StatusPlanned, now),
	}

	assert.Equal(t, []int64{2, 1, 3, 4}, ids(Project(input, Options{Sort: SortVotesDesc})))
	assert.Equal(t, []int64{1, 3, 4, 2}, ids(Project(input, Options{Sort: SortVotesAsc})))

	first := Project(input, Options{Sort: SortVotesDesc})
	second := Project(input, Options{Sort: SortVotesDesc})
	assert.Equal(t, ids(first), ids(second))
}

func TestProjectSortsByDate(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	input := []*entity.Feature{
		feature(1, 0, entity.StatusLive, base.Add(2*time.Hour)),
		feature(2, 0, entity.StatusLive, base),
		feature(3, 0, entity.StatusLive, base.Add(time.Hour)),
	}

	assert.Equal(t, []int64{1, 3, 2}, ids(Project(input, Options{Sort: SortDateDesc})))
	assert.Equal(t, []int64{2, 3, 1}, ids(Project(input, Options{Sort: SortDateAsc})))
}

func TestProjectFiltersByStatus(t *testing.T) {
	now := time.Now()
	input := []*entity.Feature{
		feature(1, 1, entity.StatusLive, now),
		feature(2, 4, entity.StatusPlanned, now),
		feature(3, 2, entity.StatusLive, now),
	}

	tests := []struct {
		name   string
		filter string
		want   []int64
	}{
		{name: "all keeps everything", filter: FilterAll, want: []int64{2, 3, 1}},
		{name: "empty keeps everything", filter: "", want: []int64{2, 3, 1}},
		{name: "live only", filter: "live", want: []int64{3, 1}},
		{name: "no match", filter: "staging", want: []int64{}},
		{name: "unrecognized filter", filter: "archived", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(input, Options{Sort: SortVotesDesc, Status: tt.filter})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	input := []*entity.Feature{
		feature(1, 1, entity.StatusSubmitted, now),
		feature(2, 9, entity.StatusSubmitted, now),
	}

	out := Project(input, Options{Sort: SortVotesDesc})
	out[0] = nil

	assert.Equal(t, []int64{1, 2}, ids(input))
	assert.Empty(t, Project(nil, Options{}))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, SortDateAsc, ParseSortKey("date-asc"))
	assert.Equal(t, SortVotesDesc, ParseSortKey("popularity"))
	assert.Equal(t, SortVotesDesc, ParseSortKey(""))

	f, ok := ParseFilter("")
	assert.True(t, ok)
	assert.Equal(t, FilterAll, f)

	f, ok = ParseFilter("in-progress")
	assert.True(t, ok)
	assert.Equal(t, "in-progress", f)

	_, ok = ParseFilter("archived")
	assert.False(t, ok)
}
