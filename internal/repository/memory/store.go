package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"featureboard-be/internal/model"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"
)

type tables struct {
	features map[int64]model.Feature
	votes    map[int64]model.Vote
	products map[int64]model.Product
	comments map[int64]model.Comment

	featureSeq int64
	voteSeq    int64
	productSeq int64
	commentSeq int64
}

func newTables() *tables {
	return &tables{
		features: make(map[int64]model.Feature),
		votes:    make(map[int64]model.Vote),
		products: make(map[int64]model.Product),
		comments: make(map[int64]model.Comment),
	}
}

func (t *tables) clone() *tables {
	c := *t
	c.features = maps.Clone(t.features)
	c.votes = maps.Clone(t.votes)
	c.products = maps.Clone(t.products)
	c.comments = maps.Clone(t.comments)
	return &c
}

// Store is an in-process record store with the same contract as the
// Postgres backend. A transaction holds the store lock from Begin until
// Commit or Rollback, so transactions are fully serialized.
type Store struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: newTables(),
		now:  time.Now,
	}
}

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// table describes how generic queries read one collection.
type table[T any] struct {
	id      func(*T) int64
	match   func(*T, specification.Specification) bool
	compare func(a, b *T, field string) int
}

func (t table[T]) query(rows map[int64]T, specs []specification.Specification) []*T {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		r := row
		if t.matchesAll(&r, specs) {
			out = append(out, &r)
		}
	}
	slices.SortFunc(out, func(a, b *T) int {
		return cmp.Compare(t.id(a), t.id(b))
	})

	var orders []specification.OrderBy
	var page *specification.Pagination
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			orders = append(orders, s)
		case specification.Pagination:
			page = &s
		}
	}

	if len(orders) > 0 {
		slices.SortStableFunc(out, func(a, b *T) int {
			for _, o := range orders {
				c := t.compare(a, b, o.Field)
				if o.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if page != nil {
		start := min(max(page.Offset, 0), len(out))
		out = out[start:]
		if page.Limit > 0 && page.Limit < len(out) {
			out = out[:page.Limit]
		}
	}
	return out
}

func (t table[T]) matchesAll(row *T, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy, specification.Pagination, specification.ForUpdate:
			continue
		case specification.ByID:
			if t.id(row) != s.ID {
				return false
			}
		default:
			if !t.match(row, spec) {
				return false
			}
		}
	}
	return true
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
