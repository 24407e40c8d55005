package specification

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ByID filters by primary key
type ByID struct {
	ID int64
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ForUpdate locks the selected rows until the transaction ends. The
// in-memory store already holds its lock for the whole transaction.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// sortable lists the columns OrderBy accepts. Anything else sorts by id,
// which is also what the in-memory store does.
var sortable = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"vote_count": true,
	"title":      true,
	"name":       true,
}

// OrderBy sorts by one column. Several OrderBy specs apply in order.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	field := s.Field
	if !sortable[field] {
		field = "id"
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: s.Desc})
}

// Pagination limits the result window. A non-positive Limit means no limit.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	if s.Limit > 0 {
		db = db.Limit(s.Limit)
	}
	if s.Offset > 0 {
		db = db.Offset(s.Offset)
	}
	return db
}
