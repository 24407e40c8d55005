package specification

import (
	"featureboard-be/internal/entity"

	"gorm.io/gorm"
)

// ByProductID filters features by the product they were submitted against
type ByProductID struct {
	ProductID int64
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id = ?", s.ProductID)
}

// ByStatus filters features by pipeline status
type ByStatus struct {
	Status entity.Status
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status.String())
}

// ByOwnerID filters products by owner
type ByOwnerID struct {
	OwnerID string
}

func (s ByOwnerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}
