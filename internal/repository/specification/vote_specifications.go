package specification

import "gorm.io/gorm"

// ByUserID filters votes by voter
type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByFeatureID filters votes and comments by feature
type ByFeatureID struct {
	FeatureID int64
}

func (s ByFeatureID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("feature_id = ?", s.FeatureID)
}
