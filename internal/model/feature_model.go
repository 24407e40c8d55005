// FILE: internal/model/feature_model.go
// GORM model for the features table
package model

import "time"

type Feature struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	ProductId   int64     `gorm:"not null;index"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(50)"`
	Status      string    `gorm:"type:varchar(20);not null;default:submitted;index"`
	AuthorId    string    `gorm:"type:varchar(100);not null"`
	VoteCount   int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Feature) TableName() string {
	return "features"
}
