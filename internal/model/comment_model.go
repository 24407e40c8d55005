// FILE: internal/model/comment_model.go
package model

import "time"

type Comment struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	FeatureId  int64     `gorm:"not null;index"`
	AuthorId   string    `gorm:"type:varchar(100);not null"`
	AuthorName string    `gorm:"type:varchar(100);not null"`
	Content    string    `gorm:"type:text;not null"`
	IsOfficial bool      `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Comment) TableName() string {
	return "comments"
}
