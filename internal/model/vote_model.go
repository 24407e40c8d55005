// FILE: internal/model/vote_model.go
// GORM model for the votes table
package model

import "time"

// Vote is unique per (user_id, feature_id); the index is what turns a lost
// race between two inserts into a duplicate-key error.
type Vote struct {
	Id        int64     `gorm:"primaryKey;autoIncrement"`
	UserId    string    `gorm:"type:varchar(100);not null;uniqueIndex:uk_vote_user_feature,priority:1;index"`
	FeatureId int64     `gorm:"not null;uniqueIndex:uk_vote_user_feature,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Vote) TableName() string {
	return "votes"
}
