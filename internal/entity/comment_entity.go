// FILE: internal/entity/comment_entity.go
package entity

import "time"

// Comment is a discussion entry on a feature. IsOfficial marks comments
// written by the owner of the feature's product.
type Comment struct {
	Id         int64
	FeatureId  int64
	AuthorId   string
	AuthorName string
	Content    string
	IsOfficial bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
