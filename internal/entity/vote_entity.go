// FILE: internal/entity/vote_entity.go
package entity

import "time"

// Vote records that a user voted for a feature. Votes are created and
// deleted, never updated.
type Vote struct {
	Id        int64
	UserId    string
	FeatureId int64
	CreatedAt time.Time
}
