package dto

import "time"

// VoteStateResponse is returned by add, remove and toggle. VoteCount is the
// value persisted after the mutation.
type VoteStateResponse struct {
	FeatureId int64         `json:"feature_id"`
	Voted     bool          `json:"voted"`
	VoteCount int           `json:"vote_count"`
	Vote      *VoteResponse `json:"vote,omitempty"`
}

type HasVotedResponse struct {
	FeatureId int64 `json:"feature_id"`
	Voted     bool  `json:"voted"`
}

type VoteResponse struct {
	Id        int64     `json:"id"`
	UserId    string    `json:"user_id"`
	FeatureId int64     `json:"feature_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UserVotesResponse struct {
	UserId     string  `json:"user_id"`
	FeatureIds []int64 `json:"feature_ids"`
}

// ReconcileVoteCountMessage asks the reconciler to recount a feature's votes.
type ReconcileVoteCountMessage struct {
	FeatureId int64  `json:"feature_id"`
	Reason    string `json:"reason"`
}

type ReconcileResponse struct {
	FeatureId int64 `json:"feature_id"`
	Previous  int   `json:"previous"`
	VoteCount int   `json:"vote_count"`
}
