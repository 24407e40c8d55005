package dto

import "time"

type ListCommentsRequest struct {
	FeatureId int64
	Limit     int `validate:"min=0,max=100"`
	Offset    int `validate:"min=0"`
}

type CreateCommentRequest struct {
	FeatureId  int64  `json:"-"`
	AuthorName string `json:"author_name" validate:"max=100"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}

type UpdateCommentRequest struct {
	Id      int64  `json:"-"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type CommentResponse struct {
	Id         int64     `json:"id"`
	FeatureId  int64     `json:"feature_id"`
	AuthorId   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	IsOfficial bool      `json:"is_official"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
