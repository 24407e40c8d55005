package dto

import "time"

type ListFeaturesRequest struct {
	ProductId int64
	Sort      string
	Status    string
}

type CreateFeatureRequest struct {
	ProductId   int64  `json:"product_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,min=5,max=100"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Category    string `json:"category" validate:"required,oneof='UI/UX Improvement' 'New Feature' 'Performance' 'Integration' 'Bug Fix' 'Documentation' 'Other'"`
}

type UpdateFeatureRequest struct {
	Id          int64  `json:"-"`
	Title       string `json:"title" validate:"required,min=5,max=100"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Category    string `json:"category" validate:"required,oneof='UI/UX Improvement' 'New Feature' 'Performance' 'Integration' 'Bug Fix' 'Documentation' 'Other'"`
}

type UpdateFeatureStatusRequest struct {
	Id     int64  `json:"-"`
	Status string `json:"status" validate:"required,oneof=submitted under-review planned in-progress staging live"`
}

type FeatureResponse struct {
	Id          int64     `json:"id"`
	ProductId   int64     `json:"product_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	AuthorId    string    `json:"author_id"`
	VoteCount   int       `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
