package dto

type RoadmapColumn struct {
	Status   string            `json:"status"`
	Features []FeatureResponse `json:"features"`
}

type RoadmapResponse struct {
	ProductId int64           `json:"product_id"`
	Columns   []RoadmapColumn `json:"columns"`
	// Dropped counts features whose status is outside the pipeline.
	Dropped int `json:"dropped"`
}
