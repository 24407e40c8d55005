// FILE: internal/entity/product_entity.go
package entity

import "time"

type Product struct {
	Id          int64
	Name        string
	Description string
	OwnerId     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
