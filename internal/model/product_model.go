// FILE: internal/model/product_model.go
package model

import "time"

type Product struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	OwnerId     string    `gorm:"type:varchar(100);not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
