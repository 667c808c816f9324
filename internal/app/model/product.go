package model

import (
	"time"
)

type ProductType string

const (
	TypeElectronics ProductType = "electronics"
	TypeClothing    ProductType = "clothing"
	TypeHome        ProductType = "home"
	TypeSports      ProductType = "sports"
	TypeBooks       ProductType = "books"
	TypeOther       ProductType = "other"
)

type Product struct {
	ID               uint        `gorm:"primarykey" json:"id"`
	Name             string      `gorm:"not null" json:"name"`
	ShortDescription string      `gorm:"type:text" json:"short_description"`
	Price            float64     `gorm:"not null" json:"price"`
	ImageURL         *string     `json:"image_url"`
	ProductType      ProductType `gorm:"type:varchar(50)" json:"product_type"`
	CreatedByUserID  uint        `gorm:"not null;index" json:"created_by_user_id"`
	CreatedAt        time.Time   `json:"created_at"`
	// Stamped by the service on update, never on create.
	ModifiedAt *time.Time `json:"modified_at,omitempty"`

	// Relationships
	CreatedBy *User      `gorm:"foreignKey:CreatedByUserID" json:"created_by,omitempty"`
	CartItems []CartItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
