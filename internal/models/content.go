package models

import (
	"gorm.io/gorm"
)

// Catalog and content tables. These back plain admin CRUD; the booking and
// availability logic only references categories by id.

type ServiceCategory struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type PropertyType struct {
	gorm.Model
	ServiceCategoryID uint   `gorm:"index;not null" json:"service_category_id"`
	Name              string `gorm:"not null" json:"name"`
	Slug              string `json:"slug"`
}

type RoomType struct {
	gorm.Model
	ServiceCategoryID uint   `gorm:"index;not null" json:"service_category_id"`
	Name              string `gorm:"not null" json:"name"`
	Slug              string `json:"slug"`
}

type ServicePricing struct {
	gorm.Model
	ServiceCategoryID uint    `gorm:"index;not null" json:"service_category_id"`
	Name              string  `gorm:"not null" json:"name"`
	Slug              string  `json:"slug"`
	Price             float64 `gorm:"type:decimal(10,2)" json:"price"`
	Unit              string  `json:"unit,omitempty"` // per visit, per hour, per room
}

// ContentPage holds editable site content keyed by slug; Body is a JSON
// document the frontend renders as-is.
type ContentPage struct {
	gorm.Model
	Slug  string `gorm:"uniqueIndex;not null" json:"slug"`
	Title string `json:"title"`
	Body  string `gorm:"type:text" json:"body"`
}

type WebsiteSetting struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}
