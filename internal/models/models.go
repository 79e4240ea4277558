package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null"             json:"name"`
	Image     string    `gorm:"not null"             json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subcategories []Subcategory `gorm:"-" json:"subcategories,omitempty"`
}

type Subcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name       string    `gorm:"not null"                 json:"name"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Title         string    `gorm:"not null"                 json:"title"`
	Image         string    `gorm:"not null"                 json:"image"`
	Price         float64   `gorm:"not null"                 json:"price"`
	Description   string    `gorm:"default:''"               json:"description"`
	CategoryID    uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	SubcategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"subcategory_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Extras []ProductExtra `gorm:"-" json:"extras,omitempty"`
	Verres []ProductVerre `gorm:"-" json:"verres,omitempty"`
}

// ProductExtra is an additive surcharge on top of the product price.
type ProductExtra struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Price     float64   `gorm:"not null"                 json:"price"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductVerre is a serving-size variant with its own full price,
// not a surcharge.
type ProductVerre struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Price     float64   `gorm:"not null"                 json:"price"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminSetting holds the one admin identity. Exactly one row may exist,
// always under AdminSettingID.
type AdminSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"not null"   json:"username"`
	PasswordHash string    `gorm:"not null"   json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const AdminSettingID uint = 1

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (e *ProductExtra) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (v *ProductVerre) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
