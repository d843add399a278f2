package models

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	Street      string `gorm:"not null"`
	ZipCode     string `gorm:"not null"`
	CountryCode string `gorm:"not null"`
}

// Order is soft-deleted so a removed order stays resolvable for
// auditing.
type Order struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Comment  string
	UserID   uint    `gorm:"index;not null"`
	Customer string  `gorm:"not null"`
	Address  Address `gorm:"embedded;embeddedPrefix:address_"`
	Items    []OrderItem
}

type OrderItem struct {
	ID        uint `gorm:"primarykey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"not null"`
	Name      string
}

func All() []any {
	return []any{&Order{}, &OrderItem{}}
}
