package models

type Product struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null"   json:"name"`
}
