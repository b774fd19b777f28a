package model

import "time"

// UserData maps the user_data table. Column names follow the existing schema.
type UserData struct {
	UserID       string    `gorm:"column:UserID;type:varchar(100);primaryKey"`
	Name         string    `gorm:"column:Name;type:varchar(255);not null"`
	Age          int       `gorm:"column:Age;not null"`
	Gender       string    `gorm:"column:Gender;type:varchar(20);not null"`
	Country      string    `gorm:"column:Country;type:varchar(100);not null"`
	City         string    `gorm:"column:City;type:varchar(100);not null"`
	Password     string    `gorm:"column:password;type:varchar(255);not null"`
	RegisteredAt time.Time `gorm:"column:RegisteredAt;precision:6;not null"`
}

func (UserData) TableName() string {
	return "user_data"
}
