package entity

import "time"

type User struct {
	UserID       string
	Name         string
	Age          int
	Gender       string
	Country      string
	City         string
	PasswordHash string
	RegisteredAt time.Time
}
