package entity

import "time"

type ChatMessage struct {
	UserID       string
	Role         string
	Content      string
	CreatedAt    time.Time
	SessionID    string
	SessionTitle string
}
