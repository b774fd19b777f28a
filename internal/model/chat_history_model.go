package model

import "time"

// ChatHistory maps the append-only chat_history log.
type ChatHistory struct {
	UserID       string    `gorm:"column:UserID;type:varchar(100);not null;index"`
	Role         string    `gorm:"column:messege_role;type:varchar(20);not null"`
	Content      string    `gorm:"column:message_content;type:text;not null"`
	DateTime     time.Time `gorm:"column:DateTime;precision:6;not null;index"`
	SessionID    string    `gorm:"column:Session_ID;type:varchar(64);not null;index"`
	SessionTitle string    `gorm:"column:Session_Title;type:varchar(255);not null"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}

// ChatSessionRow is the projection returned by the session listing query.
type ChatSessionRow struct {
	SessionID    string `gorm:"column:Session_ID"`
	SessionTitle string `gorm:"column:Session_Title"`
}
