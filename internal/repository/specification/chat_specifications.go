package specification

import "gorm.io/gorm"

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return FilterBy{Field: "Session_ID", Value: s.SessionID}.Apply(db)
}

// Chronological orders messages oldest first.
type Chronological struct{}

func (s Chronological) Apply(db *gorm.DB) *gorm.DB {
	return OrderBy{Field: "DateTime"}.Apply(db)
}
