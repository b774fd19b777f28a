package entity

// ChatSessionSummary is one session grouped out of the message log.
type ChatSessionSummary struct {
	SessionID string
	Title     string
}
