package orchestrator

const (
	titleRuneLimit = 30
	titleEllipsis  = "..."

	// FallbackTitle is used when a session is minted from an empty prompt.
	FallbackTitle = "Untitled"
)

// GenerateTitle derives a session title from the first prompt of a session:
// the first 30 characters followed by an ellipsis.
func GenerateTitle(prompt string) string {
	if prompt == "" {
		return FallbackTitle
	}
	runes := []rune(prompt)
	if len(runes) > titleRuneLimit {
		runes = runes[:titleRuneLimit]
	}
	return string(runes) + titleEllipsis
}
