package model

const (
	DefaultSessionTitle = "New Chat"

	maxTitleLen   = 30
	titleKeepLen  = 27
	titleEllipsis = "..."
)

// DeriveTitle turns a session's first message into its title: kept as-is up
// to 30 characters, otherwise the first 27 followed by "...".
func DeriveTitle(text string) string {
	r := []rune(text)
	if len(r) <= maxTitleLen {
		return text
	}
	return string(r[:titleKeepLen]) + titleEllipsis
}
