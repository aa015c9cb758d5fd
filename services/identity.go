package services

// Identity is the decoded claims of a verified token.
type Identity struct {
	Email  string
	Claims map[string]any
}
