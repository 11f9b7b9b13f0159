package domain

// Mailer sends an email with both HTML and plain-text bodies.
// Either body may be empty; at least one should be set.
type Mailer interface {
	Send(to, subject, html, text string) error
}
