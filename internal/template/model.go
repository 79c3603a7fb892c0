package template

import (
	"context"
	"regexp"
	"time"
)

// Template is an admin-editable email template. The pipeline only ever reads
// templates; create/edit/delete belong to the admin dashboard.
type Template struct {
	TemplateID string    `json:"template_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Variables  []string  `json:"variables"`
	IsActive   bool      `json:"is_active"`
	IsDefault  bool      `json:"is_default"`
	UsageCount int       `json:"usage_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store resolves active templates by their stable external key.
type Store interface {
	// GetActive returns the active template for the id, or nil when no
	// active row exists.
	GetActive(ctx context.Context, templateID string) (*Template, error)
	// IncrementUsage bumps the advisory usage counter.
	IncrementUsage(ctx context.Context, templateID string) error
}

var placeholderPattern = regexp.MustCompile(`\[([A-Za-z0-9_]+)\]`)

// ExtractVariables lists the distinct placeholder names appearing in subject
// and body, in order of first appearance.
func ExtractVariables(subject, body string) []string {
	seen := map[string]bool{}
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(subject+"\n"+body, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}
