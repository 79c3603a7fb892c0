package submission

import (
	"context"
	"time"
)

// Category is the closed set of feedback categories accepted by the public
// feedback form. Anything else is a validation failure, never a coercion.
type Category string

const (
	CategoryQuestion       Category = "Question"
	CategorySuggestion     Category = "Suggestion"
	CategoryCompliment     Category = "Compliment"
	CategoryComplaint      Category = "Complaint"
	CategoryTechnicalIssue Category = "Technical Issue"
	CategoryProductRequest Category = "Product Request"
)

// UrgentCategories flags the categories whose response copy promises a faster
// follow-up. Dispatch behaviour is identical either way.
var UrgentCategories = map[Category]bool{
	CategoryComplaint:      true,
	CategoryTechnicalIssue: true,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryQuestion, CategorySuggestion, CategoryCompliment,
		CategoryComplaint, CategoryTechnicalIssue, CategoryProductRequest:
		return true
	}
	return false
}

// Source tags identify the originating public form on persisted rows.
const (
	SourceContactForm  = "contact-form"
	SourceFeedbackForm = "feedback-form"
	SourceHealthCheck  = "health-check"
)

// Meta carries the request context captured alongside every submission.
type Meta struct {
	SubmittedAt time.Time `json:"submittedAt"`
	Source      string    `json:"source"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// ContactSubmission is a fully validated contact form submission. It is
// created once per POST and never mutated by this pipeline.
type ContactSubmission struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"companyName"`
	Message     string `json:"message"`
	Meta        Meta   `json:"meta"`
}

// FeedbackSubmission is a fully validated feedback form submission.
type FeedbackSubmission struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Category       Category `json:"category"`
	LocationName   string   `json:"locationName,omitempty"`
	Message        string   `json:"message"`
	ContactConsent bool     `json:"contactConsent"`
	Meta           Meta     `json:"meta"`
}

// Store is the persistence gateway for submissions. Writes are attempt-once
// and advisory for the notification pipeline: a failed save is logged and the
// email dispatch proceeds regardless.
type Store interface {
	SaveContact(ctx context.Context, sub ContactSubmission) error
	SaveFeedback(ctx context.Context, sub FeedbackSubmission) error
}
