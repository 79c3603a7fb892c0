package submission

import (
	"time"

	"github.com/google/uuid"
)

// NewMeta captures the request context for a submission. Client IP and user
// agent are best-effort: an absent IP is recorded as "unknown" rather than
// failing the submission.
func NewMeta(source, clientIP, userAgent string) Meta {
	if clientIP == "" {
		clientIP = "unknown"
	}
	return Meta{
		SubmittedAt: time.Now().UTC(),
		Source:      source,
		ClientIP:    clientIP,
		UserAgent:   userAgent,
	}
}

// NewContact builds a ContactSubmission from a validated request. The id is
// server-generated and unique per submission; duplicate POSTs deliberately
// produce distinct rows (no idempotency key, see the persistence gateway).
func NewContact(req ContactRequest, meta Meta) ContactSubmission {
	return ContactSubmission{
		ID:          uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Message:     req.Message,
		Meta:        meta,
	}
}

// NewFeedback builds a FeedbackSubmission from a validated request.
func NewFeedback(req FeedbackRequest, meta Meta) FeedbackSubmission {
	return FeedbackSubmission{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		Category:       req.Category,
		LocationName:   req.LocationName,
		Message:        req.Message,
		ContactConsent: req.ContactConsent,
		Meta:           meta,
	}
}
