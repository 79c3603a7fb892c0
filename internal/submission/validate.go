package submission

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError is one violated constraint, addressed to the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of a payload, not just the
// first. Callers respond 400 with the full list and never partially process
// a submission.
type ValidationError struct {
	Violations []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

const contactSchemaJSON = `{
	"type": "object",
	"required": ["firstName", "lastName", "email", "companyName"],
	"properties": {
		"firstName":   {"type": "string", "minLength": 1, "maxLength": 50},
		"lastName":    {"type": "string", "minLength": 1, "maxLength": 50},
		"email":       {"type": "string", "format": "email"},
		"phone":       {"type": "string"},
		"companyName": {"type": "string", "minLength": 1, "maxLength": 100},
		"message":     {"type": "string"}
	}
}`

const feedbackSchemaJSON = `{
	"type": "object",
	"required": ["name", "email", "category", "message", "contactConsent"],
	"properties": {
		"name":           {"type": "string", "minLength": 1, "maxLength": 100},
		"email":          {"type": "string", "format": "email"},
		"category":       {"type": "string", "enum": ["Question", "Suggestion", "Compliment", "Complaint", "Technical Issue", "Product Request"]},
		"locationName":   {"type": "string"},
		"message":        {"type": "string", "minLength": 10, "maxLength": 2000},
		"contactConsent": {"type": "boolean", "enum": [true]}
	}
}`

var (
	contactSchema  = mustSchema(contactSchemaJSON)
	feedbackSchema = mustSchema(feedbackSchemaJSON)
)

func mustSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return schema
}

// ContactRequest is the inbound contact form payload, decoded only after
// schema validation has passed in full.
type ContactRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Message     string `json:"message"`
}

// FeedbackRequest is the inbound feedback form payload.
type FeedbackRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Category       Category `json:"category"`
	LocationName   string   `json:"locationName"`
	Message        string   `json:"message"`
	ContactConsent bool     `json:"contactConsent"`
}

// ValidateContact checks a raw contact payload against the contact schema
// and decodes it. Pure: no side effects on any outcome.
func ValidateContact(payload []byte) (ContactRequest, error) {
	if err := validate(contactSchema, payload); err != nil {
		return ContactRequest{}, err
	}
	var req ContactRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return ContactRequest{}, &ValidationError{Violations: []FieldError{{Field: "body", Message: "malformed JSON payload"}}}
	}
	return req, nil
}

// ValidateFeedback checks a raw feedback payload against the feedback schema
// and decodes it.
func ValidateFeedback(payload []byte) (FeedbackRequest, error) {
	if err := validate(feedbackSchema, payload); err != nil {
		return FeedbackRequest{}, err
	}
	var req FeedbackRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return FeedbackRequest{}, &ValidationError{Violations: []FieldError{{Field: "body", Message: "malformed JSON payload"}}}
	}
	return req, nil
}

func validate(schema *gojsonschema.Schema, payload []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &ValidationError{Violations: []FieldError{{Field: "body", Message: "malformed JSON payload"}}}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Violations = append(verr.Violations, FieldError{
			Field:   fieldName(re),
			Message: violationMessage(re),
		})
	}
	return verr
}

func fieldName(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			return prop
		}
	}
	if re.Field() == "(root)" {
		return "body"
	}
	return re.Field()
}

func violationMessage(re gojsonschema.ResultError) string {
	// Consent and category get deliberate copy; everything else uses the
	// schema library's own description.
	if fieldName(re) == "contactConsent" {
		return "contact consent is required to submit feedback"
	}
	if fieldName(re) == "category" && re.Type() == "enum" {
		return "category must be one of: Question, Suggestion, Compliment, Complaint, Technical Issue, Product Request"
	}
	return re.Description()
}
