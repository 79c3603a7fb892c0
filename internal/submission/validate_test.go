package submission

import (
	"errors"
	"strings"
	"testing"
)

func violated(t *testing.T, err error, field string) bool {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	for _, v := range verr.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func TestValidateContactValid(t *testing.T) {
	payload := []byte(`{"firstName":"John","lastName":"Smith","email":"john@x.com","companyName":"Acme"}`)

	req, err := ValidateContact(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.FirstName != "John" || req.LastName != "Smith" {
		t.Fatalf("unexpected name: %q %q", req.FirstName, req.LastName)
	}
	if req.Message != "" {
		t.Fatalf("missing message should default to empty string, got %q", req.Message)
	}
	if req.Phone != "" {
		t.Fatalf("missing phone should default to empty string, got %q", req.Phone)
	}
}

func TestValidateContactViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{
			name:    "missing first name",
			payload: `{"lastName":"Smith","email":"john@x.com","companyName":"Acme"}`,
			field:   "firstName",
		},
		{
			name:    "empty first name",
			payload: `{"firstName":"","lastName":"Smith","email":"john@x.com","companyName":"Acme"}`,
			field:   "firstName",
		},
		{
			name:    "first name too long",
			payload: `{"firstName":"` + strings.Repeat("a", 51) + `","lastName":"Smith","email":"john@x.com","companyName":"Acme"}`,
			field:   "firstName",
		},
		{
			name:    "invalid email",
			payload: `{"firstName":"John","lastName":"Smith","email":"not-an-email","companyName":"Acme"}`,
			field:   "email",
		},
		{
			name:    "company name too long",
			payload: `{"firstName":"John","lastName":"Smith","email":"john@x.com","companyName":"` + strings.Repeat("c", 101) + `"}`,
			field:   "companyName",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateContact([]byte(tc.payload))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !violated(t, err, tc.field) {
				t.Fatalf("expected violation for field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestValidateContactCollectsAllViolations(t *testing.T) {
	payload := []byte(`{"email":"bad","companyName":""}`)

	_, err := ValidateContact(payload)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, field := range []string{"firstName", "lastName", "email", "companyName"} {
		if !violated(t, err, field) {
			t.Fatalf("expected violation for %q among all errors, got %v", field, err)
		}
	}
}

func validFeedbackPayload() map[string]string {
	return map[string]string{
		"name":     `"Jane Doe"`,
		"email":    `"jane@x.com"`,
		"category": `"Question"`,
		"message":  `"The machine on the second floor is great."`,
		"consent":  `true`,
	}
}

func feedbackJSON(fields map[string]string) []byte {
	var parts []string
	for key, value := range fields {
		name := key
		if key == "consent" {
			name = "contactConsent"
		}
		parts = append(parts, `"`+name+`":`+value)
	}
	return []byte("{" + strings.Join(parts, ",") + "}")
}

func TestValidateFeedbackValid(t *testing.T) {
	req, err := ValidateFeedback(feedbackJSON(validFeedbackPayload()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Category != CategoryQuestion {
		t.Fatalf("unexpected category: %q", req.Category)
	}
	if !req.ContactConsent {
		t.Fatalf("consent not decoded")
	}
}

func TestValidateFeedbackConsent(t *testing.T) {
	t.Run("consent false", func(t *testing.T) {
		fields := validFeedbackPayload()
		fields["consent"] = `false`
		_, err := ValidateFeedback(feedbackJSON(fields))
		if err == nil || !violated(t, err, "contactConsent") {
			t.Fatalf("expected contactConsent violation, got %v", err)
		}
	})

	t.Run("consent absent", func(t *testing.T) {
		fields := validFeedbackPayload()
		delete(fields, "consent")
		_, err := ValidateFeedback(feedbackJSON(fields))
		if err == nil || !violated(t, err, "contactConsent") {
			t.Fatalf("expected contactConsent violation, got %v", err)
		}
	})
}

func TestValidateFeedbackCategoryClosedSet(t *testing.T) {
	for _, category := range []string{"Question", "Suggestion", "Compliment", "Complaint", "Technical Issue", "Product Request"} {
		fields := validFeedbackPayload()
		fields["category"] = `"` + category + `"`
		if _, err := ValidateFeedback(feedbackJSON(fields)); err != nil {
			t.Fatalf("category %q should be accepted: %v", category, err)
		}
	}

	// A plausible English word outside the closed set is still rejected.
	fields := validFeedbackPayload()
	fields["category"] = `"Refund"`
	_, err := ValidateFeedback(feedbackJSON(fields))
	if err == nil || !violated(t, err, "category") {
		t.Fatalf("expected category violation for Refund, got %v", err)
	}
}

func TestValidateFeedbackMessageLength(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "too short", length: 5, wantErr: true},
		{name: "just below minimum", length: 9, wantErr: true},
		{name: "minimum", length: 10},
		{name: "maximum", length: 2000},
		{name: "above maximum", length: 2001, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFeedbackPayload()
			fields["message"] = `"` + strings.Repeat("m", tc.length) + `"`
			_, err := ValidateFeedback(feedbackJSON(fields))
			if tc.wantErr {
				if err == nil || !violated(t, err, "message") {
					t.Fatalf("expected message violation for length %d, got %v", tc.length, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("length %d should be accepted: %v", tc.length, err)
			}
		})
	}
}

func TestValidateMalformedJSON(t *testing.T) {
	_, err := ValidateContact([]byte(`{"firstName":`))
	if err == nil || !violated(t, err, "body") {
		t.Fatalf("expected body violation for malformed JSON, got %v", err)
	}
}

func TestNewMetaDefaults(t *testing.T) {
	meta := NewMeta(SourceContactForm, "", "")
	if meta.ClientIP != "unknown" {
		t.Fatalf("absent client ip should record as unknown, got %q", meta.ClientIP)
	}
	if meta.SubmittedAt.IsZero() {
		t.Fatalf("submitted at not set")
	}
}

func TestNewContactDistinctIDs(t *testing.T) {
	req := ContactRequest{FirstName: "John", LastName: "Smith", Email: "john@x.com", CompanyName: "Acme"}
	meta := NewMeta(SourceContactForm, "1.2.3.4", "test")

	first := NewContact(req, meta)
	second := NewContact(req, meta)
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("submissions must get distinct server-generated ids: %q vs %q", first.ID, second.ID)
	}
}
