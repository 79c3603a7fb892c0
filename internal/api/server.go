package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/common"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/monitor"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/notify"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/submission"
)

var (
	submissionCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "form_submissions_total",
		Help: "Form submissions received by form and outcome",
	}, []string{"form", "status"})
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "form_request_duration_seconds",
		Help:    "Latency for form submission requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"form"})
)

// Pinger is the database health slice used by the public health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	orchestrator *notify.Orchestrator
	monitor      *monitor.Monitor
	db           Pinger
	emailChecker monitor.EmailChecker
	cfg          *common.Config
	tracer       trace.Tracer
	logger       zerolog.Logger
}

func NewHandler(orch *notify.Orchestrator, mon *monitor.Monitor, db Pinger, checker monitor.EmailChecker, cfg *common.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		monitor:      mon,
		db:           db,
		emailChecker: checker,
		cfg:          cfg,
		tracer:       otel.Tracer("api"),
		logger:       logger,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/contact", h.contact)
	r.Post("/api/feedback", h.feedback)
	r.Get("/api/contact/health", h.health)
	r.Get("/api/monitor", h.runMonitor)
	return r
}

type emailStatus struct {
	CustomerConfirmation string `json:"customerConfirmation"`
	BusinessNotification string `json:"businessNotification"`
}

type submissionResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	SubmissionID string      `json:"submissionId"`
	EmailStatus  emailStatus `json:"emailStatus"`
	IsUrgent     *bool       `json:"isUrgent,omitempty"`
}

type validationResponse struct {
	Success bool                    `json:"success"`
	Errors  []submission.FieldError `json:"errors"`
}

func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "contact_form")
	defer span.End()
	start := time.Now()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondErr(ctx, w, http.StatusInternalServerError, err)
		return
	}

	meta := submission.NewMeta(submission.SourceContactForm, clientIP(r), r.UserAgent())
	outcome, err := h.orchestrator.ProcessContact(ctx, payload, meta)
	if err != nil {
		h.respondValidation(ctx, w, "contact", err)
		return
	}
	span.SetAttributes(attribute.String("submission.id", outcome.SubmissionID))

	submissionCounter.WithLabelValues("contact", tierLabel(outcome)).Inc()
	requestLatency.WithLabelValues("contact").Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, submissionResponse{
		Success:      true,
		Message:      contactMessage(outcome),
		SubmissionID: outcome.SubmissionID,
		EmailStatus:  statusOf(outcome),
	})
}

func (h *Handler) feedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "feedback_form")
	defer span.End()
	start := time.Now()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondErr(ctx, w, http.StatusInternalServerError, err)
		return
	}

	meta := submission.NewMeta(submission.SourceFeedbackForm, clientIP(r), r.UserAgent())
	outcome, err := h.orchestrator.ProcessFeedback(ctx, payload, meta)
	if err != nil {
		h.respondValidation(ctx, w, "feedback", err)
		return
	}
	span.SetAttributes(attribute.String("submission.id", outcome.SubmissionID))

	submissionCounter.WithLabelValues("feedback", tierLabel(outcome)).Inc()
	requestLatency.WithLabelValues("feedback").Observe(time.Since(start).Seconds())

	urgent := outcome.Urgent
	writeJSON(w, http.StatusOK, submissionResponse{
		Success:      true,
		Message:      feedbackMessage(outcome),
		SubmissionID: outcome.SubmissionID,
		EmailStatus:  statusOf(outcome),
		IsUrgent:     &urgent,
	})
}

type serviceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status   string                   `json:"status"`
	Services map[string]serviceHealth `json:"services"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "contact_health")
	defer span.End()

	resp := healthResponse{Status: "healthy", Services: map[string]serviceHealth{}}
	statusCode := http.StatusOK

	if h.emailChecker != nil && h.emailChecker.Configured() {
		resp.Services["email"] = serviceHealth{Status: "ok", Message: "email provider configured"}
	} else {
		// Not configured is degraded, never a hard failure.
		resp.Services["email"] = serviceHealth{Status: "not_configured", Message: "email provider api key missing"}
		resp.Status = "degraded"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := h.db.Ping(pingCtx); err != nil {
		resp.Services["database"] = serviceHealth{Status: "error", Message: err.Error()}
		resp.Status = "unhealthy"
		statusCode = http.StatusInternalServerError
	} else {
		resp.Services["database"] = serviceHealth{Status: "ok", Message: "database reachable"}
	}

	writeJSON(w, statusCode, resp)
}

func (h *Handler) runMonitor(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "scheduled_monitor")
	defer span.End()

	if h.cfg.IsProduction() {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if h.cfg.CronSecret == "" || token != h.cfg.CronSecret {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
	}

	report := h.monitor.Run(ctx)
	statusCode := http.StatusOK
	if report.Overall == monitor.StatusFail {
		statusCode = http.StatusInternalServerError
	}
	writeJSON(w, statusCode, report)
}

func (h *Handler) respondValidation(ctx context.Context, w http.ResponseWriter, form string, err error) {
	verr, ok := err.(*submission.ValidationError)
	if !ok {
		h.respondErr(ctx, w, http.StatusInternalServerError, err)
		return
	}
	submissionCounter.WithLabelValues(form, "invalid").Inc()
	logger := common.WithContext(ctx, h.logger)
	logger.Warn().Err(verr).Str("form", form).Msg("submission rejected")
	writeJSON(w, http.StatusBadRequest, validationResponse{Success: false, Errors: verr.Violations})
}

func (h *Handler) respondErr(ctx context.Context, w http.ResponseWriter, status int, err error) {
	logger := common.WithContext(ctx, h.logger)
	logger.Error().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]any{"success": false, "error": http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func statusOf(outcome notify.Outcome) emailStatus {
	return emailStatus{
		CustomerConfirmation: sendLabel(outcome.Customer.Success),
		BusinessNotification: sendLabel(outcome.Business.Success),
	}
}

func sendLabel(sent bool) string {
	if sent {
		return "sent"
	}
	return "failed"
}

// tierLabel maps the degrade tiers to a metric label: full / partial /
// unconfirmed. All three are user-visible successes.
func tierLabel(outcome notify.Outcome) string {
	switch {
	case outcome.FullyDelivered():
		return "full"
	case outcome.BusinessDelivered():
		return "partial"
	default:
		return "unconfirmed"
	}
}

func contactMessage(outcome notify.Outcome) string {
	switch {
	case outcome.FullyDelivered():
		return "Thank you for your message! A confirmation email is on its way."
	case outcome.BusinessDelivered():
		return "Thank you for your message! Our team has been notified and will reach out shortly."
	default:
		return "Thank you for your message! Your submission was received and our team will follow up."
	}
}

func feedbackMessage(outcome notify.Outcome) string {
	if outcome.Urgent {
		return "Thank you for your feedback. We prioritize complaints and technical issues and will respond as soon as possible."
	}
	if outcome.FullyDelivered() {
		return "Thank you for your feedback! A confirmation email is on its way."
	}
	return "Thank you for your feedback! It has been recorded and routed to our team."
}

// clientIP extracts the originating address best-effort: first hop of
// X-Forwarded-For, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
