package email

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/common"
)

var sendCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "email_sends_total",
	Help: "Email send attempts by adapter mode and outcome",
}, []string{"mode", "outcome"})

// Outgoing is one email to dispatch. To may be a comma-separated list; the
// adapter splits it into a single multi-recipient provider call.
type Outgoing struct {
	To      string
	Subject string
	HTML    string
	From    string
}

// Sender dispatches one rendered email and reports a Result. Implementations
// never return an error: a failed attempt is a failure-bearing Result so the
// orchestrator's all-settled join stays uniform.
type Sender interface {
	Send(ctx context.Context, msg Outgoing) Result
}

// Adapter selects delivery behaviour by deployment environment, not by a
// caller-visible toggle:
//
//   - development: no network call, the payload is logged and a synthetic
//     dev- message id is reported.
//   - production with an API key: one provider call, attempt-once.
//   - production without an API key: a warning is logged and a synthetic
//     fallback- id is reported, so an unconfigured provider is visible in
//     logs but never blocks the caller's happy path.
type Adapter struct {
	Provider    *ResendProvider
	Environment string
	DefaultFrom string
	Logger      zerolog.Logger
}

func NewAdapter(provider *ResendProvider, cfg *common.Config, logger zerolog.Logger) *Adapter {
	return &Adapter{
		Provider:    provider,
		Environment: cfg.Environment,
		DefaultFrom: cfg.SenderAddress,
		Logger:      logger,
	}
}

func (a *Adapter) Send(ctx context.Context, msg Outgoing) Result {
	ctx, span := otel.Tracer("delivery").Start(ctx, "send_email")
	defer span.End()

	from := msg.From
	if from == "" {
		from = a.DefaultFrom
	}
	recipients := splitRecipients(msg.To)
	span.SetAttributes(
		attribute.Int("email.recipients", len(recipients)),
		attribute.String("email.subject", msg.Subject),
	)

	if len(recipients) == 0 {
		sendCounter.WithLabelValues(a.mode(), "failed").Inc()
		return Failed("no recipients provided")
	}

	switch a.mode() {
	case "development":
		a.Logger.Info().
			Strs("to", recipients).
			Str("from", from).
			Str("subject", msg.Subject).
			Int("html_bytes", len(msg.HTML)).
			Msg("development mode, email not sent")
		sendCounter.WithLabelValues("development", "sent").Inc()
		return Delivered("dev-" + uuid.NewString())

	case "fallback":
		a.Logger.Warn().
			Strs("to", recipients).
			Str("subject", msg.Subject).
			Msg("email provider not configured, message dropped with synthetic id")
		sendCounter.WithLabelValues("fallback", "sent").Inc()
		return Delivered("fallback-" + uuid.NewString())
	}

	messageID, err := a.Provider.Send(ctx, from, recipients, msg.Subject, msg.HTML)
	if err != nil {
		span.RecordError(err)
		a.Logger.Error().Err(err).Strs("to", recipients).Str("subject", msg.Subject).Msg("provider send failed")
		sendCounter.WithLabelValues("provider", "failed").Inc()
		return Failed(err.Error())
	}

	sendCounter.WithLabelValues("provider", "sent").Inc()
	span.SetAttributes(attribute.String("email.message_id", messageID))
	return Delivered(messageID)
}

func (a *Adapter) mode() string {
	if a.Environment != common.EnvProduction {
		return "development"
	}
	if a.Provider == nil || !a.Provider.Configured() {
		return "fallback"
	}
	return "provider"
}

func splitRecipients(to string) []string {
	var recipients []string
	for _, part := range strings.Split(to, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
