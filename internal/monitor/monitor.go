// Package monitor runs the scheduled synthetic-transaction job: four probes
// against the submission store and the email provider, with one operator
// alert email when a must-pass probe fails in production.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/common"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/email"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/submission"
)

var probeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "monitor_probe_failures_total",
	Help: "Health monitor probe failures by probe name",
}, []string{"probe"})

const (
	ProbeDatabaseConnection = "database_connection"
	ProbeDatabaseWrite      = "database_write"
	ProbeDatabaseCleanup    = "database_cleanup"
	ProbeEmailService       = "email_service"
)

const (
	StatusPending = "pending"
	StatusPass    = "pass"
	StatusFail    = "fail"
)

type Probe struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type Report struct {
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Overall     string            `json:"overall"`
	Tests       map[string]*Probe `json:"tests"`
	AlertSent   bool              `json:"alert_sent"`
}

// Database is the slice of the persistence gateway the probes exercise.
type Database interface {
	Ping(ctx context.Context) error
	SaveContact(ctx context.Context, sub submission.ContactSubmission) error
	DeleteSynthetic(ctx context.Context, id string) error
}

// EmailChecker verifies the email provider is reachable.
type EmailChecker interface {
	Configured() bool
	CheckConnectivity(ctx context.Context) error
}

type Monitor struct {
	DB          Database
	Email       EmailChecker
	Sender      email.Sender
	OperatorTo  string
	Environment string
	Logger      zerolog.Logger
}

func New(db Database, checker EmailChecker, sender email.Sender, cfg *common.Config, logger zerolog.Logger) *Monitor {
	return &Monitor{
		DB:          db,
		Email:       checker,
		Sender:      sender,
		OperatorTo:  cfg.OperatorRecipient,
		Environment: cfg.Environment,
		Logger:      logger,
	}
}

// Run executes the four probes sequentially. Each probe is independently
// timed and independently allowed to fail; there are no retries within a
// run, the next scheduled invocation is the only retry mechanism.
func (m *Monitor) Run(ctx context.Context) Report {
	report := Report{
		Timestamp:   time.Now().UTC(),
		Environment: m.Environment,
		Tests: map[string]*Probe{
			ProbeDatabaseConnection: {Status: StatusPending},
			ProbeDatabaseWrite:      {Status: StatusPending},
			ProbeDatabaseCleanup:    {Status: StatusPending},
			ProbeEmailService:       {Status: StatusPending},
		},
	}

	m.runProbe(ctx, report.Tests[ProbeDatabaseConnection], ProbeDatabaseConnection, func(ctx context.Context) (string, error) {
		return "database reachable", m.DB.Ping(ctx)
	})

	synthetic := syntheticSubmission()
	wrote := m.runProbe(ctx, report.Tests[ProbeDatabaseWrite], ProbeDatabaseWrite, func(ctx context.Context) (string, error) {
		return "synthetic record written", m.DB.SaveContact(ctx, synthetic)
	})

	if wrote {
		m.runProbe(ctx, report.Tests[ProbeDatabaseCleanup], ProbeDatabaseCleanup, func(ctx context.Context) (string, error) {
			return "synthetic record removed", m.DB.DeleteSynthetic(ctx, synthetic.ID)
		})
	} else {
		report.Tests[ProbeDatabaseCleanup].Status = StatusPass
		report.Tests[ProbeDatabaseCleanup].Message = "skipped, no synthetic record to remove"
	}

	m.runProbe(ctx, report.Tests[ProbeEmailService], ProbeEmailService, func(ctx context.Context) (string, error) {
		if m.Environment != common.EnvProduction {
			return "skipped outside production", nil
		}
		if m.Email == nil || !m.Email.Configured() {
			return "", fmt.Errorf("email provider api key not configured")
		}
		return "email provider reachable", m.Email.CheckConnectivity(ctx)
	})

	report.Overall = StatusPass
	for _, name := range []string{ProbeDatabaseConnection, ProbeDatabaseWrite, ProbeEmailService} {
		if report.Tests[name].Status == StatusFail {
			report.Overall = StatusFail
		}
	}

	if report.Overall == StatusFail && m.Environment == common.EnvProduction {
		report.AlertSent = m.sendAlert(ctx, report)
	}

	m.Logger.Info().
		Str("overall", report.Overall).
		Bool("alert_sent", report.AlertSent).
		Msg("health monitor run complete")
	return report
}

type probeFn func(ctx context.Context) (string, error)

func (m *Monitor) runProbe(ctx context.Context, probe *Probe, name string, fn probeFn) bool {
	start := time.Now()
	message, err := fn(ctx)
	probe.DurationMS = time.Since(start).Milliseconds()

	if err != nil {
		probe.Status = StatusFail
		probe.Error = err.Error()
		probeFailures.WithLabelValues(name).Inc()
		m.Logger.Error().Err(err).Str("probe", name).Int64("duration_ms", probe.DurationMS).Msg("health probe failed")
		return false
	}
	probe.Status = StatusPass
	probe.Message = message
	return true
}

// sendAlert composes the operator email inline and sends it through the
// delivery adapter directly, bypassing the template renderer: the alert path
// must not depend on the template store being healthy.
func (m *Monitor) sendAlert(ctx context.Context, report Report) bool {
	var failed []string
	for _, name := range []string{ProbeDatabaseConnection, ProbeDatabaseWrite, ProbeDatabaseCleanup, ProbeEmailService} {
		probe := report.Tests[name]
		if probe.Status == StatusFail {
			failed = append(failed, fmt.Sprintf(
				"<li><strong>%s</strong>: %s (%dms)</li>", name, probe.Error, probe.DurationMS))
		}
	}

	subject := fmt.Sprintf("ALERT: AMP Vending health check failed (%d probes)", len(failed))
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif;">
  <h2 style="color: #c0392b;">Health Check Failure</h2>
  <p>Scheduled health check at %s reported overall status <strong>%s</strong>.</p>
  <ul>%s</ul>
  <p>This is an automated alert from the contact service health monitor.</p>
</div>`, report.Timestamp.Format(time.RFC3339), report.Overall, strings.Join(failed, "\n"))

	result := m.Sender.Send(ctx, email.Outgoing{
		To:      m.OperatorTo,
		Subject: subject,
		HTML:    body,
	})
	if !result.Success {
		m.Logger.Error().Str("error", result.Error).Msg("operator alert email failed")
	}
	return result.Success
}

func syntheticSubmission() submission.ContactSubmission {
	sub := submission.NewContact(submission.ContactRequest{
		FirstName:   "Synthetic",
		LastName:    "Probe",
		Email:       "healthcheck@ampvendingmachines.com",
		CompanyName: "AMP Vending Health Monitor",
		Message:     "Synthetic record written by the scheduled health check. Safe to delete.",
	}, submission.NewMeta(submission.SourceHealthCheck, "internal", "health-monitor"))
	return sub
}
