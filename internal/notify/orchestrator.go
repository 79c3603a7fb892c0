// Package notify coordinates the submission pipeline: validate, persist
// best-effort, render the customer and business emails, and dispatch both
// concurrently with an all-settled join.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/common"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/email"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/submission"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/template"
)

// Outcome describes what the pipeline managed to do for one submission.
// Once validation passes, an Outcome is always produced: persistence and
// delivery failures degrade the outcome, they never abort it.
type Outcome struct {
	SubmissionID string
	Persisted    bool
	Customer     email.Result
	Business     email.Result
	Urgent       bool
}

// FullyDelivered reports whether both emails went out.
func (o Outcome) FullyDelivered() bool {
	return o.Customer.Success && o.Business.Success
}

// BusinessDelivered reports whether the operationally critical internal
// alert went out, regardless of the customer confirmation.
func (o Outcome) BusinessDelivered() bool {
	return o.Business.Success
}

type Orchestrator struct {
	store      submission.Store
	renderer   *template.Renderer
	sender     email.Sender
	businessTo string
	logger     zerolog.Logger
	tracer     trace.Tracer
}

func NewOrchestrator(store submission.Store, renderer *template.Renderer, sender email.Sender, cfg *common.Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:      store,
		renderer:   renderer,
		sender:     sender,
		businessTo: cfg.BusinessRecipient,
		logger:     logger,
		tracer:     otel.Tracer("notify"),
	}
}

// ProcessContact runs the full contact pipeline for a raw JSON payload.
// The only error it returns is a *submission.ValidationError; every
// downstream failure is captured in the Outcome instead.
func (o *Orchestrator) ProcessContact(ctx context.Context, payload []byte, meta submission.Meta) (Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "process_contact")
	defer span.End()

	req, err := submission.ValidateContact(payload)
	if err != nil {
		return Outcome{}, err
	}
	sub := submission.NewContact(req, meta)
	span.SetAttributes(attribute.String("submission.id", sub.ID))

	outcome := Outcome{SubmissionID: sub.ID, Persisted: true}
	if err := o.store.SaveContact(ctx, sub); err != nil {
		// Persistence is advisory for the contact path: log and continue.
		o.logger.Error().Err(err).Str("submission_id", sub.ID).Msg("contact submission not persisted")
		outcome.Persisted = false
	}

	vars := map[string]string{
		"FirstName":   sub.FirstName,
		"LastName":    sub.LastName,
		"Email":       sub.Email,
		"Phone":       sub.Phone,
		"CompanyName": sub.CompanyName,
		"Message":     sub.Message,
		"SubmittedAt": sub.Meta.SubmittedAt.Format(time.RFC3339),
	}

	customer := o.renderCustomer(ctx, template.ContactConfirmation, sub.Email, vars)
	business := o.renderBusiness(template.ContactNotification, vars)
	outcome.Customer, outcome.Business = o.dispatchPair(ctx, customer, business)

	o.logOutcome(ctx, "contact", outcome)
	return outcome, nil
}

// ProcessFeedback runs the full feedback pipeline. Urgent categories only
// change response copy upstream, never dispatch behaviour.
func (o *Orchestrator) ProcessFeedback(ctx context.Context, payload []byte, meta submission.Meta) (Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "process_feedback")
	defer span.End()

	req, err := submission.ValidateFeedback(payload)
	if err != nil {
		return Outcome{}, err
	}
	sub := submission.NewFeedback(req, meta)
	span.SetAttributes(attribute.String("submission.id", sub.ID))

	outcome := Outcome{
		SubmissionID: sub.ID,
		Persisted:    true,
		Urgent:       submission.UrgentCategories[sub.Category],
	}
	if err := o.store.SaveFeedback(ctx, sub); err != nil {
		o.logger.Error().Err(err).Str("submission_id", sub.ID).Msg("feedback submission not persisted")
		outcome.Persisted = false
	}

	vars := map[string]string{
		"Name":         sub.Name,
		"Email":        sub.Email,
		"Category":     string(sub.Category),
		"LocationName": sub.LocationName,
		"Message":      sub.Message,
		"SubmittedAt":  sub.Meta.SubmittedAt.Format(time.RFC3339),
	}

	customer := o.renderCustomer(ctx, template.FeedbackConfirmation, sub.Email, vars)
	business := o.renderBusiness(template.FeedbackNotification, vars)
	outcome.Customer, outcome.Business = o.dispatchPair(ctx, customer, business)

	o.logOutcome(ctx, "feedback", outcome)
	return outcome, nil
}

type pending struct {
	to       string
	rendered template.Rendered
	err      error
}

// renderCustomer resolves the customer confirmation dynamic-first.
func (o *Orchestrator) renderCustomer(ctx context.Context, templateID, to string, vars map[string]string) pending {
	rendered, err := o.renderer.Render(ctx, templateID, vars)
	return pending{to: to, rendered: rendered, err: err}
}

// renderBusiness always uses the compiled-in template. Internal alerts are
// deliberately not editable through the admin template store.
func (o *Orchestrator) renderBusiness(templateID string, vars map[string]string) pending {
	rendered, err := template.RenderStatic(templateID, vars)
	return pending{to: o.businessTo, rendered: rendered, err: err}
}

// dispatchPair sends both emails concurrently and waits for both. One leg's
// failure never cancels the other; each slot always holds a well-formed
// Result.
func (o *Orchestrator) dispatchPair(ctx context.Context, customer, business pending) (email.Result, email.Result) {
	var customerResult, businessResult email.Result
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		customerResult = o.dispatchOne(ctx, customer)
	}()
	go func() {
		defer wg.Done()
		businessResult = o.dispatchOne(ctx, business)
	}()
	wg.Wait()

	return customerResult, businessResult
}

func (o *Orchestrator) dispatchOne(ctx context.Context, p pending) email.Result {
	if p.err != nil {
		return email.Failed("render email: " + p.err.Error())
	}
	return o.sender.Send(ctx, email.Outgoing{
		To:      p.to,
		Subject: p.rendered.Subject,
		HTML:    p.rendered.Body,
	})
}

func (o *Orchestrator) logOutcome(ctx context.Context, form string, outcome Outcome) {
	logger := common.WithContext(ctx, o.logger)
	logger.Info().
		Str("form", form).
		Str("submission_id", outcome.SubmissionID).
		Bool("persisted", outcome.Persisted).
		Bool("customer_sent", outcome.Customer.Success).
		Bool("business_sent", outcome.Business.Success).
		Msg("submission processed")
}
