package template

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Source string

const (
	SourceDynamic Source = "dynamic"
	SourceStatic  Source = "static"
)

// Rendered is one resolved email, tagged with the resolution path that
// produced it so the fallback is observable.
type Rendered struct {
	Source  Source
	Subject string
	Body    string
}

// Renderer resolves a template id dynamic-first: an active database row wins,
// otherwise the compiled-in static template guarantees the pipeline can still
// produce an email with no external dependencies up.
type Renderer struct {
	store  Store
	logger zerolog.Logger
}

func NewRenderer(store Store, logger zerolog.Logger) *Renderer {
	return &Renderer{store: store, logger: logger}
}

// Render produces a subject and HTML body for the template id. Substitution
// is textual: every `[Name]` occurrence is replaced with vars["Name"],
// case-sensitively. Unmatched placeholders stay literal and extra vars are
// ignored. Values are inserted verbatim, with no HTML escaping; callers must
// only pass trusted or pre-escaped values.
func (r *Renderer) Render(ctx context.Context, templateID string, vars map[string]string) (Rendered, error) {
	if r.store != nil {
		tpl, err := r.store.GetActive(ctx, templateID)
		if err != nil {
			r.logger.Warn().Err(err).Str("template_id", templateID).Msg("dynamic template lookup failed, using static fallback")
		} else if tpl != nil {
			if err := r.store.IncrementUsage(ctx, templateID); err != nil {
				r.logger.Debug().Err(err).Str("template_id", templateID).Msg("usage count increment failed")
			}
			return Rendered{
				Source:  SourceDynamic,
				Subject: Substitute(tpl.Subject, vars),
				Body:    Substitute(tpl.Body, vars),
			}, nil
		}
	}
	return RenderStatic(templateID, vars)
}

// RenderStatic resolves only the compiled-in template set. The business
// notification path calls this directly: internal alerts are deliberately
// not editable through the admin template store.
func RenderStatic(templateID string, vars map[string]string) (Rendered, error) {
	tpl, ok := staticTemplates[templateID]
	if !ok {
		return Rendered{}, fmt.Errorf("no static template registered for %q", templateID)
	}
	return Rendered{
		Source:  SourceStatic,
		Subject: Substitute(tpl.Subject, vars),
		Body:    Substitute(tpl.Body, vars),
	}, nil
}

// Substitute replaces bracketed placeholders in a single pass, so a value
// containing bracket text is never itself re-substituted.
func Substitute(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		return token
	})
}
