// Package fill models a respondent's pass through a form snapshot: held
// values, step navigation and the final submission.
package fill

import (
	"errors"

	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/validation"
)

var (
	ErrStepIncomplete = errors.New("current step is not complete")
	ErrLastStep       = errors.New("already on the last step")
)

// Session is one respondent's in-progress fill of a form. The form snapshot
// is fixed at session start; edits to the form elsewhere do not affect it.
type Session struct {
	form   model.Form
	steps  []model.Step
	pos    int
	values map[string]any
}

func NewSession(form model.Form) *Session {
	return &Session{
		form:   form.Clone(),
		steps:  form.OrderedSteps(),
		values: map[string]any{},
	}
}

func (s *Session) Form() model.Form { return s.form.Clone() }

// CurrentStep returns the step the respondent is on (1-based position).
func (s *Session) CurrentStep() model.Step { return s.steps[s.pos] }

func (s *Session) StepNumber() int { return s.pos + 1 }

func (s *Session) Set(fieldID string, value any) {
	s.values[fieldID] = value
}

func (s *Session) Value(fieldID string) any { return s.values[fieldID] }

// Values returns a copy of the currently held values.
func (s *Session) Values() map[string]any {
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values
}

// StepComplete re-evaluates the current step against the held values.
func (s *Session) StepComplete() bool {
	return validation.StepComplete(s.form, s.steps[s.pos].ID, s.values)
}

// Next advances to the following step. It is blocked while the current step
// is incomplete.
func (s *Session) Next() error {
	if s.pos == len(s.steps)-1 {
		return ErrLastStep
	}
	if err := validation.CheckStep(s.form, s.steps[s.pos].ID, s.values); err != nil {
		return err
	}
	s.pos++
	return nil
}

// Previous steps back unconditionally. On the first step it is a no-op.
func (s *Session) Previous() {
	if s.pos > 0 {
		s.pos--
	}
}

// Submit validates every step of the snapshot in order and produces the
// final response. The session's values stay untouched on failure, so the
// respondent can correct and retry.
func (s *Session) Submit() (model.Response, error) {
	if err := validation.CheckForm(s.form, s.values); err != nil {
		return model.Response{}, err
	}
	return model.Response{
		FormID:     s.form.ID,
		Data:       s.Values(),
		IsComplete: true,
	}, nil
}
