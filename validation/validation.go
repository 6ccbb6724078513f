// Package validation decides whether submitted values satisfy a form's field
// definitions, and whether a step is complete.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/formforge/formforge/model"
)

type Reason string

const (
	RequiredFieldMissing Reason = "required_field_missing"
	LengthOutOfRange     Reason = "length_out_of_range"
	PatternMismatch      Reason = "pattern_mismatch"
)

// FieldError is a single field's validation failure.
type FieldError struct {
	FieldID string
	Label   string
	Reason  Reason
}

func (e *FieldError) Error() string {
	label := e.Label
	if label == "" {
		label = e.FieldID
	}
	switch e.Reason {
	case RequiredFieldMissing:
		return fmt.Sprintf("%s is required", label)
	case LengthOutOfRange:
		return fmt.Sprintf("%s length is out of range", label)
	case PatternMismatch:
		return fmt.Sprintf("%s does not match the expected format", label)
	}
	return fmt.Sprintf("%s is invalid", label)
}

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rePhone = regexp.MustCompile(`^\+?[\d\s().-]{7,}$`)
	reURL   = regexp.MustCompile(`^https?://\S+$`)
)

// CheckField decides pass/fail for one field against a candidate value.
// Empty optional values always pass; length rules only apply to text-like
// types; pattern tags resolve to fixed formats, with "custom" compiling the
// field's stored custom pattern.
func CheckField(f model.Field, value any) error {
	if isEmpty(value) {
		if f.Required {
			return &FieldError{FieldID: f.ID, Label: f.Label, Reason: RequiredFieldMissing}
		}
		return nil
	}
	if f.Validation == nil {
		return nil
	}

	v := f.Validation
	s := stringValue(value)

	if f.Type.TextLike() {
		n := len(s)
		if v.MinLength != nil && n < *v.MinLength {
			return &FieldError{FieldID: f.ID, Label: f.Label, Reason: LengthOutOfRange}
		}
		if v.MaxLength != nil && n > *v.MaxLength {
			return &FieldError{FieldID: f.ID, Label: f.Label, Reason: LengthOutOfRange}
		}
	}

	if re := patternFor(v); re != nil && !re.MatchString(s) {
		return &FieldError{FieldID: f.ID, Label: f.Label, Reason: PatternMismatch}
	}
	return nil
}

func patternFor(v *model.Validation) *regexp.Regexp {
	switch v.Pattern {
	case model.PatternEmail:
		return reEmail
	case model.PatternPhone:
		return rePhone
	case model.PatternURL:
		return reURL
	case model.PatternCustom:
		if v.CustomPattern == "" {
			return nil
		}
		// An uncompilable custom pattern is a builder mistake; it must not
		// lock respondents out, so it is treated as no rule.
		re, err := regexp.Compile(v.CustomPattern)
		if err != nil {
			return nil
		}
		return re
	}
	return nil
}

// isEmpty mirrors the filler's truthiness rules: nil, blank strings, empty
// lists, false and zero all count as missing. Checkbox groups count as
// present only when at least one option is selected.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case bool:
		return !v
	case int:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// CheckStep aggregates the failures of every field in a step.
func CheckStep(form model.Form, stepID int, values map[string]any) error {
	var errs *multierror.Error
	for _, f := range form.StepFields(stepID) {
		if err := CheckField(f, values[f.ID]); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// StepComplete reports whether every field in the step passes its check
// against the currently held values.
func StepComplete(form model.Form, stepID int, values map[string]any) bool {
	return CheckStep(form, stepID, values) == nil
}

// CheckForm validates every step in order, as done on final submission.
func CheckForm(form model.Form, values map[string]any) error {
	for _, s := range form.OrderedSteps() {
		if err := CheckStep(form, s.ID, values); err != nil {
			return err
		}
	}
	return nil
}
