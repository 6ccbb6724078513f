package model

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrStepNotFound  = errors.New("step not found")
)

type Settings struct {
	AllowAnonymous     bool   `json:"allowAnonymous"`
	RequireAuth        bool   `json:"requireAuth"`
	EmailNotifications bool   `json:"emailNotifications"`
	RedirectURL        string `json:"redirectUrl,omitempty"`
	SubmitMessage      string `json:"submitMessage,omitempty"`
}

// Form is the aggregate root: an ordered collection of steps and fields plus
// form-level settings. ID and PublicID are zero until first persisted.
type Form struct {
	ID          int       `json:"id,omitempty"`
	PublicID    string    `json:"publicId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Fields      []Field   `json:"fields"`
	Steps       []Step    `json:"steps"`
	Settings    Settings  `json:"settings"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewForm returns an unsaved form with the mandatory first step.
func NewForm() Form {
	return Form{
		Title:  "Untitled Form",
		Fields: []Field{},
		Steps:  []Step{{ID: 1, Title: "Step 1", Order: 1}},
		Settings: Settings{
			AllowAnonymous:     true,
			EmailNotifications: true,
		},
	}
}

func (f *Form) HasStep(id int) bool {
	for _, s := range f.Steps {
		if s.ID == id {
			return true
		}
	}
	return false
}

// OrderedSteps returns the steps sorted by order, ties kept in insertion
// order.
func (f *Form) OrderedSteps() []Step {
	steps := make([]Step, len(f.Steps))
	copy(steps, f.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps
}

// StepFields returns the fields of one step sorted by order, ties kept in
// insertion order.
func (f *Form) StepFields(stepID int) []Field {
	var fields []Field
	for _, fld := range f.Fields {
		if fld.StepID == stepID {
			fields = append(fields, fld)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	return fields
}

func (f *Form) fieldIndex(id string) int {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// FieldByID returns a copy of the field, if present.
func (f *Form) FieldByID(id string) (Field, bool) {
	i := f.fieldIndex(id)
	if i < 0 {
		return Field{}, false
	}
	return f.Fields[i].Clone(), true
}

// AddField appends a new field of the given type to the end of the target
// step. Option-bearing types are seeded with two default options.
func (f *Form) AddField(t FieldType, stepID int) (Field, error) {
	if !t.Valid() {
		return Field{}, fmt.Errorf("invalid field type %q", t)
	}
	if !f.HasStep(stepID) {
		return Field{}, ErrStepNotFound
	}

	order := 0
	for _, fld := range f.Fields {
		if fld.StepID == stepID && fld.Order > order {
			order = fld.Order
		}
	}

	field := Field{
		ID:     NewFieldID(),
		Type:   t,
		Label:  fmt.Sprintf("New %s field", t),
		StepID: stepID,
		Order:  order + 1,
	}
	if t.HasOptions() {
		field.Options = []Option{
			{Label: "Option 1", Value: "option1"},
			{Label: "Option 2", Value: "option2"},
		}
	}

	f.Fields = append(f.Fields, field)
	return field.Clone(), nil
}

// FieldPatch is a partial field update; nil members leave the field as-is.
type FieldPatch struct {
	Type        *FieldType  `json:"type,omitempty"`
	Label       *string     `json:"label,omitempty"`
	Placeholder *string     `json:"placeholder,omitempty"`
	HelpText    *string     `json:"helpText,omitempty"`
	Required    *bool       `json:"required,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
	Options     *[]Option   `json:"options,omitempty"`
	StepID      *int        `json:"stepId,omitempty"`
	Order       *int        `json:"order,omitempty"`
	CSSClass    *string     `json:"cssClass,omitempty"`
	Hidden      *bool       `json:"hidden,omitempty"`
	Readonly    *bool       `json:"readonly,omitempty"`
}

// UpdateField merges the patch into an existing field. Changing the type
// away from an option-bearing one leaves any options in place.
func (f *Form) UpdateField(id string, patch FieldPatch) (Field, error) {
	i := f.fieldIndex(id)
	if i < 0 {
		return Field{}, ErrFieldNotFound
	}

	fld := &f.Fields[i]
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return Field{}, fmt.Errorf("invalid field type %q", *patch.Type)
		}
		fld.Type = *patch.Type
	}
	if patch.Label != nil {
		fld.Label = *patch.Label
	}
	if patch.Placeholder != nil {
		fld.Placeholder = *patch.Placeholder
	}
	if patch.HelpText != nil {
		fld.HelpText = *patch.HelpText
	}
	if patch.Required != nil {
		fld.Required = *patch.Required
	}
	if patch.Validation != nil {
		v := *patch.Validation
		fld.Validation = &v
	}
	if patch.Options != nil {
		opts := make([]Option, len(*patch.Options))
		copy(opts, *patch.Options)
		fld.Options = opts
	}
	if patch.StepID != nil {
		if !f.HasStep(*patch.StepID) {
			return Field{}, ErrStepNotFound
		}
		fld.StepID = *patch.StepID
	}
	if patch.Order != nil {
		fld.Order = *patch.Order
	}
	if patch.CSSClass != nil {
		fld.CSSClass = *patch.CSSClass
	}
	if patch.Hidden != nil {
		fld.Hidden = *patch.Hidden
	}
	if patch.Readonly != nil {
		fld.Readonly = *patch.Readonly
	}
	return fld.Clone(), nil
}

// RemoveField deletes a field. Removing an unknown id is a no-op.
func (f *Form) RemoveField(id string) {
	i := f.fieldIndex(id)
	if i < 0 {
		return
	}
	f.Fields = append(f.Fields[:i], f.Fields[i+1:]...)
}

// DuplicateField clones a field under a fresh id with "(Copy)" appended to
// the label, placing the copy right after the original. Every other field in
// the step with a greater order is shifted up by one, so step orders stay
// strictly distinct.
func (f *Form) DuplicateField(id string) (Field, error) {
	i := f.fieldIndex(id)
	if i < 0 {
		return Field{}, ErrFieldNotFound
	}
	orig := f.Fields[i]

	for j := range f.Fields {
		if f.Fields[j].StepID == orig.StepID && f.Fields[j].Order > orig.Order {
			f.Fields[j].Order++
		}
	}

	dup := orig.Clone()
	dup.ID = NewFieldID()
	dup.Label = orig.Label + " (Copy)"
	dup.Order = orig.Order + 1
	f.Fields = append(f.Fields, dup)
	return dup.Clone(), nil
}

// AddStep appends a step with the next available id.
func (f *Form) AddStep() Step {
	maxID := 0
	for _, s := range f.Steps {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	step := Step{
		ID:    maxID + 1,
		Title: fmt.Sprintf("Step %d", maxID+1),
		Order: len(f.Steps) + 1,
	}
	f.Steps = append(f.Steps, step)
	return step
}

// ReorderFields swaps the order values of the fields at positions from and
// to within a step, positions taken over the step's fields sorted by order.
// Only those two fields change. Out-of-range positions are ignored.
func (f *Form) ReorderFields(stepID, from, to int) {
	sorted := f.StepFields(stepID)
	if from < 0 || from >= len(sorted) || to < 0 || to >= len(sorted) {
		return
	}
	a, b := sorted[from], sorted[to]
	for i := range f.Fields {
		switch f.Fields[i].ID {
		case a.ID:
			f.Fields[i].Order = b.Order
		case b.ID:
			f.Fields[i].Order = a.Order
		}
	}
}

// AddOption appends a numbered default option to a field's option list.
func (f *Form) AddOption(fieldID string) error {
	i := f.fieldIndex(fieldID)
	if i < 0 {
		return ErrFieldNotFound
	}
	n := len(f.Fields[i].Options) + 1
	f.Fields[i].Options = append(f.Fields[i].Options, Option{
		Label: fmt.Sprintf("Option %d", n),
		Value: fmt.Sprintf("option%d", n),
	})
	return nil
}

// UpdateOption relabels an option; its value is re-derived from the label.
func (f *Form) UpdateOption(fieldID string, index int, label string) error {
	i := f.fieldIndex(fieldID)
	if i < 0 {
		return ErrFieldNotFound
	}
	opts := f.Fields[i].Options
	if index < 0 || index >= len(opts) {
		return fmt.Errorf("option index %d out of range", index)
	}
	opts[index] = Option{Label: label, Value: OptionValue(label)}
	return nil
}

func (f *Form) RemoveOption(fieldID string, index int) error {
	i := f.fieldIndex(fieldID)
	if i < 0 {
		return ErrFieldNotFound
	}
	opts := f.Fields[i].Options
	if index < 0 || index >= len(opts) {
		return fmt.Errorf("option index %d out of range", index)
	}
	f.Fields[i].Options = append(opts[:index], opts[index+1:]...)
	return nil
}

// Clone returns a deep copy of the whole aggregate.
func (f Form) Clone() Form {
	c := f
	c.Fields = make([]Field, len(f.Fields))
	for i, fld := range f.Fields {
		c.Fields[i] = fld.Clone()
	}
	c.Steps = make([]Step, len(f.Steps))
	copy(c.Steps, f.Steps)
	return c
}

// Validate checks the aggregate's structural invariants: a title, at least
// one step, unique step ids, unique field ids, resolvable step references
// and valid field types. Option value collisions are deliberately not
// rejected here; the builder can produce them via label slugging.
func (f *Form) Validate() error {
	var errs *multierror.Error

	if f.Title == "" {
		errs = multierror.Append(errs, errors.New("title is required"))
	}
	if len(f.Steps) == 0 {
		errs = multierror.Append(errs, errors.New("a form needs at least one step"))
	}

	stepIDs := make(map[int]bool, len(f.Steps))
	for _, s := range f.Steps {
		if s.ID < 1 {
			errs = multierror.Append(errs, fmt.Errorf("invalid step id %d", s.ID))
			continue
		}
		if stepIDs[s.ID] {
			errs = multierror.Append(errs, fmt.Errorf("duplicate step id %d", s.ID))
		}
		stepIDs[s.ID] = true
	}

	fieldIDs := make(map[string]bool, len(f.Fields))
	for _, fld := range f.Fields {
		if fld.ID == "" {
			errs = multierror.Append(errs, errors.New("field without id"))
			continue
		}
		if fieldIDs[fld.ID] {
			errs = multierror.Append(errs, fmt.Errorf("duplicate field id %q", fld.ID))
		}
		fieldIDs[fld.ID] = true

		if !fld.Type.Valid() {
			errs = multierror.Append(errs, fmt.Errorf("field %q: invalid type %q", fld.ID, fld.Type))
		}
		if !stepIDs[fld.StepID] {
			errs = multierror.Append(errs, fmt.Errorf("field %q: unknown step %d", fld.ID, fld.StepID))
		}
	}

	return errs.ErrorOrNil()
}
