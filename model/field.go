package model

import (
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldDate     FieldType = "date"
	FieldPhone    FieldType = "phone"
	FieldFile     FieldType = "file"
	FieldRange    FieldType = "range"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldTextarea, FieldSelect, FieldCheckbox,
		FieldRadio, FieldDate, FieldPhone, FieldFile, FieldRange:
		return true
	}
	return false
}

// HasOptions reports whether fields of this type carry an option list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldCheckbox || t == FieldRadio
}

// TextLike reports whether min/max length rules apply to this type.
func (t FieldType) TextLike() bool {
	return t == FieldText || t == FieldEmail || t == FieldPhone || t == FieldTextarea
}

// Validation pattern tags. PatternCustom matches against the separately
// stored CustomPattern string.
const (
	PatternEmail  = "email"
	PatternPhone  = "phone"
	PatternURL    = "url"
	PatternCustom = "custom"
)

type Validation struct {
	MinLength     *int   `json:"minLength,omitempty"`
	MaxLength     *int   `json:"maxLength,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	CustomPattern string `json:"customPattern,omitempty"`
}

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Field struct {
	ID          string      `json:"id"`
	Type        FieldType   `json:"type"`
	Label       string      `json:"label"`
	Placeholder string      `json:"placeholder,omitempty"`
	HelpText    string      `json:"helpText,omitempty"`
	Required    bool        `json:"required"`
	Validation  *Validation `json:"validation,omitempty"`
	Options     []Option    `json:"options,omitempty"`
	StepID      int         `json:"stepId"`
	Order       int         `json:"order"`
	CSSClass    string      `json:"cssClass,omitempty"`
	Hidden      bool        `json:"hidden,omitempty"`
	Readonly    bool        `json:"readonly,omitempty"`
}

type Step struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

// NewFieldID produces a fresh opaque field identifier. Ids are never reused.
func NewFieldID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Clone returns a deep copy, option list and validation rules included.
func (f Field) Clone() Field {
	c := f
	if f.Validation != nil {
		v := *f.Validation
		if f.Validation.MinLength != nil {
			n := *f.Validation.MinLength
			v.MinLength = &n
		}
		if f.Validation.MaxLength != nil {
			n := *f.Validation.MaxLength
			v.MaxLength = &n
		}
		c.Validation = &v
	}
	if f.Options != nil {
		c.Options = make([]Option, len(f.Options))
		copy(c.Options, f.Options)
	}
	return c
}

var reSpaces = regexp.MustCompile(`\s+`)

// OptionValue derives an option value from its label: lowercased, with runs
// of whitespace replaced by a single underscore. Collisions between option
// values are not checked here.
func OptionValue(label string) string {
	return reSpaces.ReplaceAllLiteralString(strings.ToLower(label), "_")
}
