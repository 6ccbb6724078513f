package model

// Template is a reusable form layout. Field ids are assigned when the
// template is loaded, so two forms built from the same template never share
// ids.
type Template struct {
	Title       string
	Description string
	Fields      []Field
	Steps       []Step
	Settings    Settings
}

// LoadTemplate replaces title, description, fields, steps and settings
// wholesale while preserving the form's persisted identity (internal id,
// public id and timestamps).
func (f *Form) LoadTemplate(t Template) {
	f.Title = t.Title
	f.Description = t.Description

	f.Steps = make([]Step, len(t.Steps))
	copy(f.Steps, t.Steps)

	f.Fields = make([]Field, len(t.Fields))
	for i, fld := range t.Fields {
		c := fld.Clone()
		c.ID = NewFieldID()
		f.Fields[i] = c
	}

	f.Settings = t.Settings
}

func intp(n int) *int { return &n }

// Templates holds the built-in form templates, keyed by template name.
var Templates = map[string]Template{
	"contact": {
		Title:       "Contact Us",
		Description: "Get in touch with our team",
		Steps: []Step{
			{ID: 1, Title: "Your Message", Order: 1},
		},
		Fields: []Field{
			{Type: FieldText, Label: "Name", Placeholder: "Your full name", Required: true, StepID: 1, Order: 1},
			{Type: FieldEmail, Label: "Email", Placeholder: "you@example.com", Required: true, StepID: 1, Order: 2,
				Validation: &Validation{Pattern: PatternEmail}},
			{Type: FieldTextarea, Label: "Message", Placeholder: "How can we help?", Required: true, StepID: 1, Order: 3,
				Validation: &Validation{MinLength: intp(10)}},
		},
		Settings: Settings{AllowAnonymous: true, EmailNotifications: true},
	},
	"feedback": {
		Title:       "Customer Feedback",
		Description: "Tell us how we did",
		Steps: []Step{
			{ID: 1, Title: "Rating", Order: 1},
			{ID: 2, Title: "Comments", Order: 2},
		},
		Fields: []Field{
			{Type: FieldRadio, Label: "How satisfied are you?", Required: true, StepID: 1, Order: 1,
				Options: []Option{
					{Label: "Very satisfied", Value: "very_satisfied"},
					{Label: "Satisfied", Value: "satisfied"},
					{Label: "Neutral", Value: "neutral"},
					{Label: "Dissatisfied", Value: "dissatisfied"},
				}},
			{Type: FieldCheckbox, Label: "What did you like?", StepID: 1, Order: 2,
				Options: []Option{
					{Label: "Ease of use", Value: "ease_of_use"},
					{Label: "Support", Value: "support"},
					{Label: "Pricing", Value: "pricing"},
				}},
			{Type: FieldTextarea, Label: "Anything else?", HelpText: "Optional, but appreciated", StepID: 2, Order: 1},
		},
		Settings: Settings{AllowAnonymous: true, EmailNotifications: true},
	},
	"registration": {
		Title:       "Event Registration",
		Description: "Sign up for the upcoming event",
		Steps: []Step{
			{ID: 1, Title: "Attendee", Order: 1},
			{ID: 2, Title: "Preferences", Order: 2},
		},
		Fields: []Field{
			{Type: FieldText, Label: "Full name", Required: true, StepID: 1, Order: 1,
				Validation: &Validation{MinLength: intp(2), MaxLength: intp(100)}},
			{Type: FieldEmail, Label: "Email", Required: true, StepID: 1, Order: 2,
				Validation: &Validation{Pattern: PatternEmail}},
			{Type: FieldPhone, Label: "Phone", StepID: 1, Order: 3,
				Validation: &Validation{Pattern: PatternPhone}},
			{Type: FieldSelect, Label: "Session", Required: true, StepID: 2, Order: 1,
				Options: []Option{
					{Label: "Morning", Value: "morning"},
					{Label: "Afternoon", Value: "afternoon"},
				}},
			{Type: FieldCheckbox, Label: "Dietary requirements", StepID: 2, Order: 2,
				Options: []Option{
					{Label: "Vegetarian", Value: "vegetarian"},
					{Label: "Vegan", Value: "vegan"},
					{Label: "Gluten free", Value: "gluten_free"},
				}},
			{Type: FieldDate, Label: "Arrival date", StepID: 2, Order: 3},
		},
		Settings: Settings{AllowAnonymous: true, RequireAuth: false, EmailNotifications: true},
	},
}
