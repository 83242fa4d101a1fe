package forms

import (
	"strings"

	"skinanalyze/internal/models"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

var (
	LocationOptions = []Option{
		{"face", "Face"}, {"neck", "Neck"}, {"chest", "Chest"}, {"back", "Back"},
		{"arms", "Arms"}, {"hands", "Hands"}, {"legs", "Legs"}, {"feet", "Feet"},
		{"scalp", "Scalp"}, {"other", "Other"},
	}
	DurationOptions = []Option{
		{"days", "Days"}, {"weeks", "Weeks"}, {"months", "Months"}, {"years", "Years"},
	}
	SeverityOptions = []Option{
		{"mild", "Mild"}, {"moderate", "Moderate"}, {"severe", "Severe"},
	}
	ItchinessOptions = []Option{
		{"no", "Not itchy"}, {"mild", "Mildly itchy"}, {"moderate", "Moderately itchy"}, {"severe", "Severely itchy"},
	}
	PainOptions = []Option{
		{"no", "No pain"}, {"mild", "Mild pain"}, {"moderate", "Moderate pain"}, {"severe", "Severe pain"},
	}
)

const (
	MsgSelectLocation   = "Please select a location"
	MsgSelectDuration   = "Please select a duration"
	MsgSelectSeverity   = "Please select a severity level"
	MsgSelectOption     = "Please select an option"
	MsgShortDescription = "Please provide a detailed description (at least 10 characters)"
)

var symptomMessages = Messages{
	"location":    MsgSelectLocation,
	"duration":    MsgSelectDuration,
	"severity":    MsgSelectSeverity,
	"itchiness":   MsgSelectOption,
	"pain":        MsgSelectOption,
	"description": MsgShortDescription,
}

// OptionValues lists the accepted values, e.g. for usage text.
func OptionValues(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// SymptomsForm accepts only the values listed in the *Options tables.
type SymptomsForm struct {
	Location          string `form:"location" validate:"oneof=face neck chest back arms hands legs feet scalp other"`
	Duration          string `form:"duration" validate:"oneof=days weeks months years"`
	Severity          string `form:"severity" validate:"oneof=mild moderate severe"`
	Itchiness         string `form:"itchiness" validate:"oneof=no mild moderate severe"`
	Pain              string `form:"pain" validate:"oneof=no mild moderate severe"`
	Description       string `form:"description" validate:"min=10"`
	PreviousTreatment string `form:"previousTreatment"`
}

func (f *SymptomsForm) Validate() error {
	return Check(f, symptomMessages)
}

func (f *SymptomsForm) Reset() { *f = SymptomsForm{} }

func (f *SymptomsForm) Submission() models.SymptomSubmission {
	return models.SymptomSubmission{
		Location:          f.Location,
		Duration:          f.Duration,
		Severity:          f.Severity,
		Itchiness:         f.Itchiness,
		Pain:              f.Pain,
		Description:       f.Description,
		PreviousTreatment: strings.TrimSpace(f.PreviousTreatment),
	}
}
