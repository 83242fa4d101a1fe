package forms

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinanalyze/internal/models"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	return fe
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())
	fe.Add("password", "short")
	fe.Add("email", "bad")
	fe.Add("email", "ignored")
	assert.Equal(t, []string{"email", "password"}, fe.Fields())
	assert.Equal(t, "email: bad; password: short", fe.Error())
}

func TestLoginForm(t *testing.T) {
	f := NewLoginForm()
	assert.Equal(t, models.RolePatient, f.Role)

	f.Email, f.Password = "not-an-email", "123"
	fe := fieldErrors(t, f.Validate())
	assert.Equal(t, MsgInvalidEmail, fe["email"])
	assert.Equal(t, MsgPasswordTooShort, fe["password"])

	f.Email, f.Password, f.Role = "a@b.com", "secret", models.RoleDoctor
	require.NoError(t, f.Validate())
	assert.Equal(t, models.LoginRequest{Email: "a@b.com", Password: "secret", Role: models.RoleDoctor}, f.Request())

	f.Role = models.Role(0)
	assert.Contains(t, fieldErrors(t, f.Validate()), "role")

	f.Reset()
	assert.Equal(t, *NewLoginForm(), *f)
}

func TestRegisterForm(t *testing.T) {
	f := &RegisterForm{Name: "A", Email: "ann@x.io", Password: "secret", ConfirmPassword: "secreT", Role: models.RolePatient}
	fe := fieldErrors(t, f.Validate())
	assert.Equal(t, MsgNameTooShort, fe["name"])
	assert.Equal(t, MsgPasswordMismatch, fe["confirmPassword"])
	assert.NotContains(t, fe, "password")

	f.Name, f.ConfirmPassword = "Ann", "secret"
	require.NoError(t, f.Validate())
	req := f.Request()
	assert.Equal(t, "Ann", req.Name)
	assert.Equal(t, models.RolePatient, req.Role)
}

func validSymptoms() *SymptomsForm {
	return &SymptomsForm{
		Location:    "face",
		Duration:    "weeks",
		Severity:    "moderate",
		Itchiness:   "mild",
		Pain:        "no",
		Description: "Red patches on both cheeks",
	}
}

func TestSymptomsForm(t *testing.T) {
	f := &SymptomsForm{Description: "too short"}
	fe := fieldErrors(t, f.Validate())
	assert.Equal(t, MsgSelectLocation, fe["location"])
	assert.Equal(t, MsgSelectDuration, fe["duration"])
	assert.Equal(t, MsgSelectSeverity, fe["severity"])
	assert.Equal(t, MsgSelectOption, fe["itchiness"])
	assert.Equal(t, MsgSelectOption, fe["pain"])
	assert.Equal(t, "Please provide a detailed description (at least 10 characters)", fe["description"])
	assert.NotContains(t, fe, "previousTreatment")

	f = validSymptoms()
	require.NoError(t, f.Validate())

	f.Location = "elbow"
	assert.Contains(t, fieldErrors(t, f.Validate()), "location")

	f = validSymptoms()
	f.PreviousTreatment = "  hydrocortisone  "
	assert.Equal(t, "hydrocortisone", f.Submission().PreviousTreatment)
	assert.Equal(t, []string{"days", "weeks", "months", "years"}, OptionValues(DurationOptions))
}

func TestValidateImage(t *testing.T) {
	const limit = 10 << 20
	cases := []struct {
		name, file, ct string
		size           int64
		want           string
	}{
		{"ok jpeg", "a.jpg", "image/jpeg", 1024, ""},
		{"just under", "a.png", "image/png", limit - 1, ""},
		{"exactly limit", "a.png", "image/png", limit, "Image size should be less than 10MB."},
		{"over", "a.png", "image/png", limit + 1, "Image size should be less than 10MB."},
		{"pdf", "a.pdf", "application/pdf", 10, MsgNotAnImage},
		{"missing", "", "", 0, MsgNoImage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.file, tc.ct, tc.size, limit)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.want, fieldErrors(t, err)["image"])
		})
	}
}

func TestUploadForm(t *testing.T) {
	f := &UploadForm{Filename: "a.jpg", ContentType: "image/jpeg", Size: 3, MaxBytes: 1 << 20}
	assert.Error(t, f.Validate(), "no body")

	f.Body = strings.NewReader("abc")
	f.Description = " cheek "
	require.NoError(t, f.Validate())
	assert.Equal(t, "cheek", f.Payload().Description)

	f.Reset()
	assert.Equal(t, UploadForm{MaxBytes: 1 << 20}, *f)
}

func TestContactForm(t *testing.T) {
	f := &ContactForm{Email: "nope"}
	fe := fieldErrors(t, f.Validate())
	assert.Equal(t, MsgRequired, fe["name"])
	assert.Equal(t, MsgContactEmail, fe["email"])
	assert.Equal(t, MsgRequired, fe["message"])

	f = &ContactForm{Name: "Ann", Email: "ann@x.io", Message: "hello"}
	assert.NoError(t, f.Validate())
}

func TestSubmissionRejectedNeverSends(t *testing.T) {
	var sent int32
	f := &SymptomsForm{}
	var path []State
	s := NewSubmission(f, func(ctx context.Context) error {
		atomic.AddInt32(&sent, 1)
		return nil
	})
	s.OnTransition = func(from, to State) { path = append(path, to) }
	s.OnSuccess = func() { t.Error("OnSuccess must not fire") }

	err := s.Submit(context.Background())
	fieldErrors(t, err)
	assert.EqualValues(t, 0, atomic.LoadInt32(&sent))
	assert.Equal(t, []State{StateValidating, StateRejected, StateEditing}, path)
	assert.Equal(t, StateRejected, s.Outcome())
	assert.Equal(t, StateEditing, s.State())
}

func TestSubmissionSuccessResetsAndFires(t *testing.T) {
	f := validSymptoms()
	var got models.SymptomSubmission
	var path []State
	fired := false
	s := NewSubmission(f, func(ctx context.Context) error {
		got = f.Submission()
		return nil
	})
	s.OnTransition = func(from, to State) { path = append(path, to) }
	s.OnSuccess = func() {
		fired = true
		assert.Equal(t, SymptomsForm{}, *f, "fields reset before callback")
	}

	require.NoError(t, s.Submit(context.Background()))
	assert.True(t, fired)
	assert.Equal(t, "face", got.Location)
	assert.Equal(t, []State{StateValidating, StateSubmitting, StateSucceeded, StateEditing}, path)
	assert.Equal(t, StateSucceeded, s.Outcome())
	assert.NoError(t, s.Err())
}

func TestSubmissionFailureKeepsInput(t *testing.T) {
	f := validSymptoms()
	boom := errors.New("server down")
	s := NewSubmission(f, func(ctx context.Context) error { return boom })

	err := s.Submit(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, s.Outcome())
	assert.Equal(t, StateEditing, s.State())
	assert.ErrorIs(t, s.Err(), boom)
	assert.Equal(t, "face", f.Location, "input survives a failed attempt")

	s.send = func(ctx context.Context) error { return nil }
	require.NoError(t, s.Submit(context.Background()))
	assert.NoError(t, s.Err())
}

func TestSubmissionBusy(t *testing.T) {
	f := validSymptoms()
	entered := make(chan struct{})
	release := make(chan struct{})
	s := NewSubmission(f, func(ctx context.Context) error {
		close(entered)
		<-release
		return nil
	})
	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()
	<-entered
	assert.Equal(t, StateSubmitting, s.State())
	assert.ErrorIs(t, s.Submit(context.Background()), ErrBusy)
	close(release)
	assert.NoError(t, <-done)
}

func TestSymptomOptionsMatchValidation(t *testing.T) {
	tables := map[string][]Option{
		"location":  LocationOptions,
		"duration":  DurationOptions,
		"severity":  SeverityOptions,
		"itchiness": ItchinessOptions,
		"pain":      PainOptions,
	}
	for field, opts := range tables {
		for _, o := range opts {
			f := validSymptoms()
			switch field {
			case "location":
				f.Location = o.Value
			case "duration":
				f.Duration = o.Value
			case "severity":
				f.Severity = o.Value
			case "itchiness":
				f.Itchiness = o.Value
			case "pain":
				f.Pain = o.Value
			}
			assert.NoError(t, f.Validate(), "%s=%s", field, o.Value)
		}
	}
}

func TestRegisterFormTrimsBeforeChecking(t *testing.T) {
	f := &RegisterForm{Name: "  A  ", Email: "  ann@x.io ", Password: "secret", ConfirmPassword: "secret", Role: models.RolePatient}
	fe := fieldErrors(t, f.Validate())
	assert.Equal(t, FieldErrors{"name": MsgNameTooShort}, fe)

	f.Email = "ann@localhost"
	f.Name = "Ann"
	assert.Equal(t, FieldErrors{"email": MsgInvalidEmail}, fieldErrors(t, f.Validate()))
}

func TestContactEmailMessages(t *testing.T) {
	f := &ContactForm{Name: "Ann", Email: "   ", Message: "hi"}
	assert.Equal(t, MsgRequired, fieldErrors(t, f.Validate())["email"])
	f.Email = "ann@"
	assert.Equal(t, MsgContactEmail, fieldErrors(t, f.Validate())["email"])
}

func TestCheckFallbackMessages(t *testing.T) {
	in := struct {
		Code string `json:"code" validate:"required"`
		Kind string `form:"kind" validate:"oneof=a b"`
	}{Kind: "c"}
	fe := fieldErrors(t, Check(&in, nil))
	assert.Equal(t, FieldErrors{"code": "required", "kind": "invalid value"}, fe)
}
