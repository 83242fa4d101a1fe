package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"skinanalyze/internal/models"
)

// Messages maps a field name, or "field.tag" for one rule of it, to the text
// shown when that field fails validation.
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("role", validRole); err != nil {
		panic(err)
	}
	return v
}

// fieldName reports a field under its form tag, falling back to the JSON name.
func fieldName(f reflect.StructField) string {
	if name := f.Tag.Get("form"); name != "" {
		return name
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validRole(fl validator.FieldLevel) bool {
	r, ok := fl.Field().Interface().(models.Role)
	return ok && r.Valid()
}

// Check validates the validate tags of the struct v and collects one message
// per failing field. The first failing rule of a field wins.
func Check(v any, msgs Messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fe := FieldErrors{}
	for _, e := range ves {
		fe.Add(e.Field(), msgs.lookup(e))
	}
	return fe.Err()
}

func (m Messages) lookup(e validator.FieldError) string {
	if msg, ok := m[e.Field()+"."+e.Tag()]; ok {
		return msg
	}
	if msg, ok := m[e.Field()]; ok {
		return msg
	}
	if e.Tag() == "required" {
		return "required"
	}
	return "invalid value"
}
