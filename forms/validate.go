package forms

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mbolis/quick-forms/model"
)

const dateLayout = "2006-01-02"

const (
	msgRequired      = "required"
	msgNotText       = "must be text"
	msgNotNumber     = "must be a number"
	msgNotDate       = "must be a date (YYYY-MM-DD)"
	msgNotEmail      = "must be a valid email address"
	msgNotTel        = "must be a valid phone number"
	msgInvalidOption = "not a valid option"
	msgNotList       = "must be a list of options"
)

var reTel = regexp.MustCompile(`^\+?[0-9 ()./-]{3,}$`)

const minTelDigits = 3

// Validate checks payload against the fields of form, in declaration
// order, and returns every violation found. Keys in payload that the form
// does not declare are ignored. A nil result means the payload is accepted.
func Validate(form model.Form, payload model.Payload) model.FieldErrors {
	errs := model.FieldErrors{}

	for _, f := range form.Fields {
		v, ok := payload[f.Name]
		if !ok || v.Empty() {
			if f.Required {
				errs[f.Name] = msgRequired
			}
			continue
		}

		if msg := validateValue(f, v); msg != "" {
			errs[f.Name] = msg
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateValue(f model.Field, v model.Value) string {
	switch f.Type {
	case model.FieldText, model.FieldTextarea:
		if v.Kind != model.KindString {
			return msgNotText
		}

	case model.FieldEmail:
		if v.Kind != model.KindString {
			return msgNotText
		}
		if validate.Var(strings.TrimSpace(v.Str), "email") != nil {
			return msgNotEmail
		}

	case model.FieldTel:
		if v.Kind != model.KindString {
			return msgNotText
		}
		if !validTel(strings.TrimSpace(v.Str)) {
			return msgNotTel
		}

	case model.FieldNumber:
		switch v.Kind {
		case model.KindNumber:
		case model.KindString:
			if !validNumber(strings.TrimSpace(v.Str)) {
				return msgNotNumber
			}
		default:
			return msgNotNumber
		}

	case model.FieldDate:
		if v.Kind != model.KindString {
			return msgNotDate
		}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(v.Str)); err != nil {
			return msgNotDate
		}

	case model.FieldSelect, model.FieldRadio:
		if v.Kind != model.KindString {
			return msgInvalidOption
		}
		if _, ok := f.Option(v.Str); !ok {
			return msgInvalidOption
		}

	case model.FieldCheckbox:
		if v.Kind != model.KindList {
			return msgNotList
		}
		for _, s := range v.List {
			if _, ok := f.Option(s); !ok {
				return msgInvalidOption
			}
		}
	}
	return ""
}

// validNumber accepts plain decimal notation only: no NaN, infinities,
// hex floats or digit separators.
func validNumber(s string) bool {
	if validate.Var(s, "number") != nil {
		return false
	}
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(n, 0) && !math.IsNaN(n)
}

func validTel(s string) bool {
	if !reTel.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minTelDigits
}
