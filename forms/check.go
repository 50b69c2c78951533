package forms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mbolis/quick-forms/model"
)

var (
	reFormKey   = regexp.MustCompile(`^[a-z0-9-]+$`)
	reFieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("formkey", func(fl validator.FieldLevel) bool {
		return reFormKey.MatchString(fl.Field().String())
	})
	v.RegisterValidation("fieldname", func(fl validator.FieldLevel) bool {
		return reFieldName.MatchString(fl.Field().String())
	})
	v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		return model.FieldType(fl.Field().String()).Valid()
	})
	return v
}

// reservedKeys collide with static routes under /api/forms.
var reservedKeys = map[string]bool{"all": true}

// ValidKey reports whether key is usable as a form key.
func ValidKey(key string) bool {
	return reFormKey.MatchString(key) && !reservedKeys[key]
}

// Check verifies the structure of a form definition before it is written
// to the catalogue. All problems are reported at once.
func Check(form model.Form) error {
	errs := model.FieldErrors{}

	err := validate.Struct(form)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errs[fieldPath(fe.Namespace())] = checkMessage(fe)
		}
	} else if err != nil {
		return err
	}

	if reservedKeys[form.Key] {
		errs["key"] = fmt.Sprintf("%q is a reserved key", form.Key)
	}

	for i, f := range form.Fields {
		path := fmt.Sprintf("fields[%d].options", i)
		switch {
		case f.Type.HasOptions() && len(f.Options) == 0:
			errs[path] = "at least one option is required"
		case !f.Type.HasOptions() && len(f.Options) > 0:
			errs[path] = fmt.Sprintf("options are not allowed for type %q", f.Type)
		}
	}

	if len(errs) > 0 {
		return &model.ValidationError{Message: "invalid form definition", Errors: errs}
	}
	return nil
}

// fieldPath turns "Form.Fields[0].Options[1].Value" into "fields[0].options[1].value".
func fieldPath(ns string) string {
	_, path, found := strings.Cut(ns, ".")
	if !found {
		path = ns
	}
	return strings.ToLower(path)
}

func checkMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "at least one field is required"
	case "formkey":
		return "must contain only lowercase letters, numbers, and hyphens"
	case "fieldname":
		return "must start with a letter and contain only alphanumeric characters"
	case "fieldtype":
		return "invalid field type"
	case "unique":
		if fe.Param() == "Value" {
			return "option values must be unique"
		}
		return "field names must be unique"
	default:
		return "invalid value"
	}
}
