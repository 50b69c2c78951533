package model

import "time"

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea" // multiline text
	FieldSelect   FieldType = "select"   // single select
	FieldRadio    FieldType = "radio"    // single choice
	FieldCheckbox FieldType = "checkbox" // multi choice
)

var FieldTypes = []FieldType{
	FieldText, FieldEmail, FieldTel, FieldNumber, FieldDate,
	FieldTextarea, FieldSelect, FieldRadio, FieldCheckbox,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this type take their values from an option list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

type Form struct {
	Key         string    `json:"formKey" validate:"formkey"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Fields      []Field   `json:"fields" validate:"required,min=1,unique=Name,dive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Field struct {
	Name        string    `json:"name" validate:"fieldname"`
	Label       string    `json:"label" validate:"required"`
	Type        FieldType `json:"type" validate:"fieldtype"`
	Required    bool      `json:"required"`
	Placeholder *string   `json:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty" validate:"omitempty,unique=Value,dive"`
}

// Option returns the option with the given value, if declared.
func (f Field) Option(value string) (Option, bool) {
	for _, o := range f.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

type Option struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}

type Submission struct {
	ID          int64     `json:"id"`
	FormKey     string    `json:"formKey"`
	Data        Payload   `json:"data"`
	SubmittedAt time.Time `json:"submittedAt"`
	SubmittedBy string    `json:"submittedBy"`
}

type Item struct {
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
