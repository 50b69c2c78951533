package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is one submitted field value. Exactly one of the payload members
// is meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	List []string
}

// Payload maps field names to submitted values.
type Payload map[string]Value

func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func List(l ...string) Value { return Value{Kind: KindList, List: l} }

// Empty reports whether the value counts as "not provided" for a required field.
func (v Value) Empty() bool {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	case KindList:
		return len(v.List) == 0
	case KindBool:
		return !v.Bool
	case KindNumber:
		return false
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case 'n':
		*v = Value{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '[':
		var l []string
		if err := json.Unmarshal(data, &l); err != nil {
			return errors.New("list values must contain only strings")
		}
		if l == nil {
			l = []string{}
		}
		*v = List(l...)
		return nil
	case '{':
		return errors.New("object values are not supported")
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return errors.Wrap(err, "invalid number")
		}
		*v = Number(n)
		return nil
	}
}
