package records

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind identifies the shape a loosely-typed source field arrived in.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindList
)

// Value is a source field that may be missing, a scalar, or a list of strings.
// Collectors emit whatever JSON-LD, CSV, or parquet handed them, so every
// external field is modelled as a Value and normalized later.
type Value struct {
	kind Kind
	str  string
	num  float64
	list []string
}

// Absent returns the missing value.
func Absent() Value { return Value{} }

// String wraps a scalar string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric scalar.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// List wraps a list of strings.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// OptionalString wraps p, treating nil as absent.
func OptionalString(p *string) Value {
	if p == nil {
		return Absent()
	}
	return String(*p)
}

// OptionalNumber wraps p, treating nil as absent.
func OptionalNumber(p *float64) Value {
	if p == nil {
		return Absent()
	}
	return Number(*p)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Text returns the scalar textual form of v. Lists and absent values report false.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Float returns the number held by a numeric Value.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Items returns the elements of a list Value, or nil for any other shape.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// UnmarshalJSON accepts null, strings, numbers, booleans and arrays of scalars.
// Objects decode to absent rather than failing the whole record.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Absent()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, elem := range raw {
			var item Value
			if err := item.UnmarshalJSON(elem); err != nil {
				return err
			}
			if s, ok := item.Text(); ok {
				items = append(items, s)
			}
		}
		*v = List(items...)
	case '{':
		*v = Absent()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = String(strconv.FormatBool(b))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*v = Number(f)
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}
