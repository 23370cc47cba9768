package workspace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
)

type ValueKind uint8

const (
	KindBlank ValueKind = iota
	KindString
	KindDouble
	KindInteger
	KindReference
)

func (k ValueKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindString:
		return "string"
	case KindDouble:
		return "double"
	case KindInteger:
		return "integer"
	case KindReference:
		return "reference"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is one field slot. The zero Value is blank.
type Value struct {
	kind ValueKind
	s    string
	d    float64
	i    int
	h    handle.Handle
}

const autosize = "Autosize"

func Blank() Value                   { return Value{} }
func StringValue(s string) Value     { return Value{kind: KindString, s: s} }
func DoubleValue(d float64) Value    { return Value{kind: KindDouble, d: d} }
func IntValue(i int) Value           { return Value{kind: KindInteger, i: i} }
func RefValue(h handle.Handle) Value { return Value{kind: KindReference, h: h} }
func AutosizeValue() Value           { return StringValue(autosize) }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsBlank() bool   { return v.kind == KindBlank }

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.d, true
	case KindInteger:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) AsInt() (int, bool) {
	return v.i, v.kind == KindInteger
}

func (v Value) AsHandle() (handle.Handle, bool) {
	return v.h, v.kind == KindReference
}

func (v Value) IsAutosize() bool {
	return v.kind == KindString && strings.EqualFold(v.s, autosize)
}

// Text is the IDF text form. References render as handles.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case KindInteger:
		return strconv.Itoa(v.i)
	case KindReference:
		return v.h.String()
	}
	return ""
}

// ParseValue converts IDF text into a value for a scalar field. Reference
// fields cannot be parsed from text since names resolve through a model.
func ParseValue(f idd.Field, text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Blank(), nil
	}
	switch f.Type {
	case idd.FieldString, idd.FieldChoice:
		return StringValue(text), nil
	case idd.FieldDouble:
		if f.Autosizable && strings.EqualFold(text, autosize) {
			return AutosizeValue(), nil
		}
		d, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Blank(), fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, text)
		}
		return DoubleValue(d), nil
	case idd.FieldInteger:
		i, err := strconv.Atoi(text)
		if err != nil {
			return Blank(), fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, text)
		}
		return IntValue(i), nil
	}
	return Blank(), fmt.Errorf("%w: cannot parse text into a %s field", ErrTypeMismatch, f.Type)
}

// check validates v against f and returns the value to store. Choices are
// stored with their canonical spelling.
func check(f idd.Field, v Value) (Value, error) {
	if v.IsBlank() {
		if f.Required && f.Type != idd.FieldReference {
			return v, ErrRequiredField
		}
		return v, nil
	}
	switch f.Type {
	case idd.FieldString:
		if v.kind != KindString {
			return v, fmt.Errorf("%w: want string, got %s", ErrTypeMismatch, v.kind)
		}
		if err := checkText(v.s); err != nil {
			return v, err
		}
	case idd.FieldChoice:
		if v.kind != KindString {
			return v, fmt.Errorf("%w: want choice, got %s", ErrTypeMismatch, v.kind)
		}
		if err := checkText(v.s); err != nil {
			return v, err
		}
		for _, c := range f.Choices {
			if strings.EqualFold(c, v.s) {
				return StringValue(c), nil
			}
		}
		return v, fmt.Errorf("%w: %q is not one of %v", ErrOutOfRange, v.s, f.Choices)
	case idd.FieldDouble:
		if v.IsAutosize() {
			if !f.Autosizable {
				return v, fmt.Errorf("%w: field is not autosizable", ErrTypeMismatch)
			}
			return AutosizeValue(), nil
		}
		d, ok := v.AsDouble()
		if !ok {
			return v, fmt.Errorf("%w: want double, got %s", ErrTypeMismatch, v.kind)
		}
		if err := checkRange(f, d); err != nil {
			return v, err
		}
		return DoubleValue(d), nil
	case idd.FieldInteger:
		if v.kind != KindInteger {
			return v, fmt.Errorf("%w: want integer, got %s", ErrTypeMismatch, v.kind)
		}
		if err := checkRange(f, float64(v.i)); err != nil {
			return v, err
		}
	case idd.FieldReference:
		if v.kind != KindReference {
			return v, fmt.Errorf("%w: want reference, got %s", ErrTypeMismatch, v.kind)
		}
	}
	return v, nil
}

// checkText rejects text the IDF writer could not emit as a single field.
func checkText(s string) error {
	if !idf.ValidField(s) {
		return fmt.Errorf("%w: %q cannot be written as an IDF field (no %q, line breaks or edge spaces)", ErrTypeMismatch, s, idf.Reserved)
	}
	return nil
}

func checkRange(f idd.Field, d float64) error {
	if f.Min != nil {
		if d < *f.Min || (f.MinExcl && d == *f.Min) {
			return fmt.Errorf("%w: %g below minimum %g", ErrOutOfRange, d, *f.Min)
		}
	}
	if f.Max != nil && d > *f.Max {
		return fmt.Errorf("%w: %g above maximum %g", ErrOutOfRange, d, *f.Max)
	}
	return nil
}
