package jsonq

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON     = errors.New("cannot parse input as JSON")
	ErrKeyNotFound     = errors.New("key does not exist")
	ErrTypeMismatch    = errors.New("unexpected type")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrWrongMode       = errors.New("operation invalid for current item")

	errUninitialized = errors.New("navigator is not initialized")
)

// Mode mirrors the kind of the value in focus. [Failed] is sticky and overrides the others.
type Mode int

const (
	Failed Mode = iota
	Object
	Array
	Primitive
	Null
)

func (m Mode) String() string {
	switch m {
	case Object:
		return "object"
	case Array:
		return "array"
	case Primitive:
		return "primitive"
	case Null:
		return "null"
	default:
		return "error"
	}
}

// Navigator is an immutable cursor over a parsed JSON document.
//
// The zero value is a failed navigator.
type Navigator struct {
	current gjson.Result
	mode    Mode
	err     error
}

// Parse parses raw and returns a navigator focused on the root.
//
// Invalid JSON yields a failed navigator wrapping [ErrInvalidJSON].
func Parse(raw string) Navigator {
	if !gjson.Valid(raw) {
		return fail(ErrInvalidJSON)
	}
	root := gjson.Parse(raw)
	return Navigator{current: root, mode: modeOf(root)}
}

// ParseBytes is [Parse] for a byte slice.
func ParseBytes(raw []byte) Navigator {
	return Parse(string(raw))
}

// Object moves into the object stored at key. Valid only in [Object] mode.
func (n Navigator) Object(key string) Navigator {
	return n.intoKey(key, Object)
}

// Array moves into the array stored at key. Valid only in [Object] mode.
func (n Navigator) Array(key string) Navigator {
	return n.intoKey(key, Array)
}

// Field moves onto the string, number or boolean stored at key. Valid only in [Object] mode.
func (n Navigator) Field(key string) Navigator {
	return n.intoKey(key, Primitive)
}

// ObjectAt moves into the object at index i. Valid only in [Array] mode.
func (n Navigator) ObjectAt(i int) Navigator {
	return n.intoIndex(i, Object)
}

// PrimitiveAt moves onto the primitive at index i. Valid only in [Array] mode.
func (n Navigator) PrimitiveAt(i int) Navigator {
	return n.intoIndex(i, Primitive)
}

func (n Navigator) intoKey(key string, want Mode) Navigator {
	switch n.mode {
	case Failed:
		return n
	case Object:
	default:
		return fail(fmt.Errorf("%w: cannot read key %q, current item is %s, not an object", ErrWrongMode, key, article(n.mode)))
	}

	value, ok := lookup(n.current, key)
	if !ok {
		return fail(fmt.Errorf("%w: key %q", ErrKeyNotFound, key))
	}
	if got := modeOf(value); got != want {
		return fail(fmt.Errorf("%w: key %q is %s, not %s", ErrTypeMismatch, key, article(got), article(want)))
	}
	return Navigator{current: value, mode: want}
}

func (n Navigator) intoIndex(i int, want Mode) Navigator {
	switch n.mode {
	case Failed:
		return n
	case Array:
	default:
		return fail(fmt.Errorf("%w: cannot read index %d, current item is %s, not an array", ErrWrongMode, i, article(n.mode)))
	}

	elements := n.current.Array()
	if i < 0 || i >= len(elements) {
		return fail(fmt.Errorf("%w: index %d, array has size %d", ErrIndexOutOfRange, i, len(elements)))
	}
	value := elements[i]
	if got := modeOf(value); got != want {
		return fail(fmt.Errorf("%w: element at index %d is %s, not %s", ErrTypeMismatch, i, article(got), article(want)))
	}
	return Navigator{current: value, mode: want}
}

// OK reports whether every step so far succeeded.
func (n Navigator) OK() bool { return n.mode != Failed }

// IsObject reports whether the cursor is on an object.
func (n Navigator) IsObject() bool { return n.mode == Object }

// IsArray reports whether the cursor is on an array.
func (n Navigator) IsArray() bool { return n.mode == Array }

// IsPrimitive reports whether the cursor is on a string, number or boolean.
func (n Navigator) IsPrimitive() bool { return n.mode == Primitive }

// IsNull reports whether the cursor is on a JSON null.
func (n Navigator) IsNull() bool { return n.mode == Null }

// Mode returns the current mode.
func (n Navigator) Mode() Mode { return n.mode }

// Value returns the value in focus. It is the zero [gjson.Result] when the navigator failed at parse time.
func (n Navigator) Value() gjson.Result { return n.current }

// Err returns the first error, or nil.
func (n Navigator) Err() error {
	if n.mode != Failed {
		return nil
	}
	if n.err == nil {
		return errUninitialized
	}
	return n.err
}

// ErrorMessage returns the first error's message, or "" when the navigator is ok.
func (n Navigator) ErrorMessage() string {
	if err := n.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// AsString returns the value in focus when it is a JSON string.
func (n Navigator) AsString() (string, bool) {
	if n.mode != Primitive || n.current.Type != gjson.String {
		return "", false
	}
	return n.current.Str, true
}

func fail(err error) Navigator {
	return Navigator{mode: Failed, err: err}
}

func modeOf(r gjson.Result) Mode {
	switch {
	case r.IsObject():
		return Object
	case r.IsArray():
		return Array
	case r.Type == gjson.Null:
		return Null
	default:
		return Primitive
	}
}

// lookup finds key among obj's members without interpreting it as a gjson path. The last duplicate wins.
func lookup(obj gjson.Result, key string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}

func article(m Mode) string {
	switch m {
	case Object, Array:
		return "an " + m.String()
	case Failed:
		return "in error"
	default:
		return "a " + m.String()
	}
}
