package jsonq

import (
	"fmt"
	"strings"
)

// Step is one traversal operation. A failed navigator passes through every Step unchanged.
type Step struct {
	name  string
	apply func(Navigator) Navigator
}

// Key steps into the object at key.
func Key(key string) Step {
	return Step{name: fmt.Sprintf("{%s}", key), apply: func(n Navigator) Navigator { return n.Object(key) }}
}

// ArrayKey steps into the array at key.
func ArrayKey(key string) Step {
	return Step{name: fmt.Sprintf("%s[]", key), apply: func(n Navigator) Navigator { return n.Array(key) }}
}

// FieldKey steps onto the primitive at key.
func FieldKey(key string) Step {
	return Step{name: key, apply: func(n Navigator) Navigator { return n.Field(key) }}
}

// Index steps into the object at array index i.
func Index(i int) Step {
	return Step{name: fmt.Sprintf("[%d]{}", i), apply: func(n Navigator) Navigator { return n.ObjectAt(i) }}
}

// PrimitiveIndex steps onto the primitive at array index i.
func PrimitiveIndex(i int) Step {
	return Step{name: fmt.Sprintf("[%d]", i), apply: func(n Navigator) Navigator { return n.PrimitiveAt(i) }}
}

func (s Step) String() string { return s.name }

// Walk folds steps over n, left to right.
func (n Navigator) Walk(steps ...Step) Navigator {
	for _, s := range steps {
		if n.mode == Failed {
			return n
		}
		n = s.apply(n)
	}
	return n
}

// Path renders steps for log output, e.g. "{tracks}.items[].[0]{}.preview_url".
func Path(steps ...Step) string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return strings.Join(names, ".")
}
