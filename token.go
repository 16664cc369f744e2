package kiln

import "github.com/danpasecinic/kiln/internal/reflect"

// Identifier is anything that names a registration.
type Identifier interface {
	ID() string
}

// Token is a typed service identifier. The type parameter ties the
// identifier to the type its factory produces, so typed resolution can
// check the instance it gets back.
type Token[T any] struct {
	id string
}

func NewToken[T any](id string) Token[T] {
	return Token[T]{id: id}
}

// TypeToken derives the identifier from T itself, e.g. "*pkg.Service".
func TypeToken[T any]() Token[T] {
	return Token[T]{id: reflect.TypeKey[T]()}
}

func (t Token[T]) ID() string {
	return t.id
}

func (t Token[T]) String() string {
	return t.id
}

func ids(deps []Identifier) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.ID()
	}
	return out
}
