package lifetime

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Singleton Kind = iota
	Transient
	Scoped
)

func (k Kind) String() string {
	switch k {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}

// Parse accepts the lowercase names returned by String. An empty string is
// treated as Singleton.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "singleton":
		return Singleton, nil
	case "transient":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	default:
		return Singleton, fmt.Errorf("unknown lifetime %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func All() []Kind {
	return []Kind{Singleton, Transient, Scoped}
}
