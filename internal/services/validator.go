package services

import (
	"context"
	"fmt"
	"strings"
)

type Issue struct {
	Line    int
	Message string
}

func (i Issue) String() string {
	if i.Line == 0 {
		return i.Message
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// CodeValidator runs structural checks on generated files.
type CodeValidator struct{}

func NewCodeValidator() *CodeValidator {
	return &CodeValidator{}
}

func (v *CodeValidator) HealthCheck(context.Context) bool {
	return true
}

func (v *CodeValidator) Validate(f File) []Issue {
	var issues []Issue

	if strings.TrimSpace(f.Content) == "" {
		return []Issue{{Message: "file is empty"}}
	}

	depth := 0
	for i, line := range strings.Split(f.Content, "\n") {
		for _, r := range line {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				if depth < 0 {
					issues = append(issues, Issue{Line: i + 1, Message: "unexpected closing brace"})
					depth = 0
				}
			}
		}
	}
	if depth > 0 {
		issues = append(issues, Issue{Message: fmt.Sprintf("%d unclosed brace(s)", depth)})
	}

	return issues
}
