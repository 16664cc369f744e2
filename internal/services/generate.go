package services

import (
	"context"
	"fmt"

	"github.com/danpasecinic/kiln"
)

type Result struct {
	File        File
	Issues      []Issue
	Compliance  *ComplianceReport
	Suggestions []string
}

// Generate runs one generation request in its own scope. Compliance and
// assistant output are included when those services are registered.
func Generate(ctx context.Context, c *kiln.Container, kind, name string) (Result, error) {
	token, ok := GeneratorToken(kind)
	if !ok {
		return Result{}, fmt.Errorf("unknown kind %q", kind)
	}

	var res Result
	err := c.WithScope(ctx, func(scope string) error {
		gen, err := kiln.Resolve(ctx, c, token, kiln.InScope(scope))
		if err != nil {
			return err
		}

		if res.File, err = gen.Generate(ctx, name); err != nil {
			return err
		}

		validator, err := kiln.Resolve(ctx, c, CodeValidatorToken)
		if err != nil {
			return err
		}
		res.Issues = validator.Validate(res.File)

		if checker, ok := kiln.TryResolve(ctx, c, ComplianceCheckerToken); ok {
			report := checker.Check(res.File)
			res.Compliance = &report
		}
		if assistant, ok := kiln.TryResolve(ctx, c, AssistantToken); ok {
			res.Suggestions = assistant.Suggest(res.File)
		}
		return nil
	})
	return res, err
}
