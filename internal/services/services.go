// Package services holds the scaffolding collaborators the CLI wires into
// its container.
package services

import (
	"context"
	"fmt"

	"github.com/danpasecinic/kiln"
)

const (
	TemplateServiceID   = "templateService"
	CodeValidatorID     = "codeValidator"
	ComplianceCheckerID = "complianceChecker"
	AssistantID         = "aiAssistant"
)

func GeneratorID(kind string) string {
	return kind + "Generator"
}

var (
	TemplateServiceToken   = kiln.NewToken[*TemplateService](TemplateServiceID)
	CodeValidatorToken     = kiln.NewToken[*CodeValidator](CodeValidatorID)
	ComplianceCheckerToken = kiln.NewToken[*ComplianceChecker](ComplianceCheckerID)
	AssistantToken         = kiln.NewToken[*Assistant](AssistantID)
)

var generatorTokens = func() map[string]kiln.Token[*Generator] {
	tokens := make(map[string]kiln.Token[*Generator], len(Kinds()))
	for _, kind := range Kinds() {
		tokens[kind] = kiln.NewToken[*Generator](GeneratorID(kind))
	}
	return tokens
}()

func GeneratorToken(kind string) (kiln.Token[*Generator], bool) {
	t, ok := generatorTokens[kind]
	return t, ok
}

// Selection decides which services get registered and how. The YAML
// manifest implements it.
type Selection interface {
	Enabled(id string) bool
	Lifetime(id string, fallback kiln.Lifetime) kiln.Lifetime
	Tags(id string) []string
}

type all struct{}

func (all) Enabled(string) bool { return true }
func (all) Lifetime(_ string, fallback kiln.Lifetime) kiln.Lifetime { return fallback }
func (all) Tags(string) []string { return nil }

// All selects every service with its default lifetime.
var All Selection = all{}

// Module returns the registrations for every selected service.
func Module(sel Selection) *kiln.Module {
	m := kiln.NewModule("services")

	add := func(id string, fallback kiln.Lifetime, register func(opts ...kiln.RegisterOption)) {
		if !sel.Enabled(id) {
			return
		}
		opts := []kiln.RegisterOption{kiln.WithLifetime(sel.Lifetime(id, fallback)), kiln.WithVersion("1.0.0")}
		if tags := sel.Tags(id); len(tags) > 0 {
			opts = append(opts, kiln.WithTags(tags...))
		}
		register(opts...)
	}

	add(TemplateServiceID, kiln.Singleton, func(opts ...kiln.RegisterOption) {
		kiln.ModuleRegister(m, TemplateServiceToken,
			func(context.Context, kiln.Dependencies) (*TemplateService, error) {
				return NewTemplateService(), nil
			},
			append(opts, kiln.WithCategory("templates"), kiln.WithDescription("renders source files from templates"))...,
		)
	})

	for _, kind := range Kinds() {
		add(GeneratorID(kind), kiln.Scoped, func(opts ...kiln.RegisterOption) {
			kiln.ModuleRegister(m, generatorTokens[kind],
				func(_ context.Context, deps kiln.Dependencies) (*Generator, error) {
					templates, err := kiln.Dep(deps, TemplateServiceToken)
					if err != nil {
						return nil, err
					}
					return NewGenerator(kind, templates), nil
				},
				append(opts,
					kiln.DependsOn(TemplateServiceToken),
					kiln.WithCategory("generator"),
					kiln.WithDescription(fmt.Sprintf("generates %s source files", kind)),
				)...,
			)
		})
	}

	add(CodeValidatorID, kiln.Transient, func(opts ...kiln.RegisterOption) {
		kiln.ModuleRegister(m, CodeValidatorToken,
			func(context.Context, kiln.Dependencies) (*CodeValidator, error) {
				return NewCodeValidator(), nil
			},
			append(opts, kiln.WithCategory("validator"), kiln.WithDescription("structural checks on generated code"))...,
		)
	})

	add(ComplianceCheckerID, kiln.Singleton, func(opts ...kiln.RegisterOption) {
		kiln.ModuleRegister(m, ComplianceCheckerToken,
			func(context.Context, kiln.Dependencies) (*ComplianceChecker, error) {
				return &ComplianceChecker{}, nil
			},
			append(opts,
				kiln.DependsOn(CodeValidatorToken),
				kiln.WithCategory("validator"),
				kiln.WithDescription("attaches compliance findings to generated files"),
			)...,
		)
	})

	add(AssistantID, kiln.Singleton, func(opts ...kiln.RegisterOption) {
		kiln.ModuleRegister(m, AssistantToken,
			func(context.Context, kiln.Dependencies) (*Assistant, error) {
				return NewAssistant(), nil
			},
			append(opts, kiln.WithCategory("assistant"), kiln.WithDescription("suggests follow-ups for generated files"))...,
		)
	})

	return m
}
