package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

var builtinTemplates = map[string]string{
	KindComponent: "// generated by kiln\nexport function {{.Name}}() {\n  return null;\n}\n",
	KindPage:      "// generated by kiln\nexport default function {{.Name}}Page() {\n  return null;\n}\n",
	KindAPI:       "// generated by kiln\nexport async function handle{{.Name}}(req, res) {\n  res.status(501).end();\n}\n",
	KindReport:    "// generated by kiln\nexport const {{.Name}}Report = {\n  sections: [],\n};\n",
}

// TemplateService renders source files from the built-in template set.
// Templates are parsed by Initialize and dropped by Dispose.
type TemplateService struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

func (s *TemplateService) Initialize(_ context.Context) error {
	parsed := make(map[string]*template.Template, len(builtinTemplates))
	for kind, text := range builtinTemplates {
		t, err := template.New(kind).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", kind, err)
		}
		parsed[kind] = t
	}

	s.mu.Lock()
	s.templates = parsed
	s.mu.Unlock()
	return nil
}

func (s *TemplateService) Dispose(_ context.Context) error {
	s.mu.Lock()
	s.templates = nil
	s.mu.Unlock()
	return nil
}

func (s *TemplateService) HealthCheck(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.templates) > 0
}

func (s *TemplateService) Render(kind, name string) (string, error) {
	s.mu.RLock()
	t, ok := s.templates[kind]
	s.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("no template for kind %q", kind)
	}

	var b strings.Builder
	if err := t.Execute(&b, struct{ Name string }{Name: name}); err != nil {
		return "", err
	}
	return b.String(), nil
}
