package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/danpasecinic/kiln/events"
)

const (
	KindComponent = "component"
	KindPage      = "page"
	KindAPI       = "api"
	KindReport    = "report"
)

func Kinds() []string {
	return []string{KindComponent, KindPage, KindAPI, KindReport}
}

// Names become both the file name and the exported JavaScript identifier.
var validName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var kindDirs = map[string]string{
	KindComponent: "src/components",
	KindPage:      "src/pages",
	KindAPI:       "src/api",
	KindReport:    "src/reports",
}

type File struct {
	Kind    string
	Path    string
	Content string
}

// Generator produces one kind of source file. It receives the container's
// emitter and reporter when they are attached.
type Generator struct {
	kind      string
	templates *TemplateService

	emitter  events.Emitter
	reporter events.ProgressReporter
}

func NewGenerator(kind string, templates *TemplateService) *Generator {
	return &Generator{kind: kind, templates: templates}
}

func (g *Generator) SetEventEmitter(emitter events.Emitter) {
	g.emitter = emitter
}

func (g *Generator) SetProgressReporter(reporter events.ProgressReporter) {
	g.reporter = reporter
}

func (g *Generator) Kind() string {
	return g.kind
}

func (g *Generator) Generate(_ context.Context, name string) (File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return File{}, fmt.Errorf("%s name must not be empty", g.kind)
	}
	if !validName.MatchString(name) {
		return File{}, fmt.Errorf("invalid %s name %q: must be a JavaScript identifier", g.kind, name)
	}

	g.progress(1, "rendering "+name)
	content, err := g.templates.Render(g.kind, name)
	if err != nil {
		return File{}, err
	}

	g.progress(2, "rendered "+name)
	return File{
		Kind:    g.kind,
		Path:    path.Join(kindDirs[g.kind], name+".js"),
		Content: content,
	}, nil
}

func (g *Generator) progress(step int, msg string) {
	if g.reporter == nil {
		return
	}
	g.reporter.Report(events.Progress{
		Operation: "generate",
		ServiceID: GeneratorID(g.kind),
		Current:   step,
		Total:     2,
		Message:   msg,
	})
}
