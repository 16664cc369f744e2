package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/danpasecinic/kiln"
	"github.com/danpasecinic/kiln/internal/config"
	"github.com/danpasecinic/kiln/internal/services"
)

const usage = `usage: kiln <command> [flags]

commands:
  services [-category c] [-tag t]   list registered services
  stats                             registration statistics
  health                            initialize and health-check every service
  graph [-dot]                      print the dependency graph
  generate [-o dir] <kind> <name>   generate a source file (kinds: %s)
  serve [-addr addr]                run the introspection server
`

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprintf(stderr, usage, strings.Join(services.Kinds(), ", "))
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "kiln: %v\n", err)
		return 1
	}
	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "kiln: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "kiln: %v\n", err)
		return 1
	}
	defer a.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "services":
		err = a.listServices(rest, stdout)
	case "stats":
		err = a.stats(stdout)
	case "health":
		err = a.health(ctx, stdout)
	case "graph":
		err = a.graph(rest, stdout)
	case "generate":
		err = a.generate(ctx, rest, stdout)
	case "serve":
		err = a.serve(ctx, rest)
	default:
		_, _ = fmt.Fprintf(stderr, "kiln: unknown command %q\n", cmd)
		_, _ = fmt.Fprintf(stderr, usage, strings.Join(services.Kinds(), ", "))
		return 2
	}

	switch {
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		_, _ = fmt.Fprintf(stderr, usage, strings.Join(services.Kinds(), ", "))
		return 2
	case err != nil:
		_, _ = fmt.Fprintf(stderr, "kiln: %s: %v\n", cmd, err)
		return 1
	}
	return 0
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) listServices(args []string, w io.Writer) error {
	fs := newFlagSet("services")
	category := fs.String("category", "", "only services in this category")
	tag := fs.String("tag", "", "only services with this tag")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := a.container
	ids := c.RegisteredServices()
	switch {
	case *category != "":
		ids = c.ServicesByCategory(*category)
	case *tag != "":
		ids = c.ServicesByTag(*tag)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Lifetime", "Category", "Dependencies"})
	for _, id := range ids {
		info, ok := c.Registration(id)
		if !ok {
			continue
		}
		deps := strings.Join(info.Dependencies, ", ")
		if deps == "" {
			deps = "-"
		}
		t.AppendRow(table.Row{id, info.Lifetime, info.Metadata.Category, deps})
	}
	t.AppendFooter(table.Row{"", "", "total", len(ids)})
	t.Render()
	return nil
}

func (a *app) stats(w io.Writer) error {
	s := a.container.Statistics()

	t := newTable(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"services", s.Total})
	for _, l := range []kiln.Lifetime{kiln.Singleton, kiln.Transient, kiln.Scoped} {
		t.AppendRow(table.Row{"  " + l.String(), s.ByLifetime[l]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"singletons constructed", s.Singletons})
	t.AppendRow(table.Row{"live scopes", s.Scopes})
	t.Render()
	return nil
}

// health exits non-zero only for services that can be resolved outside a
// scope.
func (a *app) health(ctx context.Context, w io.Writer) error {
	c := a.container
	if err := c.InitializeAll(ctx); err != nil {
		return err
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Service", "Status", "Latency"})

	var down []string
	for _, r := range c.Health(ctx) {
		info, _ := c.Registration(r.ID)
		status := string(r.Status)
		if info.Lifetime == kiln.Scoped {
			status += " (scoped)"
		} else if !r.Healthy() {
			down = append(down, r.ID)
		}
		t.AppendRow(table.Row{r.ID, status, r.Latency.Round(time.Microsecond)})
	}
	t.Render()

	if len(down) > 0 {
		return fmt.Errorf("unhealthy: %s", strings.Join(down, ", "))
	}
	return nil
}

func (a *app) graph(args []string, w io.Writer) error {
	fs := newFlagSet("graph")
	dot := fs.Bool("dot", false, "Graphviz DOT output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dot {
		a.container.FprintGraphDOT(w)
	} else {
		a.container.FprintGraph(w)
	}
	return nil
}

func (a *app) generate(ctx context.Context, args []string, w io.Writer) error {
	fs := newFlagSet("generate")
	out := fs.String("o", "", "write the file below this directory instead of printing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}

	if err := a.container.InitializeAll(ctx); err != nil {
		return err
	}

	res, err := services.Generate(ctx, a.container, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	if *out == "" {
		_, _ = fmt.Fprintf(w, "# %s\n%s", res.File.Path, res.File.Content)
	} else {
		target := filepath.Join(*out, filepath.FromSlash(res.File.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(res.File.Content), 0o644); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "wrote %s\n", target)
	}

	for _, issue := range res.Issues {
		_, _ = fmt.Fprintf(w, "issue: %s\n", issue)
	}
	if res.Compliance != nil {
		for _, f := range res.Compliance.Findings {
			_, _ = fmt.Fprintf(w, "compliance: %s\n", f)
		}
	}
	for _, s := range res.Suggestions {
		_, _ = fmt.Fprintf(w, "suggestion: %s\n", s)
	}
	return nil
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("addr", a.cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.addServer(*addr); err != nil {
		return err
	}
	return a.container.Run(ctx)
}
