package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-blockgen"
	"github.com/goliatone/go-blockgen/pkg/generator"
	"github.com/goliatone/go-blockgen/pkg/output"
	"github.com/goliatone/go-blockgen/pkg/render"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

var errUsage = errors.New("usage: blockgen <output-dir>")

type app struct {
	getenv     func(string) string
	stdout     io.Writer
	stderr     io.Writer
	prompt     prompter
	isTerminal func() bool
	logger     *slog.Logger
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	a := &app{
		getenv:     os.Getenv,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		prompt:     surveyPrompter{},
		isTerminal: stdinIsTerminal,
		logger:     logger,
	}
	if err := a.run(context.Background(), os.Args[1:]); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("blockgen", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: blockgen <output-dir>\n\nRenders the block factory template against the block schema.\n")
		fmt.Fprintf(flags.Output(), "\nEnvironment:\n  %s\tschema path or URL\n  %s\ttemplate path\n  %s\tfail on render errors\n  %s\tURL schema timeout\n  %s\tstdout or dir\n",
			envSchema, envTemplate, envStrict, envHTTPTimeout, envOutput)
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	dir, err := a.outputDir(ctx, flags.Args())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(a.getenv)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	src, loaderOpts, err := schemaSource(cfg)
	if err != nil {
		return err
	}
	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return err
	}

	policy := generator.ReportAndContinue
	if cfg.Strict {
		policy = generator.FailOnRenderError
	}

	a.logger.Info("generating", "output_dir", dir, "schema", src.Location(), "template", tmpl.Name, "policy", policy)

	gen := blockgen.NewGenerator(
		generator.WithLoader(blockgen.NewLoader(loaderOpts...)),
		generator.WithDiagnostics(a.stderr),
		generator.WithRenderErrorPolicy(policy),
	)
	result, err := gen.Generate(ctx, generator.Request{Source: src, Template: tmpl})
	if err != nil {
		return err
	}
	if result.RenderErr != nil {
		a.logger.Warn("render failed, emitting partial output", "template", tmpl.Name, "error", result.RenderErr)
	}

	emitter, err := a.emitter(cfg, dir)
	if err != nil {
		return err
	}
	return emitter.Emit(ctx, artifactName(tmpl.Name), result.Text)
}

func (a *app) outputDir(ctx context.Context, args []string) (string, error) {
	var raw string
	switch {
	case len(args) == 1:
		raw = args[0]
	case len(args) == 0 && a.prompt != nil && a.isTerminal != nil && a.isTerminal():
		answer, err := a.prompt.OutputDir(ctx)
		if err != nil {
			return "", fmt.Errorf("prompt output dir: %w", err)
		}
		raw = answer
	default:
		return "", errUsage
	}

	if strings.TrimSpace(raw) == "" {
		return "", errUsage
	}
	dir, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	return dir, nil
}

func (a *app) emitter(cfg config, dir string) (output.Emitter, error) {
	if cfg.Output == outputDir {
		return output.NewDirectory(dir)
	}
	return output.NewStream(a.stdout), nil
}

func schemaSource(cfg config) (schema.Source, []schema.LoaderOption, error) {
	switch {
	case cfg.Schema == "":
		return blockgen.DefaultSchemaSource(), []schema.LoaderOption{schema.WithFileSystem(blockgen.EmbeddedSchemas())}, nil
	case schema.IsURL(cfg.Schema):
		src, err := schema.ParseURLSource(cfg.Schema)
		if err != nil {
			return nil, nil, err
		}
		return src, []schema.LoaderOption{schema.WithHTTPFallback(cfg.HTTPTimeout)}, nil
	default:
		return schema.SourceFromFile(cfg.Schema), nil, nil
	}
}

func loadTemplate(cfg config) (*render.Template, error) {
	if cfg.Template == "" {
		return blockgen.DefaultTemplate()
	}
	return render.LoadTemplateFile(cfg.Template)
}

// artifactName drops the template extension: factory.cpp.tmpl → factory.cpp.
func artifactName(templateName string) string {
	base := filepath.Base(templateName)
	if ext := filepath.Ext(base); ext == ".tmpl" {
		return strings.TrimSuffix(base, ext)
	}
	return base
}
