// Package lookup runs the editor-facing pipeline: find module names in the
// selection, line or document, let the user pick one, resolve it and open it.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pkgsrc/internal/config"
	pkgerrors "pkgsrc/internal/errors"
	"pkgsrc/internal/extract"
	"pkgsrc/internal/history"
	"pkgsrc/internal/manifest"
	"pkgsrc/internal/paths"
	"pkgsrc/internal/resolver"
	"pkgsrc/internal/slogutil"
)

// Kind is the type of document the input was taken from.
type Kind string

const (
	KindSource   Kind = "source"
	KindManifest Kind = "manifest"
)

// KindForPath returns KindManifest for package.json files, KindSource
// otherwise.
func KindForPath(path string) Kind {
	if paths.IsManifestFile(path) {
		return KindManifest
	}
	return KindSource
}

// Input is what the editor hands over. Empty fields are skipped while
// widening.
type Input struct {
	Selection string
	Line      string
	Document  string
	Kind      Kind
	Path      string // used to pick a grammar for AST extraction
}

// Choice is one entry shown by a Picker.
type Choice struct {
	Label       string
	Description string
}

// Picker asks the user to choose among candidates. ok is false when the user
// dismissed the prompt.
type Picker interface {
	Pick(ctx context.Context, choices []Choice) (label string, ok bool, err error)
}

// Opener displays a resolved URL.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Recorder stores opened resolutions.
type Recorder interface {
	Record(ctx context.Context, res resolver.Resolution) (*history.Entry, error)
}

// Resolver maps a module name to a repository.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*resolver.Resolution, error)
}

// Outcome is the result of Open. Cancelled outcomes carry no Resolution.
type Outcome struct {
	Candidates []string             `json:"candidates" yaml:"candidates" toml:"candidates"`
	Resolution *resolver.Resolution `json:"resolution,omitempty" yaml:"resolution,omitempty" toml:"resolution,omitempty"`
	Opened     bool                 `json:"opened" yaml:"opened" toml:"opened"`
	Cancelled  bool                 `json:"cancelled,omitempty" yaml:"cancelled,omitempty" toml:"cancelled,omitempty"`
}

// Options configures an Engine. Resolver is required; a nil Picker always
// takes the first candidate, a nil Opener skips opening and a nil Recorder
// skips history.
type Options struct {
	Resolver Resolver
	Picker   Picker
	Opener   Opener
	Recorder Recorder
	Parser   string // config.ParserRegex or config.ParserAST
	Logger   *slog.Logger
}

// Engine runs the pipeline. Invocations share no state.
type Engine struct {
	resolver Resolver
	picker   Picker
	opener   Opener
	recorder Recorder
	parser   string
	logger   *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	parser := opts.Parser
	if parser == "" {
		parser = config.ParserRegex
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Engine{
		resolver: opts.Resolver,
		picker:   opts.Picker,
		opener:   opts.Opener,
		recorder: opts.Recorder,
		parser:   parser,
		logger:   logger,
	}
}

// ChoiceFor builds the picker entry for a module name.
func ChoiceFor(name string) Choice {
	return Choice{Label: name, Description: fmt.Sprintf("Open %s repository", name)}
}

// Candidates returns the cleaned, deduplicated module names found in the
// narrowest non-empty scope of in: selection, then line, then document.
func (e *Engine) Candidates(ctx context.Context, in Input) ([]string, error) {
	var m *manifest.Manifest
	if in.Kind == KindManifest {
		parsed, err := manifest.Parse([]byte(in.Document))
		if err != nil {
			e.logger.Debug("Document is not a valid manifest", "path", in.Path, "error", err.Error())
			return nil, pkgerrors.NewEmptySelection()
		}
		m = parsed
	}

	scopes := []struct {
		name string
		text string
	}{
		{"selection", in.Selection},
		{"line", in.Line},
		{"document", in.Document},
	}

	for _, scope := range scopes {
		if scope.text == "" {
			continue
		}

		var names []string
		if m != nil {
			names = extract.KeysIn(m, scope.text)
		} else {
			names = extract.CleanAll(e.references(ctx, scope.text, in.Path))
		}
		names = extract.Dedupe(names)

		if len(names) > 0 {
			e.logger.Debug("Found module references", "scope", scope.name, "count", len(names))
			return names, nil
		}
	}

	return nil, pkgerrors.NewEmptySelection()
}

func (e *Engine) references(ctx context.Context, text, path string) []string {
	if e.parser != config.ParserAST {
		return extract.References(text)
	}

	refs, err := extract.ASTReferences(ctx, []byte(text), extract.LanguageForPath(path))
	if err != nil {
		if !errors.Is(err, extract.ErrASTUnavailable) {
			e.logger.Debug("AST extraction failed, using regex", "error", err.Error())
		}
		return extract.References(text)
	}
	return refs
}

// Open finds candidates in in, disambiguates, resolves the chosen name,
// opens it and records it. A dismissed picker yields a cancelled Outcome
// and a nil error.
func (e *Engine) Open(ctx context.Context, in Input) (*Outcome, error) {
	names, err := e.Candidates(ctx, in)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Candidates: names}

	name, ok, err := e.choose(ctx, names)
	if err != nil {
		return nil, err
	}
	if !ok {
		e.logger.Debug("Selection cancelled")
		out.Cancelled = true
		return out, nil
	}

	res, err := e.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	out.Resolution = res

	if e.opener != nil {
		if err := e.opener.Open(ctx, res.URL); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.InternalError, "Failed to open browser", err)
		}
		out.Opened = true
	}

	if e.recorder != nil {
		if _, err := e.recorder.Record(ctx, *res); err != nil {
			e.logger.Warn("Failed to record history", "error", err.Error())
		}
	}

	return out, nil
}

func (e *Engine) choose(ctx context.Context, names []string) (string, bool, error) {
	if len(names) == 1 || e.picker == nil {
		return names[0], true, nil
	}

	choices := make([]Choice, len(names))
	for i, n := range names {
		choices[i] = ChoiceFor(n)
	}

	label, ok, err := e.picker.Pick(ctx, choices)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.InternalError, "Picker failed", err)
	}
	return label, ok && label != "", nil
}
