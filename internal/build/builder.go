// Package build renders the pages of a target.
//
// A run checks the target, compiles its layout and partials, merges its data
// and then renders every source template as the body of the layout, writing
// the result next to its siblings under the mapping's dest directory.
package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/brandscale/pagesmith/internal/config"
	"github.com/brandscale/pagesmith/internal/data"
	"github.com/brandscale/pagesmith/internal/engine"
	"github.com/brandscale/pagesmith/internal/errors"
	"github.com/brandscale/pagesmith/internal/htmlcheck"
	"github.com/brandscale/pagesmith/internal/logging"
	"github.com/brandscale/pagesmith/internal/report"
	"github.com/brandscale/pagesmith/internal/scanner"
)

// BuildOptions change how a run behaves without changing what it renders.
type BuildOptions struct {
	// Force keeps going after a page fails to render or write and reports
	// every such failure at the end. Other failures still abort the run.
	Force bool
	// DryRun renders pages without writing them.
	DryRun bool
	// Overrides are layered over the target options.
	Overrides map[string]interface{}
}

// Builder runs targets from one configuration.
type Builder struct {
	cfg      *config.Config
	registry *engine.Registry
	logger   logging.Logger
	reporter *report.Reporter
	metrics  *BuildMetrics
	opts     BuildOptions
	now      func() time.Time
}

// NewBuilder creates a builder. A nil registry uses engine.DefaultRegistry,
// a nil logger discards logs and a nil reporter prints nothing.
func NewBuilder(cfg *config.Config, registry *engine.Registry, logger logging.Logger, reporter *report.Reporter, opts BuildOptions) *Builder {
	if registry == nil {
		registry = engine.DefaultRegistry()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reporter == nil {
		reporter = report.Discard()
	}

	return &Builder{
		cfg:      cfg,
		registry: registry,
		logger:   logger.WithComponent("build"),
		reporter: reporter,
		metrics:  NewBuildMetrics(),
		opts:     opts,
		now:      time.Now,
	}
}

// Metrics returns the totals of every run so far.
func (b *Builder) Metrics() BuildMetrics {
	return b.metrics.GetSnapshot()
}

// Result describes one finished run.
type Result struct {
	BuildID   string        `json:"build_id"`
	Target    string        `json:"target"`
	Engine    string        `json:"engine"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Pages     []PageResult  `json:"pages"`
	Bytes     uint64        `json:"bytes"`
	Manifest  string        `json:"manifest,omitempty"`
}

// PageResult is the outcome of rendering one page.
type PageResult struct {
	scanner.PagePlan
	Bytes         int      `json:"bytes"`
	Checksum      string   `json:"checksum"`
	Written       bool     `json:"written"`
	MissingAssets []string `json:"missing_assets,omitempty"`
	Err           error    `json:"-"`
}

// Run builds every page of target. It stops at the first failure unless
// Force is set, in which case pages that fail to render or write are
// skipped and an aggregate error is returned once all pages have been tried.
// Any other failure aborts the run. A failed run is logged once as a warning.
func (b *Builder) Run(ctx context.Context, target config.Target) (result *Result, err error) {
	logger := b.logger.With("target", target.Name)
	perf := logging.StartOperation(logger, "build_target")
	start := b.now()
	defer func() {
		elapsed := b.now().Sub(start)
		if result != nil && result.Duration == 0 {
			result.Duration = b.now().Sub(result.StartedAt)
		}
		b.metrics.RecordRun(result, elapsed, err)
		if err != nil {
			logger.Warn(ctx, err, "target failed")
			perf.EndWithError(ctx, err)
			return
		}
		perf.End(ctx)
	}()

	plan, err := PlanTarget(b.cfg, target, b.opts.Overrides)
	if err != nil {
		return nil, err
	}
	opts := plan.Options
	logger.Debug(ctx, "resolved options", "options", opts)
	for _, key := range opts.Unknown {
		logger.Warn(ctx, nil, "ignoring unknown option", "option", key)
	}

	eng, err := b.registry.Resolve(target.Engine, opts.Engine, scanner.Extension(plan.FirstSource()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeNoEngine, "cannot build target").WithTarget(target.Name)
	}

	set, layoutName, lerr := b.loadLayout(opts.Layout, eng)
	if lerr != nil {
		return nil, lerr.WithTarget(target.Name)
	}

	if err := b.loadPartials(ctx, logger, set, opts.Partials); err != nil {
		return nil, errors.WrapConfig(err, "failed to load partials").WithTarget(target.Name)
	}

	site, err := b.loadData(ctx, logger, opts.Data)
	if err != nil {
		return nil, errors.WrapConfig(err, "failed to load data").WithTarget(target.Name)
	}

	tag, ok := ParseLanguage(opts.Language)
	if !ok {
		logger.Warn(ctx, nil, "unknown language, using default casing", "language", opts.Language)
	}

	result = &Result{
		BuildID:   uuid.NewString(),
		Target:    target.Name,
		Engine:    eng.Name(),
		StartedAt: b.now(),
	}

	b.reporter.Heading("Building pages...")
	collector := errors.NewErrorCollector()
	for _, page := range plan.Pages() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pr := b.buildPage(ctx, logger, set, page, PageContext{
			LayoutName: Humanize(layoutName, tag),
			PageName:   page.Name,
			Production: opts.Production,
			Dev:        opts.Dev,
			SetAccount: opts.SetAccount,
			SetSiteID:  opts.SetSiteID,
			Assets:     page.Assets,
		}.Map(site), opts.CheckAssets)
		result.Pages = append(result.Pages, pr)

		if pr.Err != nil {
			b.reporter.Failure("%v", pr.Err)
			if !b.skippable(pr.Err) {
				return result, pr.Err
			}
			logger.Debug(ctx, "skipping failed page", "src", page.Src, "error", pr.Err)
			collector.Add(pr.Err)
			continue
		}
		result.Bytes += uint64(pr.Bytes)
	}

	result.Duration = b.now().Sub(result.StartedAt)

	if opts.Manifest != "" && !b.opts.DryRun {
		if err := WriteManifest(opts.Manifest, NewManifest(result)); err != nil {
			return result, errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write manifest").
				WithFile(opts.Manifest).WithTarget(target.Name)
		}
		result.Manifest = opts.Manifest
		logger.Debug(ctx, "manifest written", "path", opts.Manifest)
	}

	b.reporter.Summary(target.Name, len(result.Pages)-collector.Len(), result.Bytes, result.Duration)
	return result, collector.Err()
}

func (b *Builder) loadLayout(path string, eng engine.Engine) (engine.Set, string, *errors.BuildError) {
	if path == "" {
		return nil, "", errors.ErrLayoutNotFound(path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, "", errors.ErrLayoutNotFound(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.WrapIO(err, errors.ErrCodeReadFailed, "failed to read layout").WithFile(path)
	}

	name := scanner.Name(path)
	set, err := eng.NewSet(name, string(raw))
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrorTypeEngine, errors.ErrCodeTemplateInvalid, "invalid layout").WithFile(path)
	}
	return set, name, nil
}

func (b *Builder) loadPartials(ctx context.Context, logger logging.Logger, set engine.Set, patterns []string) error {
	files, err := scanner.Expand(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	progress := b.reporter.StartProgress("Processing partials...", len(files))
	defer progress.Done()

	for _, path := range files {
		name := scanner.Name(path)
		logger.Debug(ctx, "processing partial", "name", name, "path", path)

		raw, err := os.ReadFile(path)
		if err != nil {
			return errors.WrapIO(err, errors.ErrCodeReadFailed, "failed to read partial").WithFile(path)
		}
		if err := set.AddPartial(name, string(raw)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeEngine, errors.ErrCodeTemplateInvalid, "invalid partial").WithFile(path)
		}
		progress.Step()
	}
	return nil
}

func (b *Builder) loadData(ctx context.Context, logger logging.Logger, patterns []string) (map[string]interface{}, error) {
	files, err := scanner.Expand(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return make(map[string]interface{}), nil
	}

	progress := b.reporter.StartProgress("Begin processing data...", len(files))
	defer progress.Done()

	site, err := data.Load(files, func(path string) {
		logger.Debug(ctx, "processing data", "path", path)
		progress.Step()
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "site data", "data", site)
	return site, nil
}

// skippable reports whether a page failure may be collected instead of
// aborting the run. Only render and write failures qualify, and only in
// force mode.
func (b *Builder) skippable(err error) bool {
	return b.opts.Force && errors.IsRecoverable(err)
}

func (b *Builder) buildPage(ctx context.Context, logger logging.Logger, set engine.Set, page scanner.PagePlan, pageCtx map[string]interface{}, checkAssets bool) PageResult {
	pr := PageResult{PagePlan: page}
	logger.Debug(ctx, "reading page", "src", page.Src, "dest", page.Dest, "assets", page.Assets)

	raw, err := os.ReadFile(page.Src)
	if err != nil {
		pr.Err = errors.WrapIO(err, errors.ErrCodeReadFailed, "failed to read page").WithFile(page.Src)
		return pr
	}

	out, err := set.Render(page.Name, string(raw), pageCtx)
	if err != nil {
		pr.Err = errors.WrapRender(err, page.Src)
		return pr
	}
	pr.Bytes = len(out)
	pr.Checksum = Checksum([]byte(out))

	if checkAssets {
		missing, err := htmlcheck.MissingAssets(out, filepath.Dir(page.Dest))
		if err != nil {
			logger.Warn(ctx, err, "could not check asset references", "dest", page.Dest)
		}
		for _, ref := range missing {
			logger.Warn(ctx, nil, "missing asset", "dest", page.Dest, "ref", ref)
			b.reporter.Warning("%s references missing asset %s", page.Dest, ref)
		}
		pr.MissingAssets = missing
	}

	fileName := page.Name + ".html"
	if b.opts.DryRun {
		b.reporter.Skipped(fileName)
		return pr
	}

	if err := writeFile(page.Dest, []byte(out)); err != nil {
		pr.Err = errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write page").WithFile(page.Src).
			WithContext("dest", page.Dest)
		return pr
	}
	pr.Written = true
	b.reporter.Created(fileName)
	return pr
}

// writeFile replaces path atomically, creating parent directories.
func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(content))
}
