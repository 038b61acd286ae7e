package generate

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/schema"
	"github.com/thoreinstein/slsah/internal/steamapi"
)

// Mode decides what happens when a schema file already exists.
type Mode string

const (
	// ModeOverwrite replaces the existing file.
	ModeOverwrite Mode = "overwrite"
	// ModeUpdate merges the fresh schema into the existing file.
	ModeUpdate Mode = "update"
	// ModeSkip leaves the existing file untouched.
	ModeSkip Mode = "skip"
)

// Modes lists the accepted modes for flag help and completion.
var Modes = []Mode{ModeOverwrite, ModeUpdate, ModeSkip}

// ErrInvalidMode is returned by ParseMode for unknown names.
var ErrInvalidMode = errors.New("invalid generation mode")

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidMode, "%q (want overwrite, update or skip)", s)
}

// Outcome is what happened to one AppID.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeOverwritten Outcome = "overwritten"
	OutcomeUpdated     Outcome = "updated"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
)

// SchemaFetcher supplies achievement lists. *steamapi.Client implements it.
type SchemaFetcher interface {
	GetSchemaForGame(ctx context.Context, appID int64, language string) (*steamapi.GameInfo, error)
}

// Options configures a Generator.
type Options struct {
	Mode     Mode
	Language string
	// SteamID and StatsTemplate enable seeding the user stats file. Either
	// one empty disables it.
	SteamID       string
	StatsTemplate string
	// Jobs bounds how many AppIDs are processed at once. Values below 1
	// mean 1.
	Jobs int
}

// Result reports the processing of one AppID.
type Result struct {
	AppID        int64
	Name         string
	Achievements int
	Outcome      Outcome
	StatsCreated bool
	// Warning is a problem that did not stop the schema from being written.
	Warning string
	Err     error
}

// Summary totals a batch. Total counts every AppID processed.
type Summary struct {
	Total       int
	Created     int
	Overwritten int
	Updated     int
	Skipped     int
	Errors      int
	Results     []Result
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeOverwritten:
		s.Overwritten++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Errors++
	}
	s.Results = append(s.Results, r)
}

// Generator writes schema files into a store.
type Generator struct {
	store *schema.Store
	api   SchemaFetcher
	opts  Options
}

// New returns a Generator. An empty Mode means ModeUpdate and an empty
// Language means english.
func New(store *schema.Store, api SchemaFetcher, opts Options) *Generator {
	if opts.Mode == "" {
		opts.Mode = ModeUpdate
	}
	if opts.Language == "" {
		opts.Language = schema.DefaultLanguage
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Generator{store: store, api: api, opts: opts}
}

// Run processes appIDs and returns the summary in input order. Failures of
// single AppIDs are recorded in the summary; Run itself only fails when ctx
// is canceled.
func (g *Generator) Run(ctx context.Context, appIDs []int64) (*Summary, error) {
	results := make([]Result, len(appIDs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Jobs)
	for i, id := range appIDs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = g.One(ctx, id)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{}
	for _, r := range results {
		sum.add(r)
	}
	return sum, nil
}

// One processes a single AppID.
func (g *Generator) One(ctx context.Context, appID int64) Result {
	logger := logging.FromContext(ctx).With("app_id", appID)
	res := Result{AppID: appID}

	fail := func(err error) Result {
		res.Outcome = OutcomeFailed
		res.Err = err
		logger.Warn("schema generation failed", "error", err)
		return res
	}

	exists, err := g.store.Exists(appID)
	if err != nil {
		return fail(err)
	}

	if exists && g.opts.Mode == ModeSkip {
		res.Outcome = OutcomeSkipped
		logger.Debug("schema exists, skipping")
		g.seedStats(logger, &res)
		return res
	}

	info, err := g.api.GetSchemaForGame(ctx, appID, g.opts.Language)
	if err != nil {
		return fail(err)
	}
	res.Name = info.Name
	res.Achievements = len(info.Achievements)

	built := schema.Build(appID, info.Name, info.Version, info.Achievements, g.opts.Language)
	if errs := schema.Validate(built); len(errs) > 0 {
		// Upstream data problems such as duplicate API names still
		// produce a usable file.
		res.Warning = errs[0].Error()
		logger.Warn("schema has problems", "count", len(errs), "first", errs[0])
	}
	tree := schema.Schema{strconv.FormatInt(appID, 10): built}.Tree()

	switch {
	case !exists:
		res.Outcome = OutcomeCreated
	case g.opts.Mode == ModeUpdate:
		prior, err := g.store.Load(appID)
		if err != nil {
			// A damaged file is left alone rather than replaced.
			return fail(err)
		}
		if prior != nil {
			tree = schema.Merge(tree, prior)
		}
		res.Outcome = OutcomeUpdated
	default:
		res.Outcome = OutcomeOverwritten
	}

	if err := g.store.Save(appID, tree); err != nil {
		return fail(err)
	}
	logger.Info("schema written", "name", info.Name, "achievements", res.Achievements, "outcome", res.Outcome)

	g.seedStats(logger, &res)
	return res
}

func (g *Generator) seedStats(logger *slog.Logger, res *Result) {
	if g.opts.SteamID == "" || g.opts.StatsTemplate == "" {
		return
	}
	created, err := g.store.EnsureStatsFile(g.opts.SteamID, res.AppID, g.opts.StatsTemplate)
	switch {
	case err == nil:
		res.StatsCreated = created
		if created {
			logger.Info("stats file created from template")
		}
	case errors.Is(err, os.ErrNotExist):
		res.Warning = "stats template not found: " + g.opts.StatsTemplate
		logger.Warn("stats template not found", "path", g.opts.StatsTemplate)
	default:
		res.Warning = err.Error()
		logger.Warn("could not create stats file", "error", err)
	}
}
