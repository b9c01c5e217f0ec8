package resolve

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knutwalker/latest-maven-version/pkg/coordinate"
	"github.com/knutwalker/latest-maven-version/pkg/observability"
	"github.com/knutwalker/latest-maven-version/pkg/version"
)

// Fetcher returns the raw version strings published for a coordinate.
// The order of the returned strings is not significant.
type Fetcher interface {
	FetchVersions(ctx context.Context, coord coordinate.Coordinate) ([]string, error)
}

// Runner combines a [Fetcher] with [Resolve].
//
// The Runner holds no per-run state; one Runner may serve concurrent runs.
type Runner struct {
	Fetcher Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(f Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Fetcher: f, Logger: logger}
}

// Run fetches the versions of req.Coordinate and resolves req against
// them. Unparsable version strings are dropped. A fetch error aborts the
// run and is returned unchanged.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	coord := req.Coordinate.String()
	hooks := observability.Resolve()

	hooks.OnFetchStart(ctx, coord)
	start := time.Now()
	raw, err := r.Fetcher.FetchVersions(ctx, req.Coordinate)
	elapsed := time.Since(start)
	hooks.OnFetchComplete(ctx, coord, len(raw), elapsed, err)
	if err != nil {
		return nil, err
	}

	candidates, dropped := version.ParseAll(raw)
	r.Logger.Debug("fetched versions",
		"coordinate", coord,
		"versions", len(raw),
		"dropped", dropped,
		"duration", elapsed.Round(time.Millisecond))

	for _, q := range req.Qualifiers {
		r.Logger.Debug("qualifier", "display", q.Display(), "kind", q.Kind(), "rank", q.Rank())
	}

	result := &Result{
		Request:  req,
		Outcomes: Resolve(candidates, req.Qualifiers, req.IncludePreReleases),
		Stats: Stats{
			Fetched:   len(raw),
			Parsed:    len(candidates),
			Dropped:   dropped,
			FetchTime: elapsed,
		},
	}
	for _, o := range result.Outcomes {
		if o.Matched {
			r.Logger.Debug("matched", "qualifier", o.Qualifier.Display(), "version", o.Version.String())
		} else {
			r.Logger.Debug("no match", "qualifier", o.Qualifier.Display())
		}
	}

	hooks.OnResolveComplete(ctx, coord, result.Matched(), len(result.Outcomes))
	return result, nil
}
