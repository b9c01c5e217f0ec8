package resolve

import (
	"slices"
	"time"

	"github.com/knutwalker/latest-maven-version/pkg/coordinate"
	"github.com/knutwalker/latest-maven-version/pkg/qualifier"
)

// Request is one resolution: a coordinate, its qualifiers in order and
// whether pre-releases take part. Build it with [NewRequest].
type Request struct {
	Coordinate         coordinate.Coordinate
	Qualifiers         []qualifier.Qualifier
	IncludePreReleases bool
}

// NewRequest copies qualifiers into a new Request. An empty list becomes
// the single qualifier "*", so a bare coordinate reports its latest version.
func NewRequest(coord coordinate.Coordinate, qualifiers []qualifier.Qualifier, includePreReleases bool) Request {
	qs := slices.Clone(qualifiers)
	if len(qs) == 0 {
		qs = []qualifier.Qualifier{qualifier.Any()}
	}
	return Request{
		Coordinate:         coord,
		Qualifiers:         qs,
		IncludePreReleases: includePreReleases,
	}
}

// Result holds the outcome of a [Runner.Run].
type Result struct {
	Request  Request
	Outcomes []Outcome // one per qualifier, in request order
	Stats    Stats
}

// Stats describes the candidate pool of a run.
type Stats struct {
	Fetched   int           // raw version strings returned by the resolver
	Parsed    int           // strings that parsed as versions
	Dropped   int           // strings that did not
	FetchTime time.Duration // time spent fetching
}

// Matched returns how many qualifiers found a version.
func (r *Result) Matched() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Matched {
			n++
		}
	}
	return n
}
