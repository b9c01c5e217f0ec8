package resolve

import (
	"github.com/knutwalker/latest-maven-version/pkg/qualifier"
	"github.com/knutwalker/latest-maven-version/pkg/version"
)

// Outcome is the result for one qualifier.
type Outcome struct {
	Qualifier qualifier.Qualifier
	Version   version.Version // zero unless Matched
	Matched   bool
}

// Resolve applies qualifiers in order to candidates and returns one
// outcome per qualifier, in the same order.
//
// Without includePreReleases every pre-release candidate is dropped up
// front. Candidates equal up to build metadata are collapsed into one.
// Inputs are not modified.
func Resolve(candidates []version.Version, qualifiers []qualifier.Qualifier, includePreReleases bool) []Outcome {
	outcomes := make([]Outcome, 0, len(qualifiers))
	if len(qualifiers) == 0 {
		return outcomes
	}

	pool := newPool(candidates, includePreReleases)
	for _, q := range qualifiers {
		outcome := Outcome{Qualifier: q}
		if best, ok := pool.take(q); ok {
			outcome.Version = best
			outcome.Matched = true
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// pool is the set of candidates still available to later qualifiers.
type pool struct {
	versions []version.Version
}

func newPool(candidates []version.Version, includePreReleases bool) *pool {
	seen := make(map[string]int, len(candidates))
	versions := make([]version.Version, 0, len(candidates))
	for _, v := range candidates {
		if v.IsZero() || (!includePreReleases && v.IsPrerelease()) {
			continue
		}
		key := v.Key()
		if i, dup := seen[key]; dup {
			// prefer the plain release over e.g. 1.0.0.Final
			if versions[i].Metadata() != "" && v.Metadata() == "" {
				versions[i] = v
			}
			continue
		}
		seen[key] = len(versions)
		versions = append(versions, v)
	}
	return &pool{versions: versions}
}

// take removes every candidate matching q and returns the greatest of them.
func (p *pool) take(q qualifier.Qualifier) (version.Version, bool) {
	var matched []version.Version
	kept := p.versions[:0]
	for _, v := range p.versions {
		if q.Matches(v) {
			matched = append(matched, v)
		} else {
			kept = append(kept, v)
		}
	}
	p.versions = kept
	return version.Max(matched)
}
