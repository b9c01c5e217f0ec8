package qualifier

import (
	"regexp"
	"strings"

	semver "github.com/Masterminds/semver/v3"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/version"
)

// RangeSyntaxURL documents the accepted range syntax.
const RangeSyntaxURL = "https://www.npmjs.com/package/semver#advanced-range-syntax"

// Kind classifies the syntactic form of a qualifier.
type Kind int

const (
	KindExact      Kind = iota // =1.2.3
	KindTilde                  // ~1.1
	KindCaret                  // ^1.2, or a bare 1.2
	KindWildcard               // 1.x, 1.2.*
	KindComparator             // >=1.2 <2, 1.2 - 1.4, a || b
	KindAny                    // *
)

var kindNames = map[Kind]string{
	KindExact:      "exact",
	KindTilde:      "tilde",
	KindCaret:      "caret",
	KindWildcard:   "wildcard",
	KindComparator: "comparator",
	KindAny:        "any",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Qualifier is a parsed version range together with its display form.
// Qualifiers are immutable and safe for concurrent use.
type Qualifier struct {
	display     string
	kind        Kind
	constraints *semver.Constraints
}

var (
	// versionToken is a partial version as it may appear inside a range.
	versionToken = regexp.MustCompile(`^[vV]?(0|[1-9][0-9]*|[xX*])(\.(0|[1-9][0-9]*|[xX*])){0,2}` +
		`(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?(\+[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)

	// bareVersion is a qualifier without operator or wildcard; it means a caret range.
	bareVersion = regexp.MustCompile(`^[vV]?(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*)){0,2}` +
		`(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?(\+[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)

	wildcardOnly = regexp.MustCompile(`^[xX*](\.[xX*]){0,2}$`)

	// Longest operators first.
	operators = []string{">=", "=>", "<=", "=<", "!=", "~>", ">", "<", "=", "~", "^"}
)

// Parse converts a range expression into a Qualifier.
//
// A bare version such as "1" or "1.3" is a caret range and displays as
// "^1" / "^1.3". Everything else is kept as typed, with whitespace
// collapsed. Malformed text yields an INVALID_QUALIFIER error.
func Parse(raw string) (Qualifier, error) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return Qualifier{}, invalid(raw, nil)
	}
	if err := validate(text); err != nil {
		return Qualifier{}, invalid(raw, err)
	}

	display := text
	kind := classify(text)
	if bareVersion.MatchString(text) {
		display = "^" + text
	}

	c, err := semver.NewConstraint(display)
	if err != nil {
		return Qualifier{}, invalid(raw, err)
	}
	return Qualifier{display: display, kind: kind, constraints: c}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(raw string) Qualifier {
	q, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return q
}

// ParseAll parses every qualifier in order and stops at the first invalid one.
func ParseAll(raws []string) ([]Qualifier, error) {
	qs := make([]Qualifier, 0, len(raws))
	for _, raw := range raws {
		q, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// Any returns the qualifier matching every version.
func Any() Qualifier {
	return MustParse("*")
}

func invalid(raw string, cause error) error {
	var e *errs.Error
	if cause != nil {
		e = errs.Wrap(errs.ErrCodeInvalidQualifier, cause, "could not parse %q into a semantic version range", raw)
	} else {
		e = errs.New(errs.ErrCodeInvalidQualifier, "could not parse %q into a semantic version range", raw)
	}
	return e.WithHint("Provide a valid range according to %s", RangeSyntaxURL)
}

// validate checks every version token of a range. The constraint parser
// accepts some inputs that are not valid range syntax (leading zeros,
// four components), so they are rejected here first.
func validate(text string) error {
	for _, alt := range strings.Split(text, "||") {
		fields := strings.FieldsFunc(alt, func(r rune) bool { return r == ' ' || r == ',' })
		if len(fields) == 0 {
			return errs.New(errs.ErrCodeInvalidQualifier, "empty alternative")
		}
		pendingOp := false
		for i, f := range fields {
			if f == "-" {
				if pendingOp || i == 0 || i == len(fields)-1 {
					return errs.New(errs.ErrCodeInvalidQualifier, "dangling hyphen")
				}
				continue
			}
			tok := stripOperator(f)
			if tok == "" {
				if pendingOp {
					return errs.New(errs.ErrCodeInvalidQualifier, "operator %q without version", f)
				}
				pendingOp = true
				continue
			}
			pendingOp = false
			if !versionToken.MatchString(tok) {
				return errs.New(errs.ErrCodeInvalidQualifier, "%q is not a version", tok)
			}
		}
		if pendingOp {
			return errs.New(errs.ErrCodeInvalidQualifier, "operator without version")
		}
	}
	return nil
}

func stripOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return s[len(op):]
		}
	}
	return s
}

func classify(text string) Kind {
	switch {
	case wildcardOnly.MatchString(text):
		return KindAny
	case strings.ContainsAny(text, " ,|"):
		return KindComparator
	case strings.HasPrefix(text, "~"):
		return KindTilde
	case strings.HasPrefix(text, "^"), bareVersion.MatchString(text):
		return KindCaret
	case strings.HasPrefix(text, "="):
		if strings.ContainsAny(text, "xX*") {
			return KindWildcard
		}
		return KindExact
	case strings.HasPrefix(text, ">"), strings.HasPrefix(text, "<"), strings.HasPrefix(text, "!"):
		return KindComparator
	case strings.ContainsAny(text, "xX*"):
		return KindWildcard
	}
	return KindComparator
}

// Matches reports whether v lies in the range.
//
// A pre-release is matched on its release core, so "^1" matches
// "1.4.0-alpha02". Whether pre-releases take part at all is decided by
// the caller.
func (q Qualifier) Matches(v version.Version) bool {
	if q.constraints.Check(v.Semver()) {
		return true
	}
	return v.IsPrerelease() && q.constraints.Check(v.Release().Semver())
}

// Display returns the canonical display form, e.g. "^1.3" for "1.3".
func (q Qualifier) Display() string { return q.display }

// String returns the display form.
func (q Qualifier) String() string { return q.display }

// Kind returns the syntactic form of the range.
func (q Qualifier) Kind() Kind { return q.kind }

// Rank orders qualifiers by restrictiveness, lower is narrower.
// It is informational only; resolution order is the input order.
func (q Qualifier) Rank() int {
	switch q.kind {
	case KindExact:
		return 0
	case KindTilde:
		return 1
	case KindCaret, KindWildcard:
		return 2
	case KindComparator:
		return 3
	default:
		return 4
	}
}
