package version

import (
	"strconv"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// Version is a parsed, totally ordered semantic version.
//
// The zero value is not a valid version; use [Version.IsZero] to tell.
// Versions are immutable and safe for concurrent use.
type Version struct {
	sv  *semver.Version
	raw string
}

// releaseMarkers are Maven qualifiers that denote a release, not a pre-release.
var releaseMarkers = map[string]bool{
	"final":   true,
	"release": true,
	"ga":      true,
}

// Parse leniently converts raw into a Version.
//
// It accepts "1", "1.2", "1.2.3", a leading "v", "_" as component
// separator, "-pre" / ".pre" / "pre" labels and "+build" suffixes.
// Numeric components past the patch and the Maven release markers
// Final, RELEASE and GA become build metadata. Strings without a leading
// integer are rejected with ok == false.
func Parse(raw string) (v Version, ok bool) {
	s := strings.TrimSpace(raw)
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && isDigit(s[1]) {
		s = s[1:]
	}

	var nums []uint64
	var extra []string
	i := 0
	for {
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i {
			break
		}
		n, err := strconv.ParseUint(s[i:j], 10, 64)
		if err != nil {
			return Version{}, false
		}
		if len(nums) < 3 {
			nums = append(nums, n)
		} else {
			extra = append(extra, strconv.FormatUint(n, 10))
		}
		i = j
		if i+1 < len(s) && (s[i] == '.' || s[i] == '_') && isDigit(s[i+1]) {
			i++
			continue
		}
		break
	}
	if len(nums) == 0 {
		return Version{}, false
	}
	for len(nums) < 3 {
		nums = append(nums, 0)
	}

	rest := s[i:]
	var build []string
	build = append(build, extra...)
	var trailing string
	if k := strings.IndexByte(rest, '+'); k >= 0 {
		trailing = rest[k+1:]
		rest = rest[:k]
	}

	pre := strings.TrimLeft(rest, "-._")
	if releaseMarkers[strings.ToLower(pre)] {
		build = append(build, pre)
		pre = ""
	}
	if trailing != "" {
		build = append(build, trailing)
	}

	sv := semver.New(nums[0], nums[1], nums[2],
		identifiers(pre, true),
		identifiers(strings.Join(build, "."), false))
	return Version{sv: sv, raw: raw}, true
}

// MustParse is like Parse but panics if raw is not a version.
func MustParse(raw string) Version {
	v, ok := Parse(raw)
	if !ok {
		panic("version: cannot parse " + strconv.Quote(raw))
	}
	return v
}

// ParseAll parses every raw string, returning the versions in input
// order and the number of strings that were dropped as unparsable.
func ParseAll(raws []string) (parsed []Version, dropped int) {
	parsed = make([]Version, 0, len(raws))
	for _, raw := range raws {
		v, ok := Parse(raw)
		if !ok {
			dropped++
			continue
		}
		parsed = append(parsed, v)
	}
	return parsed, dropped
}

// identifiers sanitises a dot separated identifier list into the
// [0-9A-Za-z-] alphabet, dropping empty identifiers.
func identifiers(s string, stripZeros bool) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '.':
			return r
		case r == '_' || r == '+':
			return '.'
		}
		return '-'
	}, s)

	parts := strings.Split(s, ".")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if stripZeros && isNumeric(p) {
			p = strings.TrimLeft(p, "0")
			if p == "" {
				p = "0"
			}
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

// Semver returns the underlying Masterminds version.
func (v Version) Semver() *semver.Version { return v.sv }

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool { return v.sv == nil }

func (v Version) Major() uint64 { return v.sv.Major() }
func (v Version) Minor() uint64 { return v.sv.Minor() }
func (v Version) Patch() uint64 { return v.sv.Patch() }

// Prerelease returns the pre-release label without the leading "-".
func (v Version) Prerelease() string { return v.sv.Prerelease() }

// Metadata returns the build metadata without the leading "+".
func (v Version) Metadata() string { return v.sv.Metadata() }

// IsPrerelease reports whether v carries a pre-release label.
func (v Version) IsPrerelease() bool { return v.sv.Prerelease() != "" }

// Release returns v without pre-release label and build metadata.
func (v Version) Release() Version {
	sv := semver.New(v.sv.Major(), v.sv.Minor(), v.sv.Patch(), "", "")
	return Version{sv: sv, raw: sv.String()}
}

// Compare returns -1, 0 or 1 when v is less than, equal to or greater than o.
// Build metadata is ignored.
func (v Version) Compare(o Version) int { return v.sv.Compare(o.sv) }

func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }
func (v Version) Equal(o Version) bool    { return v.Compare(o) == 0 }

// Key identifies the equivalence class of v: major.minor.patch[-pre].
func (v Version) Key() string {
	k := strconv.FormatUint(v.sv.Major(), 10) + "." +
		strconv.FormatUint(v.sv.Minor(), 10) + "." +
		strconv.FormatUint(v.sv.Patch(), 10)
	if pre := v.sv.Prerelease(); pre != "" {
		k += "-" + pre
	}
	return k
}

// String returns the canonical form, e.g. "1.4.0-alpha02" or "1.0.0+Final".
func (v Version) String() string {
	if v.sv == nil {
		return ""
	}
	return v.sv.String()
}

// Original returns the string v was parsed from.
func (v Version) Original() string { return v.raw }

// Max returns the greatest of vs, or false if vs is empty.
func Max(vs []Version) (Version, bool) {
	if len(vs) == 0 {
		return Version{}, false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if best.LessThan(v) {
			best = v
		}
	}
	return best, true
}
