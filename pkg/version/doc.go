// Package version parses the version strings published in Maven
// repositories into ordered semantic versions.
//
// Maven does not enforce semantic versioning, so [Parse] is lenient:
// it only requires a leading integer and coerces everything after it
// into the semver shape. Unparsable strings are reported with ok == false
// and are expected to be skipped by the caller, never treated as fatal.
//
// # Ordering
//
// Versions order by major, minor and patch, then a pre-release sorts
// before its release, then pre-release identifiers compare pairwise
// (numeric identifiers numerically and before alphanumeric ones).
// Build metadata never takes part in ordering or equality:
//
//	version.MustParse("1.0.0-alpha").LessThan(version.MustParse("1.0.0")) // true
//	version.MustParse("1.0.0.Final").Equal(version.MustParse("1.0.0"))    // true
//
// Values are backed by github.com/Masterminds/semver/v3 so that they can
// be checked against range constraints directly.
package version
