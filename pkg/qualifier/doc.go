// Package qualifier parses user supplied version ranges such as "~1.1",
// "1.3" (a caret range), ">=1.2 <2" or "1.2 - 1.4" into predicates over
// [version.Version], using github.com/Masterminds/semver/v3 constraints.
package qualifier
