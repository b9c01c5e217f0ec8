// Package coordinate parses the Maven coordinates given on the command
// line, either as "groupId:artifactId[:qualifier]*" or as a package URL
// such as "pkg:maven/org.neo4j.gds/proc@1.3".
package coordinate

import (
	"strings"

	packageurl "github.com/package-url/packageurl-go"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
)

// Coordinate identifies a published artifact.
type Coordinate struct {
	GroupID    string
	ArtifactID string
}

// String returns "groupId:artifactId".
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID
}

// Segments returns the repository path segments of c: the groupId split
// on '.', followed by the artifactId.
func (c Coordinate) Segments() []string {
	return append(strings.Split(c.GroupID, "."), c.ArtifactID)
}

// Validate checks that both parts can be used as URL path segments.
func (c Coordinate) Validate() error {
	if err := errs.ValidateCoordinatePart("groupId", c.GroupID); err != nil {
		return err
	}
	return errs.ValidateCoordinatePart("artifact", c.ArtifactID)
}

// Check is one coordinate with the qualifiers to resolve against it.
type Check struct {
	Coordinate Coordinate
	Qualifiers []string // raw qualifier texts in input order
	Resolver   string   // resolver from a package URL, empty if none
}

// ParseCheck parses a coordinate argument.
//
// Segments are separated by ':' and trimmed. The first two are groupId and
// artifactId, the rest are qualifiers. Input of the form "pkg:type/..." is
// read as a maven package URL; its version becomes the single qualifier
// and its repository_url qualifier the resolver.
func ParseCheck(input string) (Check, error) {
	if trimmed := strings.TrimSpace(input); strings.HasPrefix(trimmed, "pkg:") && strings.Contains(trimmed, "/") {
		return parsePURL(trimmed)
	}

	segments := strings.Split(input, ":")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	if segments[0] == "" {
		return Check{}, errs.New(errs.ErrCodeInvalidCoordinate, "the groupId may not be empty in %q", input).
			WithHint("Provide coordinates in the form groupId:artifactId[:qualifier]*")
	}
	if len(segments) < 2 {
		return Check{}, errs.New(errs.ErrCodeInvalidCoordinate, "the artifact is missing in %q", input).
			WithHint("Provide coordinates in the form groupId:artifactId[:qualifier]*")
	}
	if segments[1] == "" {
		return Check{}, errs.New(errs.ErrCodeInvalidCoordinate, "the artifact may not be empty in %q", input).
			WithHint("Provide coordinates in the form groupId:artifactId[:qualifier]*")
	}

	check := Check{
		Coordinate: Coordinate{GroupID: segments[0], ArtifactID: segments[1]},
		Qualifiers: segments[2:],
	}
	if err := check.Coordinate.Validate(); err != nil {
		return Check{}, err
	}
	return check, nil
}

func parsePURL(input string) (Check, error) {
	p, err := packageurl.FromString(input)
	if err != nil {
		return Check{}, errs.Wrap(errs.ErrCodeInvalidCoordinate, err, "invalid package URL %q", input)
	}
	if p.Type != packageurl.TypeMaven {
		return Check{}, errs.New(errs.ErrCodeInvalidCoordinate, "package URL %q is not of type maven", input)
	}
	if p.Namespace == "" {
		return Check{}, errs.New(errs.ErrCodeInvalidCoordinate, "the groupId may not be empty in %q", input)
	}

	check := Check{
		Coordinate: Coordinate{GroupID: p.Namespace, ArtifactID: p.Name},
		Resolver:   p.Qualifiers.Map()["repository_url"],
	}
	if p.Version != "" {
		check.Qualifiers = []string{p.Version}
	}
	if err := check.Coordinate.Validate(); err != nil {
		return Check{}, err
	}
	return check, nil
}
