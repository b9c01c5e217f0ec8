// Package report renders resolution results as text, JSON or TOML.
//
// The text form is the classic output:
//
//	Latest version(s) for org.neo4j.gds:proc:
//	Latest version matching ~1.1: 1.1.4
//	No version matching ~1.3
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/resolve"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats, for flag help and completion.
var Formats = []string{string(FormatText), string(FormatJSON), string(FormatTOML)}

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatTOML:
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q", s).
		WithHint("Use one of: %s", strings.Join(Formats, ", "))
}

// Entry is the outcome of one qualifier.
type Entry struct {
	Qualifier string `json:"qualifier" toml:"qualifier"`
	Matched   bool   `json:"matched" toml:"matched"`
	Version   string `json:"version,omitempty" toml:"version,omitempty"`
	Original  string `json:"original,omitempty" toml:"original,omitempty"` // as published
}

// Report is the presentable form of a [resolve.Result].
type Report struct {
	GroupID            string  `json:"groupId" toml:"groupId"`
	ArtifactID         string  `json:"artifactId" toml:"artifactId"`
	Resolver           string  `json:"resolver,omitempty" toml:"resolver,omitempty"`
	IncludePreReleases bool    `json:"includePreReleases" toml:"includePreReleases"`
	Results            []Entry `json:"results" toml:"results"`
}

// New builds a Report from result. resolver is informational and may be empty.
func New(result *resolve.Result, resolver string) Report {
	req := result.Request
	r := Report{
		GroupID:            req.Coordinate.GroupID,
		ArtifactID:         req.Coordinate.ArtifactID,
		Resolver:           resolver,
		IncludePreReleases: req.IncludePreReleases,
		Results:            make([]Entry, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		e := Entry{Qualifier: o.Qualifier.Display(), Matched: o.Matched}
		if o.Matched {
			e.Version = o.Version.String()
			e.Original = o.Version.Original()
		}
		r.Results = append(r.Results, e)
	}
	return r
}

// Styles colour the parts of the text output.
type Styles struct {
	Group     lipgloss.Style
	Artifact  lipgloss.Style
	Qualifier lipgloss.Style
	Version   lipgloss.Style
	Missing   lipgloss.Style
}

// NewStyles returns the default palette bound to r, which decides
// whether colours are emitted at all.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Group:     r.NewStyle().Foreground(lipgloss.Color("5")),
		Artifact:  r.NewStyle().Foreground(lipgloss.Color("4")),
		Qualifier: r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Version:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Missing:   r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	}
}

// PlainStyles renders everything without decoration.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Group: plain, Artifact: plain, Qualifier: plain, Version: plain, Missing: plain}
}

// Write encodes r in format f to w. Styles only apply to text.
func Write(w io.Writer, f Format, r Report, st Styles) error {
	switch f {
	case FormatText, "":
		return writeText(w, r, st)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(r); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q", string(f))
}

func writeText(w io.Writer, r Report, st Styles) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest version(s) for %s:%s:\n", st.Group.Render(r.GroupID), st.Artifact.Render(r.ArtifactID))
	for _, e := range r.Results {
		if e.Matched {
			fmt.Fprintf(&b, "Latest version matching %s: %s\n", st.Qualifier.Render(e.Qualifier), st.Version.Render(e.Version))
		} else {
			fmt.Fprintf(&b, "No version matching %s\n", st.Missing.Render(e.Qualifier))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
