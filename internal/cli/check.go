package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/knutwalker/latest-maven-version/pkg/coordinate"
	"github.com/knutwalker/latest-maven-version/pkg/integrations"
	"github.com/knutwalker/latest-maven-version/pkg/integrations/maven"
	"github.com/knutwalker/latest-maven-version/pkg/qualifier"
	"github.com/knutwalker/latest-maven-version/pkg/report"
	"github.com/knutwalker/latest-maven-version/pkg/resolve"
)

// runCheck resolves one coordinate argument and prints the report.
// Input is validated completely before the password prompt and the fetch.
func (c *CLI) runCheck(cmd *cobra.Command, input string, f *checkFlags) error {
	cfg, err := c.loadCheckConfig(cmd, f)
	if err != nil {
		return err
	}
	check, err := coordinate.ParseCheck(input)
	if err != nil {
		return err
	}
	qualifiers, err := qualifier.ParseAll(check.Qualifiers)
	if err != nil {
		return err
	}

	resolver := cfg.conn.resolver
	if check.Resolver != "" && !cfg.conn.resolverSet {
		resolver = check.Resolver
	}

	if err := c.promptMissingPassword(cmd, &cfg.conn); err != nil {
		return err
	}
	client, err := c.newMavenClient(resolver, cfg.conn)
	if err != nil {
		return err
	}

	ctx := withLogger(cmd.Context(), c.Logger)
	req := resolve.NewRequest(check.Coordinate, qualifiers, cfg.includePre)
	c.Logger.Debug("resolving", "coordinate", check.Coordinate, "resolver", client.Resolver(),
		"qualifiers", len(req.Qualifiers), "pre", req.IncludePreReleases)

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Fetching versions of %s", check.Coordinate))
	spin.Start()
	result, err := resolve.NewRunner(client, c.Logger).Run(ctx, req)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("resolved %d of %d qualifiers", result.Matched(), len(result.Outcomes)))

	out := cmd.OutOrStdout()
	styles := report.NewStyles(lipgloss.NewRenderer(out))
	return report.Write(out, cfg.format, report.New(result, client.Resolver()), styles)
}

// newMavenClient builds the metadata client for resolver from cfg.
func (c *CLI) newMavenClient(resolver string, cfg connConfig) (*maven.Client, error) {
	opts := []integrations.Option{
		integrations.WithLogger(c.Logger),
		integrations.WithTimeout(cfg.timeout),
		integrations.WithMaxAttempts(cfg.retries + 1),
	}
	if cfg.user != "" {
		opts = append(opts, integrations.WithBasicAuth(cfg.user, cfg.password))
	}
	return maven.NewClient(resolver, opts...)
}
