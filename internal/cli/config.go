package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/integrations/maven"
	"github.com/knutwalker/latest-maven-version/pkg/report"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
	defaultAddr    = ":8080"
)

// =============================================================================
// Flags
// =============================================================================

// connFlags configure how the resolver is reached. They are persistent so
// that serve shares them with the root command.
type connFlags struct {
	resolver string
	user     string
	password string
	timeout  time.Duration
	retries  int
}

// checkFlags are the flags of the root command.
type checkFlags struct {
	conn       connFlags
	includePre bool
	format     string
}

func (f *checkFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.conn.resolver, "resolver", "r", "", "Maven repository root URL (default "+maven.DefaultResolver+")")
	pf.StringVarP(&f.conn.user, "user", "u", "", "username for authentication against the resolver")
	pf.StringVar(&f.conn.password, "insecure-password", "", "password for --user; prompted for when omitted")
	pf.DurationVar(&f.conn.timeout, "timeout", defaultTimeout, "timeout for each metadata request")
	pf.IntVar(&f.conn.retries, "retries", defaultRetries, "retries after a transient failure")

	fl := cmd.Flags()
	fl.BoolVarP(&f.includePre, "include-pre-releases", "i", false, "also consider pre-release versions")
	fl.StringVarP(&f.format, "format", "o", string(report.FormatText), "output format: text, json or toml")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(report.Formats, cobra.ShellCompDirectiveNoFileComp))
}

// =============================================================================
// Resolved Configuration
// =============================================================================

// connConfig is the effective connection configuration:
// flags override environment variables, which override defaults.
type connConfig struct {
	resolver    string
	resolverSet bool // given with --resolver, wins over a package URL's repository
	user        string
	password    string
	hasPassword bool
	timeout     time.Duration
	retries     int
}

type checkConfig struct {
	conn       connConfig
	includePre bool
	format     report.Format
}

func (c *CLI) env(name string) string {
	return c.getenv(envPrefix + name)
}

func (c *CLI) loadConnConfig(cmd *cobra.Command, f *connFlags) (connConfig, error) {
	cfg := connConfig{
		resolver: c.env("RESOLVER"),
		user:     c.env("USER"),
		timeout:  defaultTimeout,
		retries:  defaultRetries,
	}
	if v := c.env("PASSWORD"); v != "" {
		cfg.password = v
		cfg.hasPassword = true
	}
	if v := c.env("TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %sTIMEOUT %q", envPrefix, v).
				WithHint("Use a duration such as 30s or 1m.")
		}
		cfg.timeout = d
	}
	if v := c.env("RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %sRETRIES %q", envPrefix, v)
		}
		cfg.retries = n
	}

	flags := cmd.Flags()
	if flags.Changed("resolver") {
		cfg.resolver = f.resolver
		cfg.resolverSet = true
	}
	if flags.Changed("user") {
		cfg.user = f.user
	}
	if flags.Changed("insecure-password") {
		cfg.password = f.password
		cfg.hasPassword = true
	}
	if flags.Changed("timeout") {
		cfg.timeout = f.timeout
	}
	if flags.Changed("retries") {
		cfg.retries = f.retries
	}

	if cfg.hasPassword && cfg.user == "" {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "a password requires a user").
			WithHint("Provide the user with --user.")
	}
	if cfg.timeout <= 0 {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "the timeout must be positive, got %s", cfg.timeout)
	}
	if cfg.retries < 0 {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "the number of retries may not be negative, got %d", cfg.retries)
	}
	if cfg.resolver != "" {
		if err := errs.ValidateURL(cfg.resolver); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (c *CLI) loadCheckConfig(cmd *cobra.Command, f *checkFlags) (checkConfig, error) {
	conn, err := c.loadConnConfig(cmd, &f.conn)
	if err != nil {
		return checkConfig{}, err
	}
	cfg := checkConfig{conn: conn, format: report.FormatText}

	if v := c.env("INCLUDE_PRE_RELEASES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %sINCLUDE_PRE_RELEASES %q", envPrefix, v)
		}
		cfg.includePre = b
	}
	if cmd.Flags().Changed("include-pre-releases") {
		cfg.includePre = f.includePre
	}

	format := c.env("FORMAT")
	if cmd.Flags().Changed("format") {
		format = f.format
	}
	if cfg.format, err = report.ParseFormat(format); err != nil {
		return cfg, err
	}
	return cfg, nil
}
