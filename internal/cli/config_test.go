package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/report"
)

// parseConfig parses args with the root command's flags and loads the check configuration.
func parseConfig(t *testing.T, env map[string]string, args ...string) (checkConfig, error) {
	t.Helper()
	c, _ := newTestCLI(env)
	f := &checkFlags{}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetGlobalNormalizationFunc(normalizeFlagAliases)
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return c.loadCheckConfig(cmd, f)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t, nil)
	if err != nil {
		t.Fatalf("loadCheckConfig() error: %v", err)
	}
	if cfg.conn.resolver != "" || cfg.conn.resolverSet {
		t.Errorf("resolver = %q (set %v), want default", cfg.conn.resolver, cfg.conn.resolverSet)
	}
	if cfg.conn.timeout != defaultTimeout || cfg.conn.retries != defaultRetries {
		t.Errorf("timeout = %v, retries = %d", cfg.conn.timeout, cfg.conn.retries)
	}
	if cfg.format != report.FormatText || cfg.includePre {
		t.Errorf("format = %q, includePre = %v", cfg.format, cfg.includePre)
	}
}

func TestConfigPrecedence(t *testing.T) {
	env := map[string]string{
		envPrefix + "RESOLVER":             "https://env.example.com/maven2",
		envPrefix + "USER":                 "env-user",
		envPrefix + "TIMEOUT":              "5s",
		envPrefix + "RETRIES":              "1",
		envPrefix + "INCLUDE_PRE_RELEASES": "true",
		envPrefix + "FORMAT":               "json",
	}

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg checkConfig)
	}{
		{
			name: "environment over defaults",
			check: func(t *testing.T, cfg checkConfig) {
				if cfg.conn.resolver != "https://env.example.com/maven2" || cfg.conn.resolverSet {
					t.Errorf("resolver = %q (set %v)", cfg.conn.resolver, cfg.conn.resolverSet)
				}
				if cfg.conn.user != "env-user" || cfg.conn.timeout != 5*time.Second || cfg.conn.retries != 1 {
					t.Errorf("conn = %+v", cfg.conn)
				}
				if !cfg.includePre || cfg.format != report.FormatJSON {
					t.Errorf("includePre = %v, format = %q", cfg.includePre, cfg.format)
				}
			},
		},
		{
			name: "flags over environment",
			args: []string{"-r", "https://flag.example.com", "-u", "flag-user", "--timeout", "1m",
				"--retries", "0", "-i=false", "-o", "toml"},
			check: func(t *testing.T, cfg checkConfig) {
				if cfg.conn.resolver != "https://flag.example.com" || !cfg.conn.resolverSet {
					t.Errorf("resolver = %q (set %v)", cfg.conn.resolver, cfg.conn.resolverSet)
				}
				if cfg.conn.user != "flag-user" || cfg.conn.timeout != time.Minute || cfg.conn.retries != 0 {
					t.Errorf("conn = %+v", cfg.conn)
				}
				if cfg.includePre || cfg.format != report.FormatTOML {
					t.Errorf("includePre = %v, format = %q", cfg.includePre, cfg.format)
				}
			},
		},
		{
			name: "aliases",
			args: []string{"--repo", "https://alias.example.com", "--username", "alias-user", "--password", "pw"},
			check: func(t *testing.T, cfg checkConfig) {
				if cfg.conn.resolver != "https://alias.example.com" || cfg.conn.user != "alias-user" {
					t.Errorf("conn = %+v", cfg.conn)
				}
				if !cfg.conn.hasPassword || cfg.conn.password != "pw" {
					t.Errorf("password not taken from --password")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseConfig(t, env, tt.args...)
			if err != nil {
				t.Fatalf("loadCheckConfig() error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		code errs.Code
	}{
		{"password requires user", nil, []string{"--insecure-password", "pw"}, errs.ErrCodeInvalidInput},
		{"env password requires user", map[string]string{envPrefix + "PASSWORD": "pw"}, nil, errs.ErrCodeInvalidInput},
		{"negative retries", nil, []string{"--retries", "-1"}, errs.ErrCodeInvalidInput},
		{"negative timeout", nil, []string{"--timeout", "-1s"}, errs.ErrCodeInvalidInput},
		{"env timeout", map[string]string{envPrefix + "TIMEOUT": "soon"}, nil, errs.ErrCodeInvalidInput},
		{"env pre-releases", map[string]string{envPrefix + "INCLUDE_PRE_RELEASES": "maybe"}, nil, errs.ErrCodeInvalidInput},
		{"resolver scheme", nil, []string{"-r", "ftp://example.com"}, errs.ErrCodeInvalidResolver},
		{"format", nil, []string{"-o", "xml"}, errs.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(t, tt.env, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("loadCheckConfig() error = %v, want %s", err, tt.code)
			}
		})
	}
}
