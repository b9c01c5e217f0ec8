package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/knutwalker/latest-maven-version/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completion.
	appName = buildinfo.Name

	// envPrefix prefixes every environment variable the CLI reads.
	envPrefix = "LATEST_MAVEN_VERSION_"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// getenv reads configuration from the environment; tests replace it.
	getenv func(string) string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself resolves one coordinate.
func (c *CLI) RootCommand() *cobra.Command {
	flags := &checkFlags{}

	root := &cobra.Command{
		Use:   appName + " <groupId:artifactId[:qualifier]*>",
		Short: "Find the latest Maven version for a set of version ranges",
		Long: `Check for the latest version of a Maven artifact, once per version range.

Qualifiers are applied from left to right. Every version matched by a
qualifier is consumed, so later qualifiers only see what is left:

  ` + appName + ` org.neo4j.gds:proc:~1.1:~1.3:1

reports the latest 1.1.x, the latest 1.3.x and the latest 1.x that is
neither. Without qualifiers the overall latest version is reported.

The coordinate may also be given as a package URL:

  ` + appName + ` 'pkg:maven/org.neo4j.gds/proc@1.3'

Qualifiers follow https://www.npmjs.com/package/semver#advanced-range-syntax.
A bare version such as 1.3 is a caret range (^1.3).`,
		Example: `  ` + appName + ` org.neo4j.gds:proc
  ` + appName + ` org.neo4j.gds:proc:~1.1:~1.3:1 --include-pre-releases
  ` + appName + ` com.example:lib:2 --resolver https://repo.example.com/maven2 --user alice`,
		Version:           buildinfo.Version,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeCoordinate,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.runCheck(cmd, args[0], flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetGlobalNormalizationFunc(normalizeFlagAliases)

	flags.register(root)

	root.AddCommand(c.serveCommand(&flags.conn))
	root.AddCommand(c.completionCommand())

	return root
}

// flagAliases maps alternative long flag names onto their canonical name.
var flagAliases = map[string]string{
	"repo":     "resolver",
	"username": "user",
	"password": "insecure-password",
}

func normalizeFlagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ToLower(name)
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}
