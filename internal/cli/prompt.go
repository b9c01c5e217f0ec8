package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
)

// =============================================================================
// PasswordModel - masked password input
// =============================================================================

// PasswordModel is the bubbletea model for reading a password without echo.
type PasswordModel struct {
	User      string
	Value     []rune
	Done      bool
	Cancelled bool
}

// NewPasswordModel creates a prompt asking for user's password.
func NewPasswordModel(user string) PasswordModel {
	return PasswordModel{User: user}
}

func (m PasswordModel) Init() tea.Cmd {
	return nil
}

func (m PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.Done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.Value) > 0 {
			m.Value = m.Value[:len(m.Value)-1]
		}
	case tea.KeyCtrlU:
		m.Value = nil
	case tea.KeySpace:
		m.Value = append(m.Value, ' ')
	case tea.KeyRunes:
		m.Value = append(m.Value, key.Runes...)
	}
	return m, nil
}

func (m PasswordModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}
	return promptText(m.User) + StyleDim.Render(strings.Repeat("•", len(m.Value)))
}

// Password returns the entered password.
func (m PasswordModel) Password() string {
	return string(m.Value)
}

func promptText(user string) string {
	return fmt.Sprintf("Enter password for [%s]: ", StyleHighlight.Render(user))
}

// =============================================================================
// Prompting
// =============================================================================

// promptMissingPassword asks for the password when a user but no password
// is configured. On a terminal the input is masked; otherwise one line is
// read from the command's input.
func (c *CLI) promptMissingPassword(cmd *cobra.Command, cfg *connConfig) error {
	if cfg.user == "" || cfg.hasPassword {
		return nil
	}

	var (
		password string
		err      error
	)
	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		password, err = readPasswordTTY(cmd.Context(), f, cmd.ErrOrStderr(), cfg.user)
	} else {
		password, err = readPasswordLine(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	cfg.password = password
	cfg.hasPassword = true
	return nil
}

func readPasswordTTY(ctx context.Context, in *os.File, out io.Writer, user string) (string, error) {
	p := tea.NewProgram(NewPasswordModel(user),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errs.Wrap(errs.ErrCodeInternal, err, "could not read the password")
	}
	m := final.(PasswordModel)
	if m.Cancelled {
		return "", context.Canceled
	}
	return m.Password(), nil
}

func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "could not read the password")
	}
	if err == io.EOF && line == "" {
		return "", errs.New(errs.ErrCodeInvalidInput, "no password given on standard input").
			WithHint("Pipe the password in, or use --insecure-password.")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
