package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
)

func typeKeys(m PasswordModel, msgs ...tea.Msg) (PasswordModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(PasswordModel)
	}
	return m, cmd
}

func TestPasswordModel(t *testing.T) {
	m, cmd := typeKeys(NewPasswordModel("alice"),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s3")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cret")},
	)
	if cmd != nil {
		t.Error("typing should not quit")
	}
	if m.Password() != "s3 cret" {
		t.Errorf("Password() = %q, want %q", m.Password(), "s3 cret")
	}
	if view := m.View(); strings.Contains(view, "s3") || !strings.Contains(view, "alice") {
		t.Errorf("View() = %q leaks the password or misses the user", view)
	}

	m, cmd = typeKeys(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Done || cmd == nil {
		t.Error("enter should finish the prompt")
	}
	if m.View() != "" {
		t.Errorf("View() after enter = %q, want empty", m.View())
	}
}

func TestPasswordModelCancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m, cmd := typeKeys(NewPasswordModel("alice"), tea.KeyMsg{Type: key})
		if !m.Cancelled || cmd == nil {
			t.Errorf("%v should cancel the prompt", key)
		}
	}
}

func TestPasswordModelClear(t *testing.T) {
	m, _ := typeKeys(NewPasswordModel("alice"),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("oops")},
		tea.KeyMsg{Type: tea.KeyCtrlU},
	)
	if m.Password() != "" {
		t.Errorf("Password() = %q after ctrl+u", m.Password())
	}
}

func TestReadPasswordLine(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"s3cret\n", "s3cret", false},
		{"s3cret\r\n", "s3cret", false},
		{"s3cret", "s3cret", false},
		{"\n", "", false},
		{"first\nsecond\n", "first", false},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := readPasswordLine(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readPasswordLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readPasswordLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPromptMissingPassword(t *testing.T) {
	c, _ := newTestCLI(nil)
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetErr(&bytes.Buffer{})

	skipped := connConfig{}
	if err := c.promptMissingPassword(cmd, &skipped); err != nil || skipped.hasPassword {
		t.Errorf("no user: err = %v, hasPassword = %v", err, skipped.hasPassword)
	}

	given := connConfig{user: "alice", password: "given", hasPassword: true}
	if err := c.promptMissingPassword(cmd, &given); err != nil || given.password != "given" {
		t.Errorf("given password: err = %v, password = %q", err, given.password)
	}

	prompted := connConfig{user: "alice"}
	if err := c.promptMissingPassword(cmd, &prompted); err != nil {
		t.Fatalf("promptMissingPassword() error: %v", err)
	}
	if prompted.password != "s3cret" || !prompted.hasPassword {
		t.Errorf("prompted = %+v", prompted)
	}

	empty := &cobra.Command{}
	empty.SetIn(strings.NewReader(""))
	if err := c.promptMissingPassword(empty, &connConfig{user: "alice"}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty stdin: err = %v, want INVALID_INPUT", err)
	}
}
