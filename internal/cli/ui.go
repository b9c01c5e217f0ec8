package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan = lipgloss.Color("36")  // Teal - primary actions
	colorRed  = lipgloss.Color("167") // Soft red - errors
	colorDim  = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const iconError = "✗"

// =============================================================================
// Error Output
// =============================================================================

// PrintError writes err for a human: the message of a coded error without
// its code, followed by its hint on a dimmed line.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errs.UserMessage(err))
	if hint := errs.HintOf(err); hint != "" {
		fmt.Fprintln(w, "  "+StyleDim.Render(hint))
	}
}
