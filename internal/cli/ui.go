package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/render"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, forced steps
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleForced      = lipgloss.NewStyle().Foreground(colorRed)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printStats prints scene statistics on a single dim line.
func printStats(elements, constraints, diagnostics int) {
	parts := []string{
		fmt.Sprintf("%d elements", elements),
		fmt.Sprintf("%d constraints", constraints),
	}
	if diagnostics > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d diagnostics", diagnostics)))
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// printDiagnostics prints one warning line per diagnostic.
func printDiagnostics(diags []engine.Diagnostic) {
	for _, d := range diags {
		printWarning("%s", d)
	}
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Tables
// =============================================================================

// geometryTable renders element boxes in native and physical units.
func geometryTable(blocks []render.Block) string {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []string{
			b.ID,
			b.Kind,
			fmt.Sprintf("%.3g..%.3g", b.Box.X0, b.Box.X1),
			fmt.Sprintf("%.3g..%.3g", b.Box.Y0, b.Box.Y1),
			fmt.Sprintf("%.1f..%.1f", b.Rect.Left, b.Rect.Right),
			fmt.Sprintf("%.1f..%.1f", b.Rect.Bottom, b.Rect.Top),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Element", "Kind", "x (native)", "y (native)", "x (pt)", "y (pt)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col >= 4 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// orderTable renders constraints in evaluation order; cycle-breaking steps
// are highlighted.
func orderTable(cs []render.Constraint) string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		mark := ""
		if c.Forced {
			mark = "forced"
		}
		rows = append(rows, []string{fmt.Sprint(c.Step + 1), fmt.Sprint(c.ID), c.Expr, c.Description, mark})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Step", "ID", "Constraint", "Description", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row >= 0 && row < len(cs) && cs[row].Forced {
				return styleForced
			}
			if col == 0 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// writeTable writes a rendered table followed by a newline.
func writeTable(w io.Writer, t string) {
	fmt.Fprintln(w, t)
}
