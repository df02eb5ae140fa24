package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/scenario"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - groups
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

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleGroup     = lipgloss.NewStyle().Foreground(colorBlue)
	styleHighlight = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSkipped = "·"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Canvas Output
// =============================================================================

// printStats prints canvas statistics on a single line.
func printStats(nodes []canvas.Node, edges, version int) {
	groups := len(canvas.Groups(nodes))
	members := 0
	for _, n := range nodes {
		if n.IsMember() {
			members++
		}
	}
	parts := []string{
		fmt.Sprintf("%d nodes", len(nodes)),
		fmt.Sprintf("%d groups", groups),
		fmt.Sprintf("%d members", members),
		fmt.Sprintf("%d edges", edges),
		fmt.Sprintf("v%d", version),
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// stepLine formats one replayed event: index, outcome icon, event and
// either the created id or the no-op reason.
func stepLine(s scenario.Step) string {
	icon := styleIconSuccess.Render(iconSuccess)
	detail := ""
	switch {
	case s.Skipped():
		icon = StyleDim.Render(iconSkipped)
		detail = StyleDim.Render("no-op: " + s.Err.Error())
	case s.Created != "":
		detail = StyleDim.Render(iconArrow) + " " + StyleValue.Render(s.Created)
	}
	line := fmt.Sprintf("%3d %s %s", s.Index+1, icon, s.Event.String())
	if detail != "" {
		line += "  " + detail
	}
	return line
}

// nodeTable renders nodes in render order as a bordered table.
func nodeTable(nodes []canvas.Node) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		size := "-"
		if n.HasSize() {
			size = fmt.Sprintf("%gx%g", n.Size.Width, n.Size.Height)
		}
		parent := "-"
		if n.IsMember() {
			parent = n.ParentID
		}
		rows = append(rows, []string{n.ID, n.Kind.String(), formatPoint(n.Position), size, parent})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Kind", "Position", "Size", "Parent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(nodes) {
				return lipgloss.NewStyle()
			}
			n := nodes[row]
			switch {
			case n.Highlight != canvas.HighlightNone:
				return styleHighlight
			case n.IsGroup():
				return styleGroup
			case n.IsMember():
				return StyleValue
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}
