package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Tabs         []string
	ActiveTab    string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
	Overlay      string
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	overlayStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

var priorityStyles = map[string]lipgloss.Style{
	"high":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

var urgencyStyles = map[string]lipgloss.Style{
	"passed":   mutedStyle,
	"critical": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	"near":     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	"far":      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

// PriorityBadge renders a priority as a coloured tag such as "[HIGH]".
func PriorityBadge(priority string) string {
	label := "[" + strings.ToUpper(priority) + "]"
	if style, ok := priorityStyles[strings.ToLower(priority)]; ok {
		return style.Render(label)
	}
	return label
}

func urgencyText(urgency, text string) string {
	if style, ok := urgencyStyles[urgency]; ok {
		return style.Render(text)
	}
	return text
}

func RenderApp(data AppData) string {
	tabs := make([]string, 0, len(data.Tabs))
	for _, t := range data.Tabs {
		if t == data.ActiveTab {
			tabs = append(tabs, activeTabStyle.Render(t))
			continue
		}
		tabs = append(tabs, tabStyle.Render(t))
	}

	left := panelStyle.Width(62).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(50).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		row,
	}
	if data.Overlay != "" {
		lines = append(lines, overlayStyle.Render(data.Overlay))
	}
	lines = append(lines, status)
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
