package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/locvowork/taskboard/internal/domain"
)

// Theme represents a color scheme for the board.
type Theme struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Primary       lipgloss.Color
	Success       lipgloss.Color
	Error         lipgloss.Color
	Border        lipgloss.Color
	Selection     lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Primary:       lipgloss.Color("#7aa2f7"),
	Success:       lipgloss.Color("#9ece6a"),
	Error:         lipgloss.Color("#f7768e"),
	Border:        lipgloss.Color("#3b4261"),
	Selection:     lipgloss.Color("#33467c"),
}

// MaxWidth is the maximum content width (classic terminal width)
const MaxWidth = 80

// ContentWidth returns min(terminal width, MaxWidth), or MaxWidth before the first resize.
func ContentWidth(terminalWidth int) int {
	if terminalWidth <= 0 || terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// Styles holds the pre-computed styles of the board.
type Styles struct {
	Title        lipgloss.Style
	Muted        lipgloss.Style
	Selected     lipgloss.Style
	Task         lipgloss.Style
	TaskDone     lipgloss.Style
	Expired      lipgloss.Style
	Footer       lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	FieldError   lipgloss.Style
	Toast        lipgloss.Style
	ToastError   lipgloss.Style
	ToastTitle   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Muted:        lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Selected:     lipgloss.NewStyle().Background(t.Selection).Foreground(t.Foreground),
		Task:         lipgloss.NewStyle().Foreground(t.Foreground),
		TaskDone:     lipgloss.NewStyle().Foreground(t.ForegroundDim).Strikethrough(true),
		Expired:      lipgloss.NewStyle().Foreground(t.Error),
		Footer:       lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Modal:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		Input:        lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1),
		InputFocused: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Primary).Padding(0, 1),
		FieldError:   lipgloss.NewStyle().Foreground(t.Error),
		Toast:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Success).Padding(0, 1),
		ToastError:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Error).Foreground(t.Error).Padding(0, 1),
		ToastTitle:   lipgloss.NewStyle().Bold(true),
	}
}

// CardHeader renders a collection name on the first stop of its color gradient.
func CardHeader(c domain.CollectionColor, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(c.Gradient().From)).
		Width(width).
		Padding(0, 1)
}

// Swatch renders a small block in the collection color.
func Swatch(c domain.CollectionColor) string {
	g := c.Gradient()
	return lipgloss.NewStyle().Background(lipgloss.Color(g.From)).Render("  ") +
		lipgloss.NewStyle().Background(lipgloss.Color(g.To)).Render("  ")
}
