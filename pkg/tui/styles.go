package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/stratlife/pkg/store"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorOrange      = lipgloss.Color("#D19A66")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorPurple).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)
)

// List item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InProgressStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	IncompleteStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	CancelledStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Strikethrough(true)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	DueStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Dashboard styles
var (
	BarFillStyle = lipgloss.NewStyle().
			Foreground(ColorPurple)

	BarEmptyStyle = lipgloss.NewStyle().
			Foreground(ColorGrayDim)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(14)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	AdviceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Foreground(ColorOffWhite).
			Padding(0, 1)
)

// Calendar styles
var (
	CalendarHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorGray).
				Width(6).
				Align(lipgloss.Center)

	CalendarDayStyle = lipgloss.NewStyle().
				Width(6).
				Align(lipgloss.Center)

	CalendarBusyStyle = lipgloss.NewStyle().
				Width(6).
				Align(lipgloss.Center).
				Bold(true).
				Foreground(ColorOrange)

	CalendarTodayStyle = lipgloss.NewStyle().
				Width(6).
				Align(lipgloss.Center).
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorPurple)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Status icons
const (
	IconComplete   = "✓"
	IconInProgress = "◐"
	IconIncomplete = "○"
	IconCancelled  = "✗"
)

// statusIcon renders the icon for a goal's status.
func statusIcon(s store.GoalStatus) string {
	switch s {
	case store.StatusCompleted:
		return CompleteStyle.Render(IconComplete)
	case store.StatusInProgress:
		return InProgressStyle.Render(IconInProgress)
	case store.StatusCancelled:
		return CancelledStyle.Render(IconCancelled)
	default:
		return IncompleteStyle.Render(IconIncomplete)
	}
}
