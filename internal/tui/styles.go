package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/model"
)

// Color palette
var (
	// Deadline colors
	ColorOverdue = lipgloss.Color("#FF6B6B") // Red
	ColorUrgent  = lipgloss.Color("#FFB347") // Orange
	ColorSoon    = lipgloss.Color("#FFE66D") // Yellow
	ColorNormal  = lipgloss.Color("#4ECDC4") // Blue
	ColorSafe    = lipgloss.Color("#95E1A3") // Green

	// Course status colors
	ColorActive   = lipgloss.Color("#95E1A3")
	ColorUpcoming = lipgloss.Color("#FFE66D")
	ColorDone     = lipgloss.Color("#6C757D")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Highlight = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	ErrorRed  = lipgloss.Color("#f56565")
	Success   = lipgloss.Color("#48bb78")
	Info      = lipgloss.Color("#667eea")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Pane tabs
	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	// Lists
	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Highlight).
				Bold(true)

	ItemDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	DetailStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			PaddingLeft(6)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(TextMuted).
				Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorRed)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Alert modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorOverdue).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// BucketStyle returns the style for a deadline bucket
func BucketStyle(b model.Bucket) lipgloss.Style {
	switch b {
	case model.BucketOverdue:
		return lipgloss.NewStyle().Foreground(ColorOverdue).Bold(true)
	case model.BucketUrgent:
		return lipgloss.NewStyle().Foreground(ColorUrgent).Bold(true)
	case model.BucketSoon:
		return lipgloss.NewStyle().Foreground(ColorSoon)
	case model.BucketSafe:
		return lipgloss.NewStyle().Foreground(ColorSafe)
	default:
		return lipgloss.NewStyle().Foreground(ColorNormal)
	}
}

// ProgramStyle returns the style for a course status indicator
func ProgramStyle(s model.ProgramStatus) lipgloss.Style {
	switch s {
	case model.ProgramActive:
		return lipgloss.NewStyle().Foreground(ColorActive).Bold(true)
	case model.ProgramUpcoming:
		return lipgloss.NewStyle().Foreground(ColorUpcoming)
	default:
		return lipgloss.NewStyle().Foreground(ColorDone)
	}
}

// NotificationStyle returns the style for a notification severity
func NotificationStyle(s dashboard.Severity) lipgloss.Style {
	switch s {
	case dashboard.SeveritySuccess:
		return lipgloss.NewStyle().Foreground(Success).Bold(true)
	case dashboard.SeverityError:
		return lipgloss.NewStyle().Foreground(ErrorRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Info)
	}
}
