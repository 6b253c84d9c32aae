package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Palette is one set of theme colors.
type Palette struct {
	Primary       lipgloss.Color
	Up            lipgloss.Color
	Down          lipgloss.Color
	Accent        lipgloss.Color
	Background    lipgloss.Color
	Border        lipgloss.Color
	FocusBorder   lipgloss.Color
	Selected      lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
}

var (
	// LightPalette is the default theme.
	LightPalette = Palette{
		Primary:       lipgloss.Color("#6D28D9"), // Purple
		Up:            lipgloss.Color("#059669"), // Green
		Down:          lipgloss.Color("#DC2626"), // Red
		Accent:        lipgloss.Color("#D97706"), // Amber
		Background:    lipgloss.Color("#F3F4F6"),
		Border:        lipgloss.Color("#D1D5DB"),
		FocusBorder:   lipgloss.Color("#6D28D9"),
		Selected:      lipgloss.Color("#E5E7EB"),
		Text:          lipgloss.Color("#111827"),
		TextSecondary: lipgloss.Color("#4B5563"),
		TextMuted:     lipgloss.Color("#6B7280"),
	}

	// DarkPalette is toggled with the dark-mode key.
	DarkPalette = Palette{
		Primary:       lipgloss.Color("#7C3AED"), // Purple
		Up:            lipgloss.Color("#10B981"), // Green
		Down:          lipgloss.Color("#EF4444"), // Red
		Accent:        lipgloss.Color("#F59E0B"), // Amber
		Background:    lipgloss.Color("#1F2937"),
		Border:        lipgloss.Color("#374151"),
		FocusBorder:   lipgloss.Color("#7C3AED"),
		Selected:      lipgloss.Color("#374151"),
		Text:          lipgloss.Color("#F9FAFB"),
		TextSecondary: lipgloss.Color("#9CA3AF"),
		TextMuted:     lipgloss.Color("#6B7280"),
	}
)

// Color palette
var (
	PrimaryColor       lipgloss.Color
	UpColor            lipgloss.Color
	DownColor          lipgloss.Color
	AccentColor        lipgloss.Color
	BackgroundColor    lipgloss.Color
	BorderColor        lipgloss.Color
	FocusBorderColor   lipgloss.Color
	TextColor          lipgloss.Color
	TextSecondaryColor lipgloss.Color
	TextMutedColor     lipgloss.Color
)

// Panel styles
var (
	PanelStyle        lipgloss.Style
	FocusedPanelStyle lipgloss.Style
	TitleStyle        lipgloss.Style
	HeaderStyle       lipgloss.Style
	RowStyle          lipgloss.Style
	SelectedRowStyle  lipgloss.Style
)

// Text styles
var (
	NameStyle      lipgloss.Style
	SymbolStyle    lipgloss.Style
	PriceStyle     lipgloss.Style
	PriceUpStyle   lipgloss.Style
	PriceDownStyle lipgloss.Style
	LabelStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	TimeStyle      lipgloss.Style
	LinkStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
)

// Input styles
var (
	InputStyle        lipgloss.Style
	FocusedInputStyle lipgloss.Style
	PlaceholderStyle  lipgloss.Style
)

// Chart styles
var (
	ChartAxisStyle      lipgloss.Style
	ChartLabelStyle     lipgloss.Style
	ChartCursorStyle    lipgloss.Style
	PeriodButtonStyle   lipgloss.Style
	PeriodSelectedStyle lipgloss.Style
	ChartTooltipStyle   lipgloss.Style
)

// Status bar styles
var (
	StatusBarStyle     lipgloss.Style
	StatusBarKeyStyle  lipgloss.Style
	StatusBarDescStyle lipgloss.Style
)

var dark bool

func init() {
	Apply(LightPalette)
}

// SetDarkMode switches every style to the dark or light palette.
func SetDarkMode(on bool) {
	dark = on
	if on {
		Apply(DarkPalette)
		return
	}
	Apply(LightPalette)
}

// DarkMode reports whether the dark palette is active.
func DarkMode() bool {
	return dark
}

// Apply rebuilds the package styles from p.
func Apply(p Palette) {
	PrimaryColor = p.Primary
	UpColor = p.Up
	DownColor = p.Down
	AccentColor = p.Accent
	BackgroundColor = p.Background
	BorderColor = p.Border
	FocusBorderColor = p.FocusBorder
	TextColor = p.Text
	TextSecondaryColor = p.TextSecondary
	TextMutedColor = p.TextMuted

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(FocusBorderColor).
		Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(p.Selected)

	NameStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor)

	SymbolStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor)

	PriceStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor)

	PriceUpStyle = lipgloss.NewStyle().
		Foreground(UpColor)

	PriceDownStyle = lipgloss.NewStyle().
		Foreground(DownColor)

	LabelStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor)

	MutedStyle = lipgloss.NewStyle().
		Foreground(TextMutedColor)

	TimeStyle = lipgloss.NewStyle().
		Foreground(TextMutedColor)

	LinkStyle = lipgloss.NewStyle().
		Underline(true).
		Foreground(PrimaryColor)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(DownColor)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(FocusBorderColor).
		Padding(0, 1)

	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(TextMutedColor)

	ChartAxisStyle = lipgloss.NewStyle().
		Foreground(TextMutedColor)

	ChartLabelStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor)

	ChartCursorStyle = lipgloss.NewStyle().
		Foreground(AccentColor)

	PeriodButtonStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	PeriodSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Background).
		Background(PrimaryColor).
		Padding(0, 1)

	ChartTooltipStyle = lipgloss.NewStyle().
		Foreground(AccentColor)

	StatusBarStyle = lipgloss.NewStyle().
		Background(BackgroundColor).
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor)
}

// Helper function to render a title bar for a panel
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// ChangeStyle colors a change by sign. Zero counts as a gain.
func ChangeStyle(positive bool) lipgloss.Style {
	if positive {
		return PriceUpStyle
	}
	return PriceDownStyle
}

// Hyperlink wraps text in an OSC 8 terminal hyperlink to url. Terminals
// without hyperlink support show the text only.
func Hyperlink(url, text string) string {
	if url == "" {
		return text
	}
	return ansi.SetHyperlink(url) + LinkStyle.Render(text) + ansi.ResetHyperlink()
}
