package panels

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksuggester/tui/styles"
)

// HeaderPanel is the top bar: app title, busy spinner and theme indicator.
type HeaderPanel struct {
	spinner  spinner.Model
	loading  bool
	darkMode bool
	width    int
}

// NewHeaderPanel creates a new header.
func NewHeaderPanel() *HeaderPanel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &HeaderPanel{spinner: s}
}

// Init initializes the panel.
func (p *HeaderPanel) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while loading.
func (p *HeaderPanel) Update(msg tea.Msg) (*HeaderPanel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || !p.loading {
		return p, nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *HeaderPanel) View() string {
	left := styles.TitleStyle.Render("📈 Stock Suggester")
	if p.loading {
		p.spinner.Style = styles.MutedStyle
		left += " " + p.spinner.View() + styles.MutedStyle.Render(" Loading...")
	}

	mode := "☀ Light"
	if p.darkMode {
		mode = "☾ Dark"
	}
	right := styles.LabelStyle.Render(mode)

	gap := max(p.width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
}

// SetLoading starts or stops the spinner. It returns the first tick when the
// spinner starts.
func (p *HeaderPanel) SetLoading(loading bool) tea.Cmd {
	start := loading && !p.loading
	p.loading = loading
	if start {
		return p.spinner.Tick
	}
	return nil
}

// Loading reports whether the spinner is running.
func (p *HeaderPanel) Loading() bool {
	return p.loading
}

// SetDarkMode sets the theme indicator.
func (p *HeaderPanel) SetDarkMode(dark bool) {
	p.darkMode = dark
}

// SetSize sets the panel width.
func (p *HeaderPanel) SetSize(width, _ int) {
	p.width = width
}
