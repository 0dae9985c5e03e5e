package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xab-mack/solpipe/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	sevStyles  = map[model.Severity]lipgloss.Style{
		model.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		model.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		model.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		model.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		model.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	}
)

type modelT struct {
	result *model.RunResult
	paths  []string
}

func initialModel(result *model.RunResult) modelT {
	byPath := result.AllFindings()
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return modelT{result: result, paths: paths}
}

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m modelT) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("%s | %s, %d findings across %d artifacts",
		m.result.PipelineName, m.result.Status, m.result.Summary.TotalFindings, m.result.Summary.ArtifactsAnalyzed)))

	byPath := m.result.AllFindings()
	for _, path := range m.paths {
		fmt.Fprintf(&b, "\n%s\n", pathStyle.Render(path))
		for _, f := range byPath[path] {
			sev := sevStyles[f.Severity].Render(string(f.Severity))
			fmt.Fprintf(&b, "  [%s] %s at %s (%s, conf=%.2f)\n", sev, f.Title, f.Location, f.Source, f.Confidence)
		}
	}
	b.WriteString("\npress q to quit\n")
	return b.String()
}

// Run launches the result browser.
func Run(result *model.RunResult) error {
	p := tea.NewProgram(initialModel(result))
	_, err := p.Run()
	return err
}
