package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/workflow"
)

func (m *model) View() string {
	cb := &contentBuilder{}
	anchors := map[workflow.Panel]int{}

	cb.WriteBlock(m.heroView())
	anchors[workflow.PanelUpload] = cb.Line()
	cb.WriteBlock(m.uploadPanel())
	if m.state.Visible(workflow.PanelFileInfo) {
		anchors[workflow.PanelFileInfo] = cb.Line()
		cb.WriteBlock(m.fileInfoPanel())
	}
	if m.state.Visible(workflow.PanelGeneration) {
		anchors[workflow.PanelGeneration] = cb.Line()
		cb.WriteBlock(m.generationPanel())
	}
	if m.state.Visible(workflow.PanelResults) {
		anchors[workflow.PanelResults] = cb.Line()
		cb.WriteBlock(m.resultsPanel())
	}
	if m.state.Error.Visible {
		cb.WriteBlock(errorBoxStyle.Render(m.state.Error.Message))
	}
	if m.infoMessage != "" && !m.downloading {
		cb.WriteBlock(helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		cb.WriteBlock(m.helpView())
	}
	cb.WriteString(m.statusBar())

	content := cb.String()
	anchor := 0
	if m.scrollTarget != "" {
		anchor = anchors[m.scrollTarget]
	}
	return fitToWindow(content, anchor, m.layout.windowHeight)
}

func (m *model) heroView() string {
	shadow := titleShadowStyle.Render(strings.Repeat("▀", lipgloss.Width(titleStyle.Render("StudyForge"))))
	title := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("StudyForge"), shadow)
	return lipgloss.JoinVertical(lipgloss.Left, title, taglineStyle.Render(heroTagline), m.healthLine())
}

func (m *model) healthLine() string {
	switch {
	case !m.healthChecked:
		return helperStyle.Render("Backend: checking " + m.config.BaseURL)
	case m.health == nil:
		return healthBadStyle.Render("Backend: unreachable at " + m.config.BaseURL)
	default:
		line := fmt.Sprintf("Backend: %s", m.health.Status)
		if m.health.Version != "" {
			line += " v" + m.health.Version
		}
		return healthOKStyle.Render(line)
	}
}

func (m *model) uploadPanel() string {
	lines := []string{sectionHeaderStyle.Render("Upload")}
	switch {
	case m.state.Stage == workflow.StageUploading:
		name := ""
		if file := m.state.Uploading; file != nil {
			name = " " + file.Name
			if file.Pages > 0 {
				name += fmt.Sprintf(" (%d pages)", file.Pages)
			}
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", m.spinner.View(), m.state.Loading, name))
	case m.downloading:
		lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage))
	case m.prompt != promptNone:
		label := "Browse for a PDF"
		if m.prompt == promptDrop {
			label = "Drop a PDF"
		}
		lines = append(lines, labelStyle.Render(label), m.pathInput.View(), helperStyle.Render("Enter to upload, Esc to cancel."))
	default:
		lines = append(lines, helperStyle.Render(idleHint))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) fileInfoPanel() string {
	info := m.state.FileInfo
	lines := []string{
		sectionHeaderStyle.Render("Document"),
		labelStyle.Render("Name: ") + info.Name,
		labelStyle.Render("Pages: ") + fmt.Sprint(info.PageCount),
		labelStyle.Render("Size: ") + info.Size,
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) generationPanel() string {
	lines := []string{sectionHeaderStyle.Render("Generate Summary")}
	if m.state.Stage == workflow.StageGenerating {
		lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), m.state.Loading))
		return panelStyle.Render(strings.Join(lines, "\n"))
	}
	start := m.fieldView(fieldStart, "Start page", m.startInput.View())
	end := m.fieldView(fieldEnd, "End page", m.endInput.View()) +
		helperStyle.Render(fmt.Sprintf(" (max %d)", m.state.Form.PageEndMax))
	lines = append(lines, start, end, m.fieldView(fieldLevel, "Level", m.levelView()))
	if m.state.FormVisible() {
		lines = append(lines, helperStyle.Render("Tab: next field • ←/→: level • Enter: generate"))
	} else {
		lines = append(lines, helperStyle.Render(busyHint))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) fieldView(field formField, label, value string) string {
	style := blurredFieldStyle
	if m.focus == field && m.state.FormVisible() {
		style = focusedFieldStyle
	}
	return style.Render(label) + " " + value
}

func (m *model) levelView() string {
	parts := make([]string, 0, len(studyapi.AcademicLevels))
	for idx, level := range studyapi.AcademicLevels {
		name := workflow.FormatAcademicLevel(level)
		if idx == m.levelIdx {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "  ")
}

func (m *model) resultsPanel() string {
	results := m.state.Results
	lines := []string{
		sectionHeaderStyle.Render("Summary"),
		labelStyle.Render("Pages: ") + results.Pages,
		labelStyle.Render("Level: ") + results.Level,
		labelStyle.Render("Time: ") + results.Time,
		"",
		m.viewport.View(),
		"",
		helperStyle.Render("n: generate another • s: save to history • ↑/↓: scroll"),
	}
	return resultsPanelStyle.Render(strings.Join(lines, "\n"))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) helpView() string {
	hints := []keyHint{
		{"b/o", "Browse for a PDF"},
		{"d", "Drop a PDF path"},
		{"tab", "Next form field"},
		{"←/→", "Academic level"},
		{"enter", "Upload or generate"},
		{"n", "Generate another"},
		{"s", "Save summary"},
		{"x", "Dismiss error"},
		{"h", "Check backend"},
		{"?", "Toggle help"},
		{"q/ctrl+c", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(hint.Key), keyDescStyle.Render(" "+hint.Description+"  ")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return helpBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) statusBar() string {
	stats := []string{fmt.Sprintf("Stage %s", m.state.Stage)}
	if m.state.Document != nil {
		stats = append(stats, fmt.Sprintf("Document %s", m.state.Document.ID))
	}
	if m.lastJob != nil {
		stats = append(stats, m.lastJob.badge())
	}
	stats = append(stats, "? help")
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}
