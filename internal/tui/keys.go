package tui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/remotepdf"
	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/workflow"
)

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}
	if isDrop(msg) {
		return m.selectPath(string(msg.Runes), workflow.SourceDrop)
	}

	switch msg.String() {
	case "esc", "q":
		return tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		return nil
	case "x":
		return m.apply(workflow.ErrorDismissed{})
	case "h":
		m.healthChecked = false
		return m.healthCmd()
	case "b", "o":
		return m.openPrompt(promptBrowse)
	case "d":
		return m.openPrompt(promptDrop)
	case "n":
		if m.state.Stage == workflow.StageShowingResults {
			return m.apply(workflow.GenerateAnother{})
		}
		return nil
	case "s":
		return m.saveResults()
	}

	if m.state.Visible(workflow.PanelResults) {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if m.state.Stage == workflow.StageIdle && msg.Type == tea.KeyEnter {
		return m.submitForm()
	}
	if !m.state.FormVisible() {
		return nil
	}
	return m.handleFormKey(msg)
}

func (m *model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		m.infoMessage = idleHint
		return nil
	case tea.KeyEnter:
		source := workflow.SourceBrowse
		if m.prompt == promptDrop {
			source = workflow.SourceDrop
		}
		raw := m.pathInput.Value()
		m.closePrompt()
		return m.selectPath(raw, source)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return cmd
}

func (m *model) openPrompt(mode promptMode) tea.Cmd {
	if m.state.Busy() || m.downloading {
		m.infoMessage = busyHint
		return nil
	}
	m.prompt = mode
	m.pathInput.Reset()
	m.pathInput.Placeholder = browsePlaceholder
	if mode == promptDrop {
		m.pathInput.Placeholder = dropPlaceholder
	}
	m.startInput.Blur()
	m.endInput.Blur()
	m.scrollTarget = workflow.PanelUpload
	return m.pathInput.Focus()
}

func (m *model) closePrompt() {
	m.prompt = promptNone
	m.pathInput.Blur()
	m.pathInput.Reset()
	if m.state.FormVisible() {
		m.focusField(m.focus)
	}
}

// selectPath inspects a local file and hands it to the workflow. Validation of
// type and size happens in the workflow so browse and drop share the rules.
func (m *model) selectPath(raw string, source workflow.Source) tea.Cmd {
	if m.state.Busy() || m.downloading {
		m.infoMessage = busyHint
		return nil
	}
	if remotepdf.IsURL(raw) {
		m.downloading = true
		m.infoMessage = "Downloading " + strings.TrimSpace(raw)
		return batch([]tea.Cmd{m.jobs.Start(jobKindDownload, downloadJob(m.config.Downloader, strings.TrimSpace(raw), source)), m.spinner.Tick})
	}
	path := pdfinfo.CleanPath(raw)
	if path == "" {
		m.infoMessage = idleHint
		return nil
	}
	file, err := pdfinfo.Inspect(path)
	if err != nil {
		m.log.WithError(err).WithField("path", path).Warn("inspect file")
		return m.apply(workflow.ErrorRaised{Message: "Cannot read file: " + err.Error()})
	}
	m.infoMessage = ""
	return m.apply(workflow.FileSelected{File: file, Source: source})
}

func (m *model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitForm()
	case tea.KeyTab, tea.KeyDown:
		return m.focusField(m.nextField(1))
	case tea.KeyShiftTab, tea.KeyUp:
		return m.focusField(m.nextField(-1))
	case tea.KeyLeft, tea.KeyRight:
		if m.focus == fieldLevel {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = -1
			}
			count := len(studyapi.AcademicLevels)
			m.levelIdx = (m.levelIdx + step + count) % count
			return nil
		}
	case tea.KeyRunes:
		if !digitsOnly(msg.Runes) {
			return nil
		}
	}
	if m.focus == fieldLevel {
		return nil
	}
	var cmd tea.Cmd
	if m.focus == fieldStart {
		m.startInput, cmd = m.startInput.Update(msg)
	} else {
		m.endInput, cmd = m.endInput.Update(msg)
	}
	return cmd
}

func (m *model) nextField(step int) formField {
	idx := 0
	for i, field := range formFields {
		if field == m.focus {
			idx = i
			break
		}
	}
	count := len(formFields)
	return formFields[(idx+step+count)%count]
}

func (m *model) submitForm() tea.Cmd {
	start, end, level := m.readForm()
	return m.apply(workflow.GenerateSubmitted{PageStart: start, PageEnd: end, AcademicLevel: level})
}

// isDrop reports whether msg looks like a file dropped onto the terminal.
// Terminals type the dropped path in one write, which arrives as a single
// burst of runes rather than one key at a time. Digit bursts stay with the
// page fields.
func isDrop(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 1 && !digitsOnly(msg.Runes)
}

func digitsOnly(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	return strings.IndexFunc(string(runes), func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
