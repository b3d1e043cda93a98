package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"

	"github.com/csheth/studyforge/internal/history"
	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/workflow"
)

// API is the backend surface the TUI needs.
type API interface {
	workflow.Backend
	HealthCheck(ctx context.Context) *studyapi.Health
}

// Downloader fetches a PDF given by URL to a local path.
type Downloader interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	API         API
	Downloader  Downloader
	BaseURL     string
	HistoryPath string
	Logger      logrus.FieldLogger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	pathInput := textinput.New()
	pathInput.Placeholder = browsePlaceholder
	pathInput.CharLimit = 1024
	pathInput.Width = 70

	startInput := textinput.New()
	startInput.CharLimit = 6
	startInput.Width = 8

	endInput := textinput.New()
	endInput.CharLimit = 6
	endInput.Width = 8

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	m := &model{
		config:      config,
		log:         logger,
		state:       workflow.NewState(),
		pathInput:   pathInput,
		startInput:  startInput,
		endInput:    endInput,
		spinner:     spin,
		viewport:    vp,
		layout:      layout,
		jobs:        newJobBus(logger),
		infoMessage: idleHint,
	}
	m.syncForm()
	return m
}

type model struct {
	config Config
	log    logrus.FieldLogger
	state  workflow.State

	prompt     promptMode
	pathInput  textinput.Model
	startInput textinput.Model
	endInput   textinput.Model
	levelIdx   int
	focus      formField

	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout
	jobs     *jobBus
	lastJob  *jobSnapshot

	downloading bool

	health        *studyapi.Health
	healthChecked bool
	infoMessage   string
	helpVisible   bool
	scrollTarget  workflow.Panel
}

func (m *model) Init() tea.Cmd {
	return m.healthCmd()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.refreshResults()
		return m, nil
	case tea.MouseMsg:
		if m.state.Visible(workflow.PanelResults) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case spinner.TickMsg:
		if m.state.Busy() || m.downloading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		return m, nil
	case jobResultEnvelope:
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case uploadResultMsg:
		if msg.err != nil {
			return m, m.apply(workflow.UploadFailed{Err: msg.err})
		}
		return m, m.apply(workflow.UploadSucceeded{Document: *msg.doc})
	case generateResultMsg:
		if msg.err != nil {
			return m, m.apply(workflow.GenerateFailed{Err: msg.err})
		}
		return m, m.apply(workflow.GenerateSucceeded{Request: msg.request, Result: *msg.result})
	case downloadResultMsg:
		m.downloading = false
		if msg.err != nil {
			return m, m.apply(workflow.ErrorRaised{Message: "Download failed: " + msg.err.Error()})
		}
		return m, m.selectPath(msg.path, msg.source)
	case healthResultMsg:
		m.health = msg.health
		m.healthChecked = true
		return m, nil
	case saveResultMsg:
		if msg.err != nil {
			return m, m.apply(workflow.ErrorRaised{Message: "Save failed: " + msg.err.Error()})
		}
		m.infoMessage = fmt.Sprintf("Saved summary to %s", msg.path)
		return m, nil
	case errorExpiredMsg:
		return m, m.apply(workflow.ErrorExpired{Seq: msg.seq})
	}
	return m, nil
}

// apply runs one workflow transition and turns its effects into commands.
func (m *model) apply(ev workflow.Event) tea.Cmd {
	prev := m.state
	next, effects := workflow.Transition(prev, ev)
	m.state = next

	if prev.Stage != next.Stage {
		m.log.WithFields(logrus.Fields{"from": prev.Stage.String(), "to": next.Stage.String()}).Debug("workflow stage changed")
	}
	if _, ok := ev.(workflow.UploadSucceeded); ok && next.Stage == workflow.StageReadyToGenerate {
		m.syncForm()
		m.infoMessage = fmt.Sprintf("Uploaded %s. Choose pages and press Enter to generate.", next.FileInfo.Name)
	}
	if prev.Results != next.Results {
		m.refreshResults()
	}

	cmds := make([]tea.Cmd, 0, len(effects)+1)
	for _, effect := range effects {
		if cmd := m.perform(effect); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if next.Busy() && !prev.Busy() {
		cmds = append(cmds, m.spinner.Tick)
	}
	return batch(cmds)
}

func (m *model) perform(effect workflow.Effect) tea.Cmd {
	switch eff := effect.(type) {
	case workflow.StartUpload:
		return m.jobs.Start(jobKindUpload, uploadJob(m.config.API, eff.File))
	case workflow.StartGenerate:
		return m.jobs.Start(jobKindGenerate, generateJob(m.config.API, eff.Request))
	case workflow.ScheduleDismiss:
		seq := eff.Seq
		return tea.Tick(eff.After, func(time.Time) tea.Msg {
			return errorExpiredMsg{seq: seq}
		})
	case workflow.ScrollTo:
		m.scrollTarget = eff.Panel
		switch eff.Panel {
		case workflow.PanelResults:
			m.viewport.GotoTop()
		case workflow.PanelGeneration:
			return m.focusField(fieldStart)
		}
		return nil
	default:
		return nil
	}
}

func (m *model) healthCmd() tea.Cmd {
	return m.jobs.Start(jobKindHealth, healthJob(m.config.API))
}

func (m *model) saveResults() tea.Cmd {
	results := m.state.Results
	if results == nil || m.state.Document == nil {
		m.infoMessage = "Nothing to save yet."
		return nil
	}
	if m.config.HistoryPath == "" {
		return m.apply(workflow.ErrorRaised{Message: "Save failed: no history file configured"})
	}
	entry := history.NewEntry(*m.state.Document, results.Request, results.Result)
	return m.jobs.Start(jobKindSave, saveJob(m.config.HistoryPath, entry))
}

// syncForm copies the workflow form values into the inputs.
func (m *model) syncForm() {
	form := m.state.Form
	m.startInput.SetValue(strconv.Itoa(form.PageStart))
	m.endInput.SetValue(strconv.Itoa(form.PageEnd))
	m.levelIdx = 0
	for idx, level := range studyapi.AcademicLevels {
		if level == form.AcademicLevel {
			m.levelIdx = idx
			break
		}
	}
	m.focusField(fieldStart)
}

// readForm parses the inputs. Non-numeric page fields read as zero, which the
// range check rejects.
func (m *model) readForm() (int, int, string) {
	start, err := strconv.Atoi(m.startInput.Value())
	if err != nil {
		start = 0
	}
	end, err := strconv.Atoi(m.endInput.Value())
	if err != nil {
		end = 0
	}
	return start, end, studyapi.AcademicLevels[m.levelIdx]
}

func (m *model) focusField(field formField) tea.Cmd {
	m.focus = field
	m.startInput.Blur()
	m.endInput.Blur()
	switch field {
	case fieldStart:
		return m.startInput.Focus()
	case fieldEnd:
		return m.endInput.Focus()
	default:
		return nil
	}
}

func (m *model) refreshResults() {
	if m.state.Results == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(wordwrap.String(m.state.Results.Summary, m.layout.wrapWidth()))
}

func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}
