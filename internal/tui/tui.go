// Package tui provides a Bubble Tea terminal user interface for ibb-album.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/ibb-album/internal/album"
	"github.com/handiism/ibb-album/internal/config"
	"github.com/handiism/ibb-album/internal/download"
	"github.com/handiism/ibb-album/internal/gallery"
	"github.com/handiism/ibb-album/internal/http"
)

// defaultOutputPath is used by the save action when no output path is
// configured.
const defaultOutputPath = "gallery.json"

// maxListed caps the number of links shown in the results view.
const maxListed = 10

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateExtracting
	StateResults
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	albumURL  string
	links     []string
	savedPath string
	err       error

	// Extraction and download context. run identifies the current
	// background job; results of older jobs are dropped.
	ctx    context.Context
	cancel context.CancelFunc
	run    int

	// Download manager reference
	manager *download.Manager
	events  chan download.ProgressEvent
	failed  int

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	totalBytes      int64
	receivedBytes   int64

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings means defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://ibb.co/album/Jw0Rgd"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ExtractDoneMsg is sent when the album page has been scanned.
	ExtractDoneMsg struct {
		Run   int
		Links []string
		Err   error
	}

	// SaveDoneMsg is sent when the gallery file has been written.
	SaveDoneMsg struct {
		Run  int
		Path string
		Err  error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Run      int
		Received int64
		Total    int64
		Files    int32
		TotalF   int32
		Failed   int
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Links returns the extracted links.
func (m Model) Links() []string {
	return m.links
}

// Err returns the error shown in the error view.
func (m Model) Err() error {
	return m.err
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateExtracting, StateDownloading:
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			default:
				return m, tea.Quit
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.albumURL = strings.TrimSpace(m.textInput.Value())
				m.state = StateExtracting
				m.run++
				return m, tea.Batch(m.extractLinks(), m.spinner.Tick)
			}

		case "s":
			if m.state == StateResults || m.state == StateComplete {
				return m, m.saveGallery()
			}

		case "d":
			if m.state == StateResults {
				m.state = StateDownloading
				m.run++
				m.manager, m.events = m.newManager()
				return m, tea.Batch(m.startDownload(), m.tickProgress())
			}

		case "q":
			if m.state != StateInput {
				m.cancel()
				return m, tea.Quit
			}

		case "r":
			if m.state == StateResults || m.state == StateComplete || m.state == StateError {
				m = m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ExtractDoneMsg:
		if msg.Run != m.run || m.state != StateExtracting {
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.links = msg.Links
			m.state = StateResults
		}

	case SaveDoneMsg:
		if msg.Run != m.run {
			return m, nil
		}
		if msg.Err != nil {
			m.addLog(LogEntry{Message: fmt.Sprintf("Error saving gallery: %v", msg.Err), Level: download.LevelError})
		} else {
			m.savedPath = msg.Path
			m.addLog(LogEntry{Message: fmt.Sprintf("Saved %d links to %s", len(m.links), msg.Path), Level: download.LevelSuccess})
		}

	case DownloadDoneMsg:
		if msg.Run != m.run || m.state != StateDownloading {
			return m, nil
		}
		m.drainEvents()
		m.receivedBytes = msg.Received
		m.totalBytes = msg.Total
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF
		m.failed = msg.Failed
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil && !errors.Is(msg.Err, download.ErrDownloadsFailed):
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			m.drainEvents()
			received, total, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.totalBytes = total
			m.downloadedFiles = files
			m.totalFiles = totalFiles

			progressCmd := m.progress.SetPercent(m.percent())
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// reset returns the model to the input state, keeping settings and size.
func (m Model) reset() Model {
	m.cancel()
	m.state = StateInput
	m.logs = nil
	m.albumURL = ""
	m.links = nil
	m.savedPath = ""
	m.err = nil
	m.manager = nil
	m.events = nil
	m.failed = 0
	m.downloadedFiles = 0
	m.totalFiles = 0
	m.receivedBytes = 0
	m.totalBytes = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.run++
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m *Model) addLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// drainEvents moves queued progress events into the log.
func (m *Model) drainEvents() {
	for {
		select {
		case e := <-m.events:
			if e.Level == download.LevelVerbose {
				continue
			}
			m.addLog(LogEntry{Message: e.Message, Level: e.Level})
		default:
			return
		}
	}
}

func (m Model) percent() float64 {
	if m.totalFiles == 0 {
		return 0
	}
	return float64(m.downloadedFiles) / float64(m.totalFiles)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Imgbb Album"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Collect direct image links for the gallery"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateExtracting:
		b.WriteString(m.viewExtracting())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter album URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Image host: %s", m.hostOrDefault())))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewExtracting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning album page..."))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.albumURL))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d image(s):", len(m.links))))
	b.WriteString("\n")
	b.WriteString(m.renderLinks())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLinks() string {
	var b strings.Builder

	for i, link := range m.links {
		if i == maxListed {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.links)-maxListed)))
			b.WriteString("\n")
			break
		}
		b.WriteString(linkStyle.Render(fmt.Sprintf("  %3d %s", i+1, link)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %s",
		m.downloadedFiles,
		m.totalFiles,
		humanize.Bytes(uint64(max(m.receivedBytes, 0))),
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := fmt.Sprintf(
		"Download Complete!\n\n"+
			"Images: %d\n"+
			"Saved: %d\n"+
			"Size: %s",
		len(m.links),
		m.downloadedFiles,
		humanize.Bytes(uint64(max(m.receivedBytes, 0))),
	)
	if m.failed > 0 {
		summary += fmt.Sprintf("\nFailed: %d", m.failed)
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	var fetchErr *http.FetchError
	switch {
	case errors.Is(m.err, album.ErrNoLinksFound):
		b.WriteString(warningStyle.Render(fmt.Sprintf("No %s links found on the album page.", m.hostOrDefault())))
		b.WriteString("\n\n")
		b.WriteString("  Collect the links manually or use the Imgbb API.")
	case errors.As(m.err, &fetchErr):
		b.WriteString(errorStyle.Render("Could not fetch the album page:"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	default:
		b.WriteString(errorStyle.Render("Error occurred:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: extract | esc: quit"
	case StateExtracting, StateDownloading:
		return "esc: cancel"
	case StateResults:
		return "s: save gallery | d: download images | r: new album | q: quit"
	case StateComplete:
		return "s: save gallery | r: new album | q: quit"
	case StateError:
		return "r: try again | q: quit"
	}
	return ""
}

func (m Model) hostOrDefault() string {
	if m.settings.ImageHost == "" {
		return album.DefaultHost
	}
	return m.settings.ImageHost
}

func (m Model) outputPath() string {
	if m.settings.OutputPath == "" {
		return defaultOutputPath
	}
	return m.settings.OutputPath
}

// extractLinks fetches the album page and scans it for direct links.
func (m Model) extractLinks() tea.Cmd {
	ctx := m.ctx
	run := m.run
	albumURL := m.albumURL
	client := http.NewClient(m.settings.ToClientOptions())
	extractor := album.NewExtractor(client, m.settings.ImageHost)

	return func() tea.Msg {
		links, err := extractor.Extract(ctx, albumURL)
		return ExtractDoneMsg{Run: run, Links: links, Err: err}
	}
}

// saveGallery writes the links to the configured output path.
func (m Model) saveGallery() tea.Cmd {
	run := m.run
	links := m.links
	path := m.outputPath()
	format, err := gallery.ParseFormat(m.settings.OutputFormat)

	return func() tea.Msg {
		if err != nil {
			return SaveDoneMsg{Run: run, Path: path, Err: err}
		}
		err := gallery.NewWriter(format).WriteFile(path, links)
		return SaveDoneMsg{Run: run, Path: path, Err: err}
	}
}

// newManager creates a manager whose events are queued for the tick loop.
// Events are dropped when the queue is full.
func (m Model) newManager() (*download.Manager, chan download.ProgressEvent) {
	events := make(chan download.ProgressEvent, 100)
	manager := download.NewManager(m.settings, func(event download.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})
	return manager, events
}

// startDownload starts the actual download in background.
func (m Model) startDownload() tea.Cmd {
	ctx := m.ctx
	run := m.run
	manager := m.manager
	albumURL := m.albumURL
	links := m.links

	return func() tea.Msg {
		err := manager.Download(ctx, albumURL, links)
		received, total, files, totalFiles := manager.GetProgress()

		failed := 0
		for _, r := range manager.Results() {
			if r.Err != nil {
				failed++
			}
		}

		return DownloadDoneMsg{
			Run:      run,
			Received: received,
			Total:    total,
			Files:    files,
			TotalF:   totalFiles,
			Failed:   failed,
			Err:      err,
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
