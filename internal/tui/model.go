package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/chat"
	"github.com/diogo/ladderweb/internal/config"
	"github.com/diogo/ladderweb/internal/dispatch"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/logging"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/panels"
	"github.com/diogo/ladderweb/internal/render"
	"github.com/diogo/ladderweb/internal/telemetry"
)

// Notices shown under the input
const (
	NoticeNothingToRetry = "No previous message to retry"
	NoticeGenerating     = "A response is still being generated; press Esc to stop it"
	NoticeNothingToStop  = "Nothing is being generated"
)

// Side panel titles not owned by a telemetry feed
const (
	ModelsTitle      = "🤖 Installed Models"
	ModelSearchTitle = "🔍 Model Search"
)

const (
	minSideWidth    = 40
	maxSideWidth    = 64
	sidePanelMinTTY = 100
	lookupTimeout   = 30 * time.Second
	telemetryBatch  = 16
)

// sidePanel selects what the right-hand column shows
type sidePanel int

const (
	panelGPU sidePanel = iota
	panelHealth
	panelProgress
	panelStatus
	panelGrid
	panelCalibration
	panelModels
	panelCount
)

var panelNames = [panelCount]string{"GPU", "Health", "Progress", "Status", "Grid", "Calibration", "Models"}

func (p sidePanel) String() string {
	if p < 0 || p >= panelCount {
		return "unknown"
	}
	return panelNames[p]
}

// Messages
type (
	telemetryMsg struct {
		results []telemetry.Result
		ok      bool
	}
	chatResultMsg chat.Result
	historyMsg    struct {
		entries []models.HistoryEntry
		err     error
	}
	modelsMsg struct {
		models *models.AvailableModels
		err    error
	}
	selectMsg struct {
		name string
		err  error
	}
	searchMsg struct {
		result *models.ModelSearch
		err    error
	}
	effectMsg        dispatch.Effect
	animationTickMsg time.Time
	clockTickMsg     time.Time
)

// Options configures the dashboard
type Options struct {
	UseRAG         bool
	RequestTimeout time.Duration
	// Feed intervals; zero disables the timer for that feed.
	GPUInterval      time.Duration
	HealthInterval   time.Duration
	ProgressInterval time.Duration
	Render           render.Options
	// Output, when set, fixes the colour profile of the side panels
	Output io.Writer
}

// OptionsFromConfig builds dashboard options from the user configuration
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		UseRAG:           cfg.UseRAG,
		RequestTimeout:   cfg.Timeout(),
		GPUInterval:      config.Interval(cfg.Poll.GPU, telemetry.DefaultGPUInterval),
		HealthInterval:   config.Interval(cfg.Poll.Health, telemetry.DefaultHealthInterval),
		ProgressInterval: config.Interval(cfg.Poll.Progress, telemetry.DefaultProgressInterval),
		Render:           render.OptionsFromConfig(cfg),
	}
}

// Model is the dashboard: agent chat on the left, telemetry on the right
type Model struct {
	client     api.LadderClientInterface
	ctrl       *chat.Controller
	disp       *dispatch.Dispatcher
	poller     *telemetry.Poller
	board      *telemetry.Board
	surface    *panels.Surface
	renderOpts render.Options
	log        *logrus.Entry

	events    chan telemetry.Result
	done      chan struct{}
	closeOnce *sync.Once

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	useRAG        bool
	panel         sidePanel
	available     *models.AvailableModels
	availableErr  error
	modelsLoading bool
	search        *models.ModelSearch
	searchErr     error
	searchQuery   string
	searching     bool

	notice         string
	err            error
	animationFrame int
	now            time.Time

	width     int
	height    int
	chatWidth int
	sideWidth int
	ready     bool
}

// NewDashboard creates the dashboard model. Telemetry starts in Init.
func NewDashboard(client api.LadderClientInterface, opts Options) Model {
	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Ask the ladder agent... (/retry /status /search /model /rag)"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	// Style the textarea
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	log := logging.Component("tui")
	events := make(chan telemetry.Result, telemetryBatch)
	done := make(chan struct{})
	sink := func(r telemetry.Result) {
		select {
		case events <- r:
		case <-done:
		}
	}

	poller := telemetry.NewPoller(client, sink,
		telemetry.WithInterval(telemetry.KindGPU, opts.GPUInterval),
		telemetry.WithInterval(telemetry.KindHealth, opts.HealthInterval),
		telemetry.WithInterval(telemetry.KindProgress, opts.ProgressInterval),
	)

	var surface *panels.Surface
	if opts.Output != nil {
		surface = panels.NewForWriter(opts.Output, render.GetTUITheme(), minSideWidth)
	} else {
		surface = panels.New(render.GetTUITheme(), minSideWidth)
	}

	renderOpts := opts.Render
	if renderOpts.Style == "" {
		renderOpts = render.DefaultOptions()
	}

	return Model{
		client:     client,
		ctrl:       chat.NewController(client, chat.WithRequestTimeout(opts.RequestTimeout)),
		disp:       dispatch.New(),
		poller:     poller,
		board:      telemetry.NewBoard(),
		surface:    surface,
		renderOpts: renderOpts,
		log:        log,
		events:     events,
		done:       done,
		closeOnce:  &sync.Once{},
		textarea:   ta,
		spinner:    s,
		useRAG:     opts.UseRAG,
	}
}

// Init starts telemetry and loads the stored conversation
func (m Model) Init() tea.Cmd {
	m.poller.Start(context.Background())
	return tea.Batch(
		textarea.Blink,
		loadHistoryCmd(m.client),
		waitForTelemetry(m.events, m.done),
		clockTick(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// clockTick keeps the "updated N ago" footers current
func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, dashKeys.Quit):
			return m, m.quit()

		case key.Matches(msg, dashKeys.Stop):
			if !m.ctrl.Stop() {
				return m, m.quit()
			}
			return m, m.afterTransition()

		case key.Matches(msg, dashKeys.Retry):
			return m, m.retry()

		case key.Matches(msg, dashKeys.RefreshStatus):
			m.refreshStatus()
			return m, nil

		case key.Matches(msg, dashKeys.NextPanel):
			return m, m.cyclePanel(1)

		case key.Matches(msg, dashKeys.PrevPanel):
			return m, m.cyclePanel(-1)

		case key.Matches(msg, dashKeys.Send):
			return m, m.submit()
		}

	case telemetryMsg:
		if !msg.ok {
			break
		}
		for _, r := range msg.results {
			if !m.board.Accept(r) {
				m.log.WithFields(logrus.Fields{"feed": r.Kind.String(), "seq": r.Seq}).Debug("stale telemetry discarded")
			}
		}
		cmds = append(cmds, waitForTelemetry(m.events, m.done))

	case chatResultMsg:
		cmds = append(cmds, m.completeChat(chat.Result(msg)))

	case historyMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Debug("could not load chat history")
			break
		}
		m.ctrl.Restore(msg.entries)
		m.refreshTranscript()
		m.viewport.GotoBottom()

	case modelsMsg:
		m.modelsLoading = false
		m.available = msg.models
		m.availableErr = msg.err

	case selectMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.err = nil
		if m.available != nil {
			m.available.Current = msg.name
		}
		m.ctrl.Announce(fmt.Sprintf("Model changed to **%s**", msg.name))
		m.refreshTranscript()
		m.viewport.GotoBottom()

	case searchMsg:
		m.searching = false
		m.search = msg.result
		m.searchErr = msg.err

	case effectMsg:
		if dispatch.Effect(msg).Kind == dispatch.EffectSearch {
			cmds = append(cmds, m.startSearch(msg.Query))
		}

	case spinner.TickMsg:
		if m.ctrl.State().Generating {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.ctrl.State().Generating {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}

	case clockTickMsg:
		m.now = time.Time(msg)
		cmds = append(cmds, clockTick())
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if m.ctrl.Controls().InputEnabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Printable keys belong to the input, not to viewport scrolling
	if k, ok := msg.(tea.KeyMsg); !ok || (k.Type != tea.KeyRunes && k.Type != tea.KeySpace) {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.sideWidth = 0
	if width >= sidePanelMinTTY {
		m.sideWidth = min(max(width/3, minSideWidth), maxSideWidth)
	}
	m.chatWidth = width - m.sideWidth

	// Calculate component heights
	headerHeight := 3 // Header panel with border
	inputHeight := 4  // Input panel with border
	statusHeight := 1 // Status bar
	noticeHeight := 1 // Notice line
	borders := 2      // Messages panel border

	vpHeight := height - headerHeight - inputHeight - statusHeight - noticeHeight - borders
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.chatWidth - 4

	// Initialize viewport on first size message
	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)

	if m.sideWidth > 0 {
		m.surface = m.surface.WithWidth(m.sideWidth - 1)
	}
	m.refreshTranscript()
}

// submit handles Enter: a slash command, an exit word or a chat message
func (m *Model) submit() tea.Cmd {
	if !m.ctrl.Controls().InputEnabled {
		return nil
	}
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil
	}
	m.notice = ""
	m.err = nil

	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m.quit()
	case strings.HasPrefix(input, "/"):
		m.textarea.Reset()
		return m.command(input)
	}

	req := m.ctrl.Send(input, m.useRAG)
	if req == nil {
		return nil
	}
	m.textarea.Reset()
	return m.startRequest(req)
}

// command runs a slash command typed into the input
func (m *Model) command(input string) tea.Cmd {
	name, arg, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	arg = strings.TrimSpace(arg)
	m.log.WithField("command", name).Debug("slash command")

	switch strings.ToLower(name) {
	case "retry":
		return m.retry()

	case "stop":
		if m.ctrl.Stop() {
			return m.afterTransition()
		}
		m.notice = NoticeNothingToStop

	case "status":
		m.refreshStatus()
		m.panel = panelStatus

	case "search":
		m.panel = panelModels
		return tea.Batch(m.loadModels(), m.startSearch(arg))

	case "model", "models":
		m.panel = panelModels
		if arg == "" {
			m.available = nil
			return m.loadModels()
		}
		return selectModelCmd(m.client, arg)

	case "rag":
		switch strings.ToLower(arg) {
		case "on", "true", "1":
			m.useRAG = true
		case "off", "false", "0":
			m.useRAG = false
		case "":
			m.useRAG = !m.useRAG
		default:
			m.notice = "Usage: /rag on|off"
			return nil
		}
		m.notice = "RAG " + onOff(m.useRAG)

	default:
		m.notice = fmt.Sprintf("Unknown command: /%s", name)
	}
	return nil
}

func (m *Model) retry() tea.Cmd {
	req, err := m.ctrl.Retry(m.useRAG)
	switch {
	case errors.Is(err, apierrors.ErrNothingToRetry):
		m.notice = NoticeNothingToRetry
		return nil
	case err != nil:
		m.notice = NoticeGenerating
		return nil
	case req == nil:
		return nil
	}
	m.notice = ""
	return m.startRequest(req)
}

func (m *Model) startRequest(req *chat.Request) tea.Cmd {
	m.animationFrame = 0
	m.textarea.Blur()
	m.refreshTranscript()
	m.viewport.GotoBottom()

	return tea.Batch(
		runChatCmd(req),
		m.spinner.Tick,
		animationTick(),
	)
}

// completeChat applies a finished exchange and hands the reply to the dispatcher
func (m *Model) completeChat(res chat.Result) tea.Cmd {
	reply, applied := m.ctrl.Complete(res)
	if !applied {
		return nil
	}
	return tea.Batch(m.afterTransition(), m.applyEffect(m.disp.Dispatch(reply)))
}

// afterTransition redraws the transcript and restores input focus on Idle
func (m *Model) afterTransition() tea.Cmd {
	m.refreshTranscript()
	m.viewport.GotoBottom()
	if m.ctrl.ConsumeFocus() {
		return m.textarea.Focus()
	}
	return nil
}

func (m *Model) applyEffect(e dispatch.Effect) tea.Cmd {
	switch e.Kind {
	case dispatch.EffectSearch:
		m.panel = panelModels
		m.searchQuery = e.Query
		m.notice = fmt.Sprintf("Searching models for %q...", e.Query)
		return tea.Tick(e.Delay, func(time.Time) tea.Msg {
			return effectMsg(e)
		})
	case dispatch.EffectSuggest:
		m.notice = e.Notice
	}
	return nil
}

func (m *Model) startSearch(query string) tea.Cmd {
	if query == "" {
		query = models.DefaultModelQuery
	}
	m.searchQuery = query
	m.searching = true
	m.searchErr = nil
	return searchModelsCmd(m.client, query)
}

func (m *Model) loadModels() tea.Cmd {
	if m.available != nil || m.modelsLoading {
		return nil
	}
	m.modelsLoading = true
	m.availableErr = nil
	return loadModelsCmd(m.client)
}

func (m *Model) refreshStatus() {
	m.poller.Refresh(telemetry.KindStatus)
}

func (m *Model) cyclePanel(delta int) tea.Cmd {
	m.panel = sidePanel((int(m.panel) + delta + int(panelCount)) % int(panelCount))
	if m.panel == panelModels {
		return m.loadModels()
	}
	return nil
}

// quit stops telemetry and any active exchange, then ends the program
func (m *Model) quit() tea.Cmd {
	m.shutdown()
	return tea.Quit
}

func (m *Model) shutdown() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.poller.Stop()
		m.ctrl.Shutdown()
	})
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(RenderTranscript(m.ctrl.Transcript(), m.viewport.Width, m.renderOpts))
}

func (m Model) clock() time.Time {
	if m.now.IsZero() {
		return time.Now()
	}
	return m.now
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	// Messages panel
	var content string
	if m.ctrl.Len() == 0 {
		content = m.renderWelcome()
	} else {
		content = m.viewport.View()
	}
	messages := messagesAreaStyle.Width(m.chatWidth - 2).Render(content)

	// Input panel
	var input string
	if m.ctrl.Controls().Typing {
		input = m.renderLoadingAnimation()
	} else {
		input = m.textarea.View()
	}
	inputPanel := inputPanelStyle.Width(m.chatWidth - 2).Height(2).Render(input)

	left := lipgloss.JoinVertical(lipgloss.Left, messages, inputPanel)
	if m.sideWidth > 0 {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderSidePanel(lipgloss.Height(left))))
	} else {
		sections = append(sections, left)
	}

	sections = append(sections, noticeStyle.Render(m.notice))
	sections = append(sections, m.renderStatusBar())

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("⛓ Ladder Dashboard")
	parts := []string{m.client.BaseURL(), "RAG " + onOff(m.useRAG)}
	if m.available != nil && m.available.Current != "" {
		parts = append(parts, m.available.Current)
	}
	sub := subtitleStyle.Render(strings.Join(parts, " · "))
	return headerStyle.Width(m.width - 2).Render(title + "  " + sub)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("⛓")
	title := welcomeTitleStyle.Width(width).Render("Ladder Agent")
	subtitle := welcomeStyle.Width(width).Render("Ask about the calibration, run the pipeline, or search models")

	content := lipgloss.JoinVertical(lipgloss.Center, "", icon, "", title, "", subtitle, "")

	// Center vertically
	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the typing indicator shown while generating
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Agent is thinking ")
	hint := hintStyle.Render("  Esc to stop")

	return fmt.Sprintf("%s %s %s %s%s", spin, bar.String(), text, dots.String(), hint)
}

// renderStatusBar lists the shortcuts the current controls allow
func (m Model) renderStatusBar() string {
	c := m.ctrl.Controls()

	var bindings []key.Binding
	if c.SendVisible {
		bindings = append(bindings, dashKeys.Send)
	}
	if c.StopVisible {
		bindings = append(bindings, dashKeys.Stop)
	}
	if c.RetryVisible {
		bindings = append(bindings, dashKeys.Retry)
	}
	bindings = append(bindings, dashKeys.RefreshStatus, dashKeys.NextPanel, dashKeys.Quit)

	items := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		items[i] = statusKeyStyle.Render(h.Key) + statusDescStyle.Render(" "+h.Desc)
	}

	return statusBarStyle.Width(m.width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func (m Model) renderSidePanel(height int) string {
	tabs := tabActiveStyle.Render(m.panel.String()) +
		hintStyle.Render(fmt.Sprintf(" %d/%d  Tab ▸", int(m.panel)+1, int(panelCount)))
	content := tabs + "\n" + m.sidePanelBody()
	return sidePanelStyle.Width(m.sideWidth).MaxHeight(height).Render(content)
}

func (m Model) sidePanelBody() string {
	now := m.clock()

	switch m.panel {
	case panelGPU:
		return m.feedPanel(telemetry.KindGPU, now)
	case panelHealth:
		return m.feedPanel(telemetry.KindHealth, now)
	case panelProgress:
		return m.feedPanel(telemetry.KindProgress, now)
	case panelStatus:
		return m.feedPanel(telemetry.KindStatus, now)
	case panelGrid, panelCalibration:
		r, ok := m.board.Get(telemetry.KindStatus)
		if !ok {
			if m.panel == panelGrid {
				return m.surface.Loading(panels.GridTitle)
			}
			return m.surface.Loading(panels.CalibrationTitle)
		}
		if r.Outcome != telemetry.OutcomeOK || r.Status == nil {
			return m.surface.Feed(r, now)
		}
		body := m.surface.Calibration(r.Status.Calibration)
		if m.panel == panelGrid {
			body = m.surface.Grid(r.Status.Database)
		}
		return m.surface.Footer(body, panels.Updated(r.At, now))
	default:
		return m.modelsPanel()
	}
}

func (m Model) feedPanel(kind telemetry.Kind, now time.Time) string {
	r, ok := m.board.Get(kind)
	if !ok {
		return m.surface.Loading(panels.FeedTitle(kind))
	}
	return m.surface.Feed(r, now)
}

func (m Model) modelsPanel() string {
	var installed string
	switch {
	case m.available != nil:
		installed = m.surface.Models(*m.available)
	case m.availableErr != nil:
		installed = "Connection failed"
	default:
		installed = "Loading..."
	}

	title := ModelSearchTitle
	if m.searchQuery != "" {
		title += ": " + m.searchQuery
	}
	var found string
	switch {
	case m.searching:
		found = "Searching models..."
	case m.searchErr != nil:
		found = "Error searching models"
	case m.search != nil:
		found = m.surface.ModelSearch(*m.search)
	default:
		found = "Type /search <query>"
	}

	return m.surface.Panel(ModelsTitle, installed) + "\n" + m.surface.Panel(title, found)
}

// RenderTranscript renders transcript entries as chat bubbles at width
func RenderTranscript(msgs []models.ChatMessage, width int, opts render.Options) string {
	bubbleWidth := width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var content strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(renderMessage(msg, bubbleWidth, opts))
		content.WriteString("\n")
	}
	return content.String()
}

func renderMessage(msg models.ChatMessage, width int, opts render.Options) string {
	if msg.Role == models.RoleUser {
		return userLabelStyle.Render("⬤ You") + "\n" + userBubbleStyle.Width(width).Render(msg.Content)
	}

	label := assistantLabelStyle.Render("✦ Agent")

	switch msg.Kind {
	case models.KindSeparator:
		return separatorStyle.Width(width).Render(msg.Content)
	case models.KindCancelled:
		return cancelledStyle.Render(msg.Content)
	case models.KindError, models.KindFailure:
		return label + "\n" + failureBubbleStyle.Width(width).Render(render.Plain(msg.Content, width-4))
	}

	if msg.HasBadge() {
		label += " " + actionBadgeStyle.Render("["+msg.Action+"]")
	}

	body := render.MarkdownOrPlain(msg.Content, opts.WithWidth(width-4))
	if out := strings.TrimRight(msg.Output, "\n"); out != "" {
		body += "\n\n" + outputStyle.Render(out)
	}

	bubble := assistantBubbleStyle
	if msg.Kind == models.KindNotice {
		bubble = noticeBubbleStyle
	}
	return label + "\n" + bubble.Width(width).Render(body)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// waitForTelemetry delivers the next batch of poller results to the loop
func waitForTelemetry(ch <-chan telemetry.Result, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		var first telemetry.Result
		select {
		case first = <-ch:
		case <-done:
			return telemetryMsg{ok: false}
		}

		results := make([]telemetry.Result, 0, telemetryBatch)
		results = append(results, first)
		for len(results) < telemetryBatch {
			select {
			case next := <-ch:
				results = append(results, next)
			default:
				return telemetryMsg{results: results, ok: true}
			}
		}
		return telemetryMsg{results: results, ok: true}
	}
}

// runChatCmd performs the exchange off the loop
func runChatCmd(req *chat.Request) tea.Cmd {
	return func() tea.Msg {
		return chatResultMsg(req.Run())
	}
}

func loadHistoryCmd(client api.ChatClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		entries, err := client.ChatHistory(ctx)
		return historyMsg{entries: entries, err: err}
	}
}

func loadModelsCmd(client api.LadderClientInterface) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		available, err := client.AvailableModels(ctx)
		return modelsMsg{models: available, err: err}
	}
}

func selectModelCmd(client api.LadderClientInterface, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		current, err := client.SelectModel(ctx, name)
		return selectMsg{name: current, err: err}
	}
}

func searchModelsCmd(client api.LadderClientInterface, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		result, err := client.SearchModels(ctx, query)
		return searchMsg{result: result, err: err}
	}
}

// RunDashboard starts the dashboard TUI
func RunDashboard(client api.LadderClientInterface, opts Options) error {
	m := NewDashboard(client, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	// copies of the model share the stop channel and once
	_, err := p.Run()
	m.shutdown()
	return err
}
