package tui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/ladderweb/internal/api"
	"github.com/diogo/ladderweb/internal/chat"
	"github.com/diogo/ladderweb/internal/config"
	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
	"github.com/diogo/ladderweb/internal/render"
	"github.com/diogo/ladderweb/internal/telemetry"
)

func newTestModel(t *testing.T, mock *api.MockLadderClient) Model {
	t.Helper()
	if mock.BaseURLVal == "" {
		mock.BaseURLVal = "http://localhost:5050"
	}
	m := NewDashboard(mock, Options{UseRAG: true, Output: io.Discard})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(m.shutdown)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// collect runs cmd and every command of a batch, returning the messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func chatResultFrom(t *testing.T, cmd tea.Cmd) chatResultMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if res, ok := msg.(chatResultMsg); ok {
			return res
		}
	}
	t.Fatal("no chat result produced")
	return chatResultMsg{}
}

func typeAndSend(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(text)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSidePanel_String(t *testing.T) {
	if panelGPU.String() != "GPU" || panelModels.String() != "Models" {
		t.Error("unexpected panel names")
	}
	if sidePanel(42).String() != "unknown" {
		t.Error("out of range panel should be unknown")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Poll.GPU = 0
	opts := OptionsFromConfig(cfg)

	if opts.GPUInterval != telemetry.DefaultGPUInterval {
		t.Errorf("GPUInterval = %v, want default for unset poll", opts.GPUInterval)
	}
	if opts.HealthInterval != 30*time.Second || opts.ProgressInterval != 60*time.Second {
		t.Errorf("intervals = %v/%v", opts.HealthInterval, opts.ProgressInterval)
	}
	if !opts.UseRAG {
		t.Error("UseRAG should follow config")
	}
}

func TestView_BeforeResize(t *testing.T) {
	m := NewDashboard(&api.MockLadderClient{}, Options{Output: io.Discard})
	t.Cleanup(m.shutdown)

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("View before the first resize should show the initializing text")
	}
}

func TestResize_SidePanelWidth(t *testing.T) {
	tests := []struct {
		width    int
		wantSide int
	}{
		{80, 0},
		{120, 40},
		{150, 50},
		{300, maxSideWidth},
	}

	for _, tt := range tests {
		m := NewDashboard(&api.MockLadderClient{}, Options{Output: io.Discard})
		m, _ = update(t, m, tea.WindowSizeMsg{Width: tt.width, Height: 40})
		if m.sideWidth != tt.wantSide {
			t.Errorf("width %d: sideWidth = %d, want %d", tt.width, m.sideWidth, tt.wantSide)
		}
		if m.chatWidth+m.sideWidth != tt.width {
			t.Errorf("width %d: columns do not add up", tt.width)
		}
		m.shutdown()
	}
}

func TestSend_CompletesToIdle(t *testing.T) {
	mock := &api.MockLadderClient{ChatVal: &models.ChatReply{Message: "hi"}}
	m := newTestModel(t, mock)

	m, cmd := typeAndSend(t, m, "hello")
	if !m.ctrl.State().Generating {
		t.Fatal("expected Generating after send")
	}
	if m.ctrl.Controls().InputEnabled {
		t.Error("input must be disabled while generating")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.textarea.Value())
	}

	m, _ = update(t, m, chatResultFrom(t, cmd))

	transcript := m.ctrl.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript len = %d, want 2", len(transcript))
	}
	if transcript[0].Content != "hello" || transcript[1].Content != "hi" {
		t.Errorf("transcript = %+v", transcript)
	}
	c := m.ctrl.Controls()
	if !c.InputEnabled || !c.RetryVisible || c.StopVisible {
		t.Errorf("controls after reply = %+v", c)
	}
	if mock.LastMessage != "hello" || !mock.LastUseRAG {
		t.Errorf("backend got %q rag=%v", mock.LastMessage, mock.LastUseRAG)
	}
}

func TestSend_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	m, cmd := typeAndSend(t, m, "   ")
	if cmd != nil {
		t.Error("empty input should not produce a command")
	}
	if m.ctrl.Len() != 0 {
		t.Error("empty input must not reach the transcript")
	}
}

func TestStop_DiscardsLateReply(t *testing.T) {
	mock := &api.MockLadderClient{ChatVal: &models.ChatReply{Message: "too late"}}
	m := newTestModel(t, mock)

	m, cmd := typeAndSend(t, m, "hello")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.ctrl.State().Generating {
		t.Fatal("Esc while generating should stop")
	}
	m, _ = update(t, m, chatResultFrom(t, cmd))

	transcript := m.ctrl.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript len = %d, want 2", len(transcript))
	}
	if transcript[1].Content != chat.StoppedText {
		t.Errorf("last entry = %q, want stop text", transcript[1].Content)
	}
}

func TestEsc_QuitsWhenIdle(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("Esc while idle should quit")
	}
}

func TestExitWords(t *testing.T) {
	for _, word := range []string{"exit", "quit", "/exit", "/quit"} {
		t.Run(word, func(t *testing.T) {
			m := newTestModel(t, &api.MockLadderClient{})
			_, cmd := typeAndSend(t, m, word)
			if !isQuit(cmd) {
				t.Errorf("%q should quit", word)
			}
		})
	}
}

func TestRetry_NothingToRetry(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd != nil {
		t.Error("retry without a prior message should not start a request")
	}
	if m.notice != NoticeNothingToRetry {
		t.Errorf("notice = %q", m.notice)
	}
	if m.ctrl.Len() != 0 {
		t.Error("transcript should be unchanged")
	}
}

func TestRetry_ReplacesAssistantReply(t *testing.T) {
	mock := &api.MockLadderClient{ChatVal: &models.ChatReply{Message: "first"}}
	m := newTestModel(t, mock)

	m, cmd := typeAndSend(t, m, "hello")
	m, _ = update(t, m, chatResultFrom(t, cmd))

	mock.ChatVal = &models.ChatReply{Message: "second"}
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.ctrl.State().Generating {
		t.Fatal("retry should start generating")
	}
	m, _ = update(t, m, chatResultFrom(t, cmd))

	transcript := m.ctrl.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript len = %d, want 2", len(transcript))
	}
	if transcript[1].Content != "second" {
		t.Errorf("reply = %q, want second", transcript[1].Content)
	}
	if mock.CallCount("Chat") != 2 {
		t.Errorf("Chat calls = %d, want 2", mock.CallCount("Chat"))
	}
}

func TestSlashCommands(t *testing.T) {
	tests := []struct {
		input      string
		wantNotice string
		wantRAG    bool
		wantPanel  sidePanel
	}{
		{"/rag off", "RAG off", false, panelGPU},
		{"/rag on", "RAG on", true, panelGPU},
		{"/rag", "RAG off", false, panelGPU},
		{"/rag maybe", "Usage: /rag on|off", true, panelGPU},
		{"/stop", NoticeNothingToStop, true, panelGPU},
		{"/retry", NoticeNothingToRetry, true, panelGPU},
		{"/bogus", "Unknown command: /bogus", true, panelGPU},
		{"/models", "", true, panelModels},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := newTestModel(t, &api.MockLadderClient{AvailableVal: &models.AvailableModels{}})
			m, _ = typeAndSend(t, m, tt.input)

			if m.notice != tt.wantNotice {
				t.Errorf("notice = %q, want %q", m.notice, tt.wantNotice)
			}
			if m.useRAG != tt.wantRAG {
				t.Errorf("useRAG = %v, want %v", m.useRAG, tt.wantRAG)
			}
			if m.panel != tt.wantPanel {
				t.Errorf("panel = %v, want %v", m.panel, tt.wantPanel)
			}
			if m.ctrl.Len() != 0 {
				t.Error("slash commands must not reach the transcript")
			}
		})
	}
}

func TestStatusCommand_RefreshesStatus(t *testing.T) {
	mock := &api.MockLadderClient{StatusVal: &models.StatusSnapshot{}}
	m := newTestModel(t, mock)

	m, _ = typeAndSend(t, m, "/status")
	if m.panel != panelStatus {
		t.Errorf("panel = %v, want Status", m.panel)
	}

	select {
	case r := <-m.events:
		if r.Kind != telemetry.KindStatus || r.Outcome != telemetry.OutcomeOK {
			t.Errorf("result = %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("status refresh never reached the dashboard")
	}
}

func TestModelCommand_Selects(t *testing.T) {
	mock := &api.MockLadderClient{SelectVal: "qwen2.5:7b"}
	m := newTestModel(t, mock)

	m, cmd := typeAndSend(t, m, "/model qwen2.5:7b")
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	m, _ = update(t, m, msgs[0])

	if mock.LastModel != "qwen2.5:7b" {
		t.Errorf("LastModel = %q", mock.LastModel)
	}
	transcript := m.ctrl.Transcript()
	if len(transcript) != 1 || transcript[0].Content != "Model changed to **qwen2.5:7b**" {
		t.Errorf("transcript = %+v", transcript)
	}
	if transcript[0].Kind != models.KindNotice {
		t.Errorf("kind = %v, want notice", transcript[0].Kind)
	}
}

func TestSelectError_Shown(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	m, _ = update(t, m, selectMsg{err: apierrors.NewUnavailableError(models.PathModelsSelect, "model not found")})
	if m.err == nil {
		t.Fatal("select error should be kept")
	}
	if !strings.Contains(m.View(), "model not found") {
		t.Error("View should show the select error")
	}
	if m.ctrl.Len() != 0 {
		t.Error("failed switch must not announce")
	}
}

func TestSearchHint_SchedulesSearch(t *testing.T) {
	mock := &api.MockLadderClient{
		ChatVal: &models.ChatReply{Message: "Let me look", ActionNeeded: "search_models", Query: "llama"},
		SearchVal: &models.ModelSearch{Query: "llama", Hits: []models.ModelSearchHit{
			{Name: "llama3:8b", Size: "4.7GB", Type: "chat"},
		}},
	}
	m := newTestModel(t, mock)

	m, cmd := typeAndSend(t, m, "find me a model")
	m, cmd = update(t, m, chatResultFrom(t, cmd))

	if m.panel != panelModels {
		t.Errorf("panel = %v, want Models", m.panel)
	}
	if !strings.Contains(m.notice, "llama") {
		t.Errorf("notice = %q", m.notice)
	}

	var effect effectMsg
	found := false
	for _, msg := range collect(cmd) {
		if e, ok := msg.(effectMsg); ok {
			effect, found = e, true
		}
	}
	if !found {
		t.Fatal("search hint did not schedule an effect")
	}

	m, cmd = update(t, m, effect)
	if !m.searching {
		t.Error("effect should start a search")
	}
	for _, msg := range collect(cmd) {
		m, _ = update(t, m, msg)
	}

	if mock.LastQuery != "llama" {
		t.Errorf("LastQuery = %q", mock.LastQuery)
	}
	if m.search == nil || len(m.search.Hits) != 1 {
		t.Fatalf("search = %+v", m.search)
	}
	if !strings.Contains(m.sidePanelBody(), "llama3:8b") {
		t.Error("models panel should list the hit")
	}
}

func TestSuggestHint_SetsNotice(t *testing.T) {
	mock := &api.MockLadderClient{ChatVal: &models.ChatReply{Message: "ok", ActionNeeded: "compute_drift"}}
	m := newTestModel(t, mock)

	m, cmd := typeAndSend(t, m, "what next?")
	m, _ = update(t, m, chatResultFrom(t, cmd))

	if m.notice != "Agent suggests computing drift" {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestTelemetryMsg_KeepsNewest(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	newer := telemetry.Result{Kind: telemetry.KindGPU, Seq: 2, Outcome: telemetry.OutcomeOK, GPU: &models.GPUSnapshot{Success: true}}
	older := telemetry.Result{Kind: telemetry.KindGPU, Seq: 1, Outcome: telemetry.OutcomeOffline}

	m, cmd := update(t, m, telemetryMsg{results: []telemetry.Result{newer, older}, ok: true})
	if cmd == nil {
		t.Error("telemetry should keep listening")
	}

	got, ok := m.board.Get(telemetry.KindGPU)
	if !ok || got.Seq != 2 {
		t.Errorf("board GPU = %+v, want seq 2", got)
	}
}

func TestTelemetryMsg_ClosedStopsListening(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	_, cmd := update(t, m, telemetryMsg{ok: false})
	if cmd != nil {
		t.Error("closed telemetry should not re-arm the listener")
	}
}

func TestWaitForTelemetry_Batches(t *testing.T) {
	ch := make(chan telemetry.Result, 4)
	done := make(chan struct{})
	ch <- telemetry.Result{Kind: telemetry.KindGPU, Seq: 1}
	ch <- telemetry.Result{Kind: telemetry.KindHealth, Seq: 1}

	msg := waitForTelemetry(ch, done)().(telemetryMsg)
	if !msg.ok || len(msg.results) != 2 {
		t.Errorf("msg = %+v, want two results", msg)
	}

	close(done)
	if waitForTelemetry(ch, done)().(telemetryMsg).ok {
		t.Error("closed dashboard should report not ok")
	}
}

func TestHistoryRestore(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	m, _ = update(t, m, historyMsg{entries: []models.HistoryEntry{
		{Role: models.RoleUser, Content: "old question"},
		{Role: models.RoleAssistant, Content: "old answer"},
	}})

	transcript := m.ctrl.Transcript()
	if len(transcript) != 3 {
		t.Fatalf("transcript len = %d, want 3", len(transcript))
	}
	if transcript[2].Content != chat.RestoredText {
		t.Errorf("last entry = %q, want restore separator", transcript[2].Content)
	}

	m, _ = update(t, m, historyMsg{err: errors.New("offline")})
	if m.ctrl.Len() != 3 {
		t.Error("history error must not change the transcript")
	}
}

func TestCyclePanel(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{AvailableVal: &models.AvailableModels{}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.panel != panelModels {
		t.Fatalf("shift+tab from GPU = %v, want Models", m.panel)
	}
	if cmd == nil || !m.modelsLoading {
		t.Error("entering Models should load the installed models")
	}

	for i := 0; i < int(panelCount); i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.panel != panelModels {
		t.Errorf("a full cycle should return to Models, got %v", m.panel)
	}
}

func TestCtrlS_RefreshesStatus(t *testing.T) {
	mock := &api.MockLadderClient{StatusVal: &models.StatusSnapshot{}}
	m := newTestModel(t, mock)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("status refresh should not return a command")
	}
	select {
	case <-m.events:
	case <-time.After(2 * time.Second):
		t.Fatal("no status result delivered")
	}
	if mock.CallCount("Status") != 1 {
		t.Errorf("Status calls = %d, want 1", mock.CallCount("Status"))
	}
}

func TestView_Dashboard(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{BaseURLVal: "http://gpu-box:5050"})
	m.now = time.Now()
	m.board.Accept(telemetry.Result{
		Kind:    telemetry.KindGPU,
		Seq:     1,
		Outcome: telemetry.OutcomeOK,
		At:      m.now,
		GPU: &models.GPUSnapshot{Success: true, GPUs: []models.GPU{
			{Name: "RTX 4090", MemoryTotal: 24576, MemoryUsed: 1024, MemoryFree: 23552},
		}},
	})

	view := m.View()
	for _, want := range []string{"Ladder Dashboard", "http://gpu-box:5050", "RAG on", "RTX 4090", "Ladder Agent"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestSidePanel_LoadingAndPlaceholders(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})

	m.panel = panelHealth
	if !strings.Contains(m.sidePanelBody(), "Loading...") {
		t.Error("feed without a result should show loading")
	}

	m.board.Accept(telemetry.Result{Kind: telemetry.KindStatus, Seq: 1, Outcome: telemetry.OutcomeOffline, At: time.Now()})
	m.panel = panelGrid
	if !strings.Contains(m.sidePanelBody(), "Error loading status") {
		t.Error("grid should show the status placeholder when offline")
	}
}

func TestStatusBar_FollowsControls(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{ChatVal: &models.ChatReply{Message: "hi"}})

	bar := m.renderStatusBar()
	if !strings.Contains(bar, "Send") || strings.Contains(bar, "Stop") || strings.Contains(bar, "Retry") {
		t.Errorf("idle bar = %q", bar)
	}

	m, cmd := typeAndSend(t, m, "hello")
	bar = m.renderStatusBar()
	if strings.Contains(bar, "Send") || !strings.Contains(bar, "Stop") {
		t.Errorf("generating bar = %q", bar)
	}

	m, _ = update(t, m, chatResultFrom(t, cmd))
	if !strings.Contains(m.renderStatusBar(), "Retry") {
		t.Error("Retry should be offered after a reply")
	}
}

func TestRenderTranscript(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello", Kind: models.KindMessage},
		{Role: models.RoleAssistant, Content: "done", Action: "verify", Output: "PASS", Kind: models.KindMessage},
		{Role: models.RoleAssistant, Content: "❌ Error: boom", Kind: models.KindError},
		{Role: models.RoleAssistant, Content: chat.StoppedText, Kind: models.KindCancelled},
		{Role: models.RoleAssistant, Content: chat.RestoredText, Kind: models.KindSeparator},
	}

	out := RenderTranscript(msgs, 80, render.DefaultOptions())
	for _, want := range []string{"hello", "[verify]", "PASS", "boom", chat.StoppedText, chat.RestoredText} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q", want)
		}
	}

	chatOnly := RenderTranscript([]models.ChatMessage{
		{Role: models.RoleAssistant, Content: "plain", Action: "chat", Kind: models.KindMessage},
	}, 80, render.DefaultOptions())
	if strings.Contains(chatOnly, "[chat]") {
		t.Error("chat action must not show a badge")
	}
}

func TestRenderLoadingAnimation(t *testing.T) {
	m := newTestModel(t, &api.MockLadderClient{})
	for frame := 0; frame < 20; frame++ {
		m.animationFrame = frame
		if !strings.Contains(m.renderLoadingAnimation(), "Agent is thinking") {
			t.Fatalf("frame %d missing text", frame)
		}
	}
}
