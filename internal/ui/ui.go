package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/igheddx/tipply/internal/models"
	"github.com/igheddx/tipply/internal/services"
	"github.com/igheddx/tipply/internal/shared"
	"github.com/igheddx/tipply/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ChecklistView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	svc          services.Service
	engine       *tasks.CatalogEngine
	width        int
	height       int
	checklist    list.Model
	status       *models.OnboardingStatus
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.DashboardResult
	err          error
	help         help.Model
	keys         keyMap
}

type statusFetchedMsg struct {
	status *models.OnboardingStatus
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type dashboardCompleteMsg struct {
	result *tasks.DashboardResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, svc services.Service, engine *tasks.CatalogEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   ChecklistView,
		svc:    svc,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching the onboarding status.
func (m *Model) Init() tea.Cmd {
	return m.fetchStatus()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.checklist.Width() == 0 {
			m.checklist.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ChecklistView:
			return m.handleChecklistKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case statusFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.status = msg.status
		items := []list.Item{
			checklistItem{label: "Profile complete", hint: "fill in your display name and email", done: msg.status.ProfileComplete},
			checklistItem{label: "Stripe account connected", hint: "run: tipply onboard connect", done: msg.status.PaymentsConnected},
			checklistItem{label: "Tipping enabled", hint: "run: tipply onboard enable", done: msg.status.TippingEnabled},
			checklistItem{label: "QR device registered", hint: "run: tipply device register", done: msg.status.DeviceRegistered},
			checklistItem{label: "Catalog uploaded", hint: "run: tipply catalog upload", done: msg.status.CatalogUploaded},
		}
		m.checklist = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.checklist.Title = "Tipply Onboarding"
		m.checklist.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case dashboardCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ChecklistView:
		return m.renderChecklist()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleChecklistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.checklist, cmd = m.checklist.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ChecklistView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startDashboard()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ChecklistView
		m.result = nil
		m.err = nil
		return m, m.fetchStatus()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ChecklistView {
		m.checklist, cmd = m.checklist.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.svc.OnboardingStatus(m.ctx)
		return statusFetchedMsg{status: status, err: err}
	}
}

func (m *Model) startDashboard() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Dashboard(m.ctx, m.progressChan)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return dashboardCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return dashboardCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderChecklist() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.checklist.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Fetch your tip dashboard?")
	info := "\nThis pulls your profile, catalog, devices, and full tip history.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Building Dashboard")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchProfile:
		phase = "Fetching profile..."
	case tasks.FetchCatalog:
		phase = "Fetching catalog..."
	case tasks.FetchDevices:
		phase = "Fetching devices..."
	case tasks.FetchTips:
		phase = fmt.Sprintf("Fetching tips (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Dashboard failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Dashboard Ready")
	info := fmt.Sprintf(
		"\nCatalog: %d songs\nDevices: %d\nTips: %d (%d processed, %d pending)\nTotal: %s\nRefundable: %d tips (%s)",
		m.result.CatalogSize,
		m.result.DeviceCount,
		m.result.TotalTips,
		m.result.ProcessedCount,
		m.result.PendingCount,
		shared.FormatAmount(m.result.TotalCents, "usd"),
		m.result.RefundableCount,
		shared.FormatAmount(m.result.RefundableCents, "usd"),
	)

	var requests string
	if len(m.result.SongRequests) > 0 {
		requests = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Song requests (%d distinct):", len(m.result.SongRequests))))
		for request, count := range m.result.SongRequests {
			requests += fmt.Sprintf("\n  • %s (%d)", request, count)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, requests, helpView)
}
