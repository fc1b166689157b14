package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/tabdash/browser"
	"github.com/montrey/tabdash/search"
	"github.com/montrey/tabdash/store"
	"github.com/montrey/tabdash/ui"
)

const cleanupInterval = 24 * time.Hour

// closeSettleDelay gives the browser a beat to drop a closed tab from the
// target list before we re-snapshot.
const closeSettleDelay = 150 * time.Millisecond

type viewMode int

const (
	modeBrowse viewMode = iota
	modeConfig
)

type model struct {
	client     *browser.Client
	tracker    *store.Tracker
	kv         *store.KV
	engine     *search.Engine
	logger     *slog.Logger
	input      textinput.Model
	list       ui.ListModel
	tabs       []search.Tab
	bookmarks  []search.Bookmark
	currentTab search.TabID

	sortSettings    store.SortSettings
	openingSettings store.TabOpeningSettings

	mode        viewMode
	configField int

	// pendingSelection holds the cursor target computed before an async
	// tab close; it is applied when the refreshed snapshot lands.
	pendingSelection *int

	width  int
	height int
}

type tabsMsg struct {
	tabs    []search.Tab
	current search.TabID
}

type openedMsg struct{ err error }

func initialModel(client *browser.Client, tracker *store.Tracker, kv *store.KV, bookmarks []search.Bookmark) model {
	ti := textinput.New()
	ti.Placeholder = "Search tabs and bookmarks... (b: u: g: prefixes)"
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	sortSettings := store.LoadSortSettings(kv)
	engine := search.NewEngine(search.NewMatcher())
	engine.Sort = sortSettings.SortMethod()
	engine.Usage = tracker.Usage()

	return model{
		client:          client,
		tracker:         tracker,
		kv:              kv,
		engine:          engine,
		logger:          slog.Default().With("component", "session"),
		input:           ti,
		list:            ui.NewListModel(80, 20),
		bookmarks:       bookmarks,
		sortSettings:    sortSettings,
		openingSettings: store.LoadTabOpeningSettings(kv),
		mode:            modeBrowse,
	}
}

func loadTabs(client *browser.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		tabs, err := client.Tabs(ctx)
		if err != nil {
			// Degrade to an empty pool; the search box still offers
			// bookmarks, URL and Google rows.
			slog.Warn("failed to load tabs", "error", err)
			return tabsMsg{}
		}
		current, err := client.CurrentTab(ctx)
		if err != nil {
			current = ""
		}
		return tabsMsg{tabs: tabs, current: current}
	}
}

func closeTab(client *browser.Client, id search.TabID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Close(ctx, id); err != nil {
			slog.Warn("failed to close tab", "tab", id, "error", err)
		}
		time.Sleep(closeSettleDelay)
		return loadTabs(client)()
	}
}

func openResult(client *browser.Client, r search.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		var err error
		if r.Kind == search.KindTab {
			err = client.Activate(ctx, search.TabID(r.ID))
		} else {
			err = client.Open(ctx, r.URL)
		}
		return openedMsg{err: err}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadTabs(m.client))
}

// rebuild re-runs the engine against the current snapshots. Called after
// every input or pool change; a pending post-close cursor target is
// consumed here.
func (m *model) rebuild() {
	m.engine.Usage = m.tracker.Usage()
	results := m.engine.BuildResults(m.input.Value(), m.tabs, m.bookmarks, m.currentTab, time.Now())

	selected := 0
	if m.pendingSelection != nil {
		selected = *m.pendingSelection
		m.pendingSelection = nil
	}
	m.list.SetResults(results, selected)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tabsMsg:
		m.tabs = msg.tabs
		m.currentTab = msg.current
		m.rebuild()

	case openedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open result", "error", msg.err)
			return m, nil
		}
		if m.openingSettings.Mode == store.OpeningClassic {
			// Classic: stay open for more selections, with fresh pools.
			return m, loadTabs(m.client)
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.mode == modeConfig {
			return m.updateConfig(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+o":
			m.mode = modeConfig
			return m, nil

		case "tab":
			m.cycleSortMethod(1)
		case "shift+tab":
			m.cycleSortMethod(-1)

		case "up", "down", "ctrl+j", "ctrl+k":
			m.list, cmd = m.list.Update(msg)
			cmds = append(cmds, cmd)

		case "enter", "alt+enter":
			r, ok := m.list.SelectedResult()
			if !ok {
				return m, nil
			}
			if r.Kind != search.KindTab {
				// New content counts as an access; switching to an
				// already open tab is recorded by the watcher.
				m.tracker.RecordAccess(r.URL)
			}
			return m, openResult(m.client, r)

		case "ctrl+w":
			r, ok := m.list.SelectedResult()
			if !ok || r.Kind != search.KindTab {
				return m, nil
			}
			// Compute the post-close cursor from the pre-removal list;
			// the list itself only shrinks once the refreshed snapshot
			// arrives.
			next := search.ReconcileSelection(len(m.list.Results), m.list.Selected, m.list.Selected)
			m.pendingSelection = &next
			return m, closeTab(m.client, search.TabID(r.ID))

		default:
			old := m.input.Value()
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			if m.input.Value() != old {
				m.rebuild()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.list.Width = msg.Width
		m.list.Height = msg.Height - 4
	}

	return m, tea.Batch(cmds...)
}

func (m *model) cycleSortMethod(delta int) {
	methods := []search.SortMethod{search.SortSmart, search.SortRelevance, search.SortUsage}
	idx := 0
	for i, s := range methods {
		if s == m.sortSettings.SortMethod() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(methods)) % len(methods)
	m.sortSettings.Method = methods[idx].String()
	m.engine.Sort = methods[idx]
	store.SaveSortSettings(m.kv, m.sortSettings)
	m.rebuild()
}

func (m model) updateConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+o":
		m.mode = modeBrowse
	case "up":
		if m.configField > 0 {
			m.configField--
		}
	case "down":
		if m.configField < 1 {
			m.configField++
		}
	case "left", "right", " ":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.configField {
		case 0:
			m.cycleSortMethod(delta)
		case 1:
			if m.openingSettings.Mode == store.OpeningStandard {
				m.openingSettings.Mode = store.OpeningClassic
			} else {
				m.openingSettings.Mode = store.OpeningStandard
			}
			store.SaveTabOpeningSettings(m.kv, m.openingSettings)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.mode == modeConfig {
		return m.configView()
	}

	mode, _ := search.ParseQuery(m.input.Value())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(
		fmt.Sprintf("mode:%s  sort:%s", mode, m.sortSettings.Method))

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(
		"enter: open • ctrl+w: close tab • tab: sort • ctrl+o: settings • esc: quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		status,
		m.list.View(),
		help,
	)
}

func (m model) configView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Settings")
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("Esc: back • Left/Right: change")

	fields := []string{
		fmt.Sprintf("Sort method: %s", m.sortSettings.Method),
		fmt.Sprintf("Opening mode: %s", m.openingSettings.Mode),
	}

	var lines []string
	for i, f := range fields {
		prefix := "  "
		if i == m.configField {
			prefix = "> "
		}
		lines = append(lines, prefix+f)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		help,
		strings.Join(lines, "\n"),
	)
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tabdash", "tabdash.db")
}

func main() {
	port := flag.Int("port", browser.DefaultPort, "DevTools remote debugging port")
	dbPath := flag.String("db", defaultDBPath(), "Path to the settings/usage database")
	bookmarksPath := flag.String("bookmarks", "", "Path to the browser Bookmarks file (auto-detected if empty)")
	poll := flag.Duration("poll", browser.DefaultPollInterval, "Tab watcher poll interval")
	flag.Parse()

	// Storage failures degrade the session, they don't kill it.
	kv, err := store.Open(*dbPath)
	if err != nil {
		slog.Warn("storage unavailable, continuing in-memory", "error", err)
		kv = nil
	} else {
		defer kv.Close()
	}

	tracker := store.NewTracker(kv)
	tracker.Cleanup()

	client := browser.NewClient(*port)

	path := *bookmarksPath
	if path == "" {
		path = browser.DefaultBookmarksPath()
	}
	var bookmarks []search.Bookmark
	if path != "" {
		bookmarks, err = browser.ReadBookmarks(path)
		if err != nil {
			slog.Warn("failed to read bookmarks", "path", path, "error", err)
		}
	}

	// Non-interactive: print the best match for the query and exit.
	if args := flag.Args(); len(args) > 0 {
		query := strings.Join(args, " ")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		tabs, err := client.Tabs(ctx)
		if err != nil {
			slog.Warn("failed to load tabs", "error", err)
		}
		current, _ := client.CurrentTab(ctx)

		engine := search.NewEngine(search.NewMatcher())
		engine.Sort = store.LoadSortSettings(kv).SortMethod()
		engine.Usage = tracker.Usage()
		results := engine.BuildResults(query, tabs, bookmarks, current, time.Now())
		if len(results) == 0 {
			os.Exit(1)
		}
		fmt.Println(results[0].URL)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go browser.NewWatcher(client, tracker, *poll).Run(ctx)
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tracker.Cleanup()
			}
		}
	}()

	p := tea.NewProgram(initialModel(client, tracker, kv, bookmarks), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
