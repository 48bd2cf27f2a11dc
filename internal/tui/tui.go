package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memory/internal/fileutil"
	"github.com/lox/memory/internal/memory"
	"github.com/lox/memory/internal/scoreboard"
)

// Default delays between revealing, hiding and highlighting.
const (
	DefaultRevealDelay    = 250 * time.Millisecond
	DefaultHideDelay      = 750 * time.Millisecond
	DefaultHighlightDelay = time.Second
)

// Invalid save notice, shown when a load fails to decode.
const (
	invalidSaveTitle = "Invalid Save File"
	invalidSaveBody  = "Your save might have been corrupted, please use another save file."
)

type mode int

const (
	modePlay mode = iota
	modePrompt
	modeEnd
	modeNotice
)

type promptKind int

const (
	promptSave promptKind = iota
	promptLoad
	promptRename
)

// Recorder stores finished games.
type Recorder interface {
	Record(ctx context.Context, r scoreboard.Result) error
}

type revealMsg struct {
	gen   int
	index int
}

type hideMsg struct {
	gen int
}

type highlightMsg struct {
	gen    int
	player int
}

type recordedMsg struct {
	gameID string
	err    error
}

// playerLine is the sidebar's copy of one player, refreshed by observers.
type playerLine struct {
	name   string
	badges []int
}

// TUIModel is the Bubble Tea model for a memory game. It owns the game for
// as long as the program runs; every engine call happens inside Update.
type TUIModel struct {
	game     *memory.Game
	logger   *log.Logger
	clock    quartz.Clock
	recorder Recorder

	revealDelay    time.Duration
	hideDelay      time.Duration
	highlightDelay time.Duration
	saveDir        string

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	mode        mode
	prompt      promptKind
	notice      [2]string
	cursor      int
	busy        bool
	gen         int
	highlighted int
	exposed     map[int]int
	recorded    map[string]bool
	players     [2]playerLine
	unwatch     []func()
	watching    [2]*memory.Player
	gameLog     []string
	quitting    bool

	// Dimensions
	width  int
	height int

	// Test mode
	testMode    bool
	capturedLog []string
}

// Option configures a TUIModel.
type Option func(*TUIModel)

// WithClock sets the clock behind every delay.
func WithClock(clock quartz.Clock) Option {
	return func(m *TUIModel) { m.clock = clock }
}

// WithDelays sets how long a revealed card waits before it is selected, how
// long an evaluated pair stays visible, and how long before the next player
// is highlighted.
func WithDelays(reveal, hide, highlight time.Duration) Option {
	return func(m *TUIModel) {
		m.revealDelay = reveal
		m.hideDelay = hide
		m.highlightDelay = highlight
	}
}

// WithSaveDir sets the directory bare save names are resolved against.
func WithSaveDir(dir string) Option {
	return func(m *TUIModel) { m.saveDir = dir }
}

// WithRecorder records every finished game.
func WithRecorder(r Recorder) Option {
	return func(m *TUIModel) { m.recorder = r }
}

// WithTestMode captures log entries instead of rendering them.
func WithTestMode() Option {
	return func(m *TUIModel) { m.testMode = true }
}

// NewTUIModel creates a model playing g. The game should already be dealt.
func NewTUIModel(g *memory.Game, logger *log.Logger, opts ...Option) *TUIModel {
	// Sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	m := &TUIModel{
		game:           g,
		logger:         logger.WithPrefix("tui"),
		clock:          quartz.NewReal(),
		revealDelay:    DefaultRevealDelay,
		hideDelay:      DefaultHideDelay,
		highlightDelay: DefaultHighlightDelay,
		saveDir:        "saves",
		logViewport:    vp,
		input:          ti,
		recorded:       make(map[string]bool),
		highlighted:    g.CurrentIndex(),
		gameLog:        []string{},
		capturedLog:    []string{},
	}
	for _, opt := range opts {
		opt(m)
	}

	g.Subscribe(m.onGameChange)
	m.watchPlayers()
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("New game, %s starts", m.game.CurrentPlayer().Name())))
	return nil
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case revealMsg:
		return m, m.onReveal(msg)

	case hideMsg:
		return m, m.onHide(msg)

	case highlightMsg:
		if msg.gen == m.gen {
			m.highlighted = msg.player
		}
		return m, nil

	case recordedMsg:
		if msg.err != nil {
			m.logger.Error("Failed to record result", "game", msg.gameID, "error", msg.err)
			m.AddLogEntry(ErrorStyle.Render("Could not record result: " + msg.err.Error()))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modePrompt:
			return m, m.updatePrompt(msg)
		case modeEnd:
			return m, m.updateEnd(msg)
		case modeNotice:
			m.mode = modePlay
			return m, nil
		default:
			return m, m.updatePlay(msg)
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *TUIModel) updatePlay(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "enter", " ":
		return m.reveal()
	case "s":
		return m.openPrompt(promptSave)
	case "o":
		return m.openPrompt(promptLoad)
	case "n":
		return m.openPrompt(promptRename)
	case "r":
		m.restart()
	case "pgup":
		m.logViewport.HalfPageUp()
	case "pgdown":
		m.logViewport.HalfPageDown()
	}
	return nil
}

func (m *TUIModel) updateEnd(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		m.restart()
	case "n", "q", "esc":
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *TUIModel) moveCursor(dx, dy int) {
	col := m.cursor%memory.GridColumns + dx
	row := m.cursor/memory.GridColumns + dy
	col = min(max(col, 0), memory.GridColumns-1)
	row = min(max(row, 0), memory.GridRows-1)
	m.cursor = row*memory.GridColumns + col
}

// after delivers msg once d has passed on the model's clock. The timer
// starts now, not when the command runs.
func (m *TUIModel) after(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	timer := m.clock.NewTimer(d, "tui", "delay")
	return func() tea.Msg {
		<-timer.C
		return msg
	}
}

// reveal turns up the card under the cursor. It joins the selection after
// the reveal delay.
func (m *TUIModel) reveal() tea.Cmd {
	if m.busy || m.game.CheckForGameEnd() {
		return nil
	}
	card, ok := m.game.CardAt(m.cursor)
	if !ok || card.Removed() || card.Shown() {
		return nil
	}

	card.Reveal(true)
	m.busy = true
	return m.after(m.revealDelay, revealMsg{gen: m.gen, index: m.cursor})
}

func (m *TUIModel) onReveal(msg revealMsg) tea.Cmd {
	if msg.gen != m.gen {
		return nil
	}
	card, ok := m.game.CardAt(msg.index)
	if !ok {
		m.busy = false
		return nil
	}

	player := m.game.CurrentPlayer()
	res, err := m.game.AddSelectedCard(card)
	if err != nil {
		m.logger.Warn("Card rejected", "index", msg.index, "error", err)
		m.busy = false
		return nil
	}
	if !res.Evaluated {
		m.busy = false
		return nil
	}

	// The engine has already turned both cards down; keep them on screen
	// until the hide delay passes.
	m.exposed = make(map[int]int, 2)
	for _, idx := range res.Indices {
		c, _ := m.game.CardAt(idx)
		id := c.ID()
		if c.Removed() {
			id = res.ID
		}
		m.exposed[idx] = id
	}

	if res.Matched {
		m.AddLogEntry(MatchedStyle.Render(fmt.Sprintf("%s found pair %02d", player.Name(), res.ID)))
	} else {
		a, b := m.exposed[res.Indices[0]], m.exposed[res.Indices[1]]
		m.AddLogEntry(MissedStyle.Render(fmt.Sprintf("%s missed (%02d / %02d)", player.Name(), a, b)))
	}

	return m.after(m.hideDelay, hideMsg{gen: m.gen})
}

func (m *TUIModel) onHide(msg hideMsg) tea.Cmd {
	if msg.gen != m.gen {
		return nil
	}
	m.exposed = nil
	m.busy = false

	if m.game.CheckForGameEnd() {
		return m.finish()
	}
	return m.after(m.highlightDelay, highlightMsg{gen: m.gen, player: m.game.CurrentIndex()})
}

// finish opens the end-of-game prompt and records the result once per game.
func (m *TUIModel) finish() tea.Cmd {
	m.mode = modeEnd
	m.highlighted = -1

	one, two := m.game.FinalScore()
	winner := m.game.WinnerName()
	m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("%s has won the game! (%d-%d)", winner, one, two)))
	m.logger.Info("Game over", "game", m.game.ID(), "winner", winner, "score", fmt.Sprintf("%d-%d", one, two))

	id := m.game.ID()
	if m.recorder == nil || m.recorded[id] {
		return nil
	}
	m.recorded[id] = true

	result := scoreboard.Result{
		GameID:     id,
		PlayerOne:  m.game.PlayerOne().Name(),
		PlayerTwo:  m.game.PlayerTwo().Name(),
		ScoreOne:   one,
		ScoreTwo:   two,
		FinishedAt: m.clock.Now(),
	}
	if w := m.game.CheckForWinner(); w != nil {
		result.Winner = w.Name()
	}
	recorder := m.recorder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return recordedMsg{gameID: result.GameID, err: recorder.Record(ctx, result)}
	}
}

func (m *TUIModel) restart() {
	m.game.Restart()
	m.resetView()
	m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("New game, %s starts", m.game.CurrentPlayer().Name())))
}

// resetView drops pending timers and transient state after the game was
// replaced underneath the view.
func (m *TUIModel) resetView() {
	m.gen++
	m.busy = false
	m.exposed = nil
	m.mode = modePlay
	m.highlighted = m.game.CurrentIndex()
}

func (m *TUIModel) openPrompt(kind promptKind) tea.Cmd {
	if m.busy {
		return nil
	}
	m.mode = modePrompt
	m.prompt = kind
	m.input.SetValue("")

	switch kind {
	case promptSave:
		m.input.Prompt = "Save as: "
		m.input.Placeholder = "name" + memory.SaveExt
	case promptLoad:
		m.input.Prompt = "Load: "
		m.input.Placeholder = "name" + memory.SaveExt
	case promptRename:
		m.input.Prompt = "Rename " + m.game.CurrentPlayer().Name() + ": "
		m.input.Placeholder = m.game.CurrentPlayer().Name()
	}
	return m.input.Focus()
}

func (m *TUIModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		if value == "" {
			return nil
		}
		switch kind {
		case promptSave:
			m.save(value)
		case promptLoad:
			m.load(value)
		case promptRename:
			m.game.CurrentPlayer().SetName(value)
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *TUIModel) closePrompt() {
	m.input.Blur()
	m.input.SetValue("")
	if m.mode == modePrompt {
		m.mode = modePlay
	}
}

func (m *TUIModel) resolve(name string) string {
	if m.saveDir == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(m.saveDir, name)
}

func (m *TUIModel) save(name string) {
	path := m.resolve(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			m.logger.Error("Failed to create save directory", "dir", dir, "error", err)
			m.AddLogEntry(ErrorStyle.Render("Save failed: " + err.Error()))
			return
		}
	}

	written, err := m.game.WriteSaveFile(path)
	if err != nil {
		m.logger.Error("Failed to save game", "path", written, "error", err)
		m.AddLogEntry(ErrorStyle.Render("Save failed: " + err.Error()))
		return
	}
	m.AddLogEntry(SuccessStyle.Render("Saved to " + written))
}

func (m *TUIModel) load(name string) {
	path := m.resolve(name)
	if !fileutil.HasExt(path, memory.SaveExt) {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Only %s files can be loaded", memory.SaveExt)))
		return
	}

	err := m.game.ReadSaveFile(path)
	switch {
	case err == nil:
		m.resetView()
		m.AddLogEntry(SuccessStyle.Render("Loaded " + path))
	case errors.Is(err, memory.ErrMalformedSave):
		m.logger.Warn("Invalid save file", "path", path, "error", err)
		m.restart()
		m.mode = modeNotice
		m.notice = [2]string{invalidSaveTitle, invalidSaveBody}
	default:
		m.logger.Error("Failed to load game", "path", path, "error", err)
		m.AddLogEntry(ErrorStyle.Render("Load failed: " + err.Error()))
	}
}

// onGameChange keeps the sidebar in step with the engine and follows
// player replacement on restart and load.
func (m *TUIModel) onGameChange(g *memory.Game) {
	if g == nil {
		return
	}
	if g.PlayerOne() != m.watching[0] || g.PlayerTwo() != m.watching[1] {
		m.watchPlayers()
	}
}

func (m *TUIModel) watchPlayers() {
	for _, unsubscribe := range m.unwatch {
		unsubscribe()
	}
	m.unwatch = m.unwatch[:0]

	for i, p := range m.game.Players() {
		m.watching[i] = p
		m.refreshPlayer(i, p)
		m.unwatch = append(m.unwatch, p.Subscribe(func(p *memory.Player) {
			if p == nil {
				return
			}
			m.refreshPlayer(i, p)
		}))
	}
}

func (m *TUIModel) refreshPlayer(i int, p *memory.Player) {
	m.players[i] = playerLine{name: p.Name(), badges: p.BadgeIDs()}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render("Memory")
	board := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1).
			Render(m.renderGrid()),
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1).
			Width(30).
			Render(m.renderSidebar()),
	)

	footer := m.renderFooter()

	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(board) - lipgloss.Height(footer) - 2
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(logHeight, 1)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, board, logPane, footer)
}

// renderGrid draws the 6x6 board, one two-digit cell per card.
func (m *TUIModel) renderGrid() string {
	var rows []string
	cards := m.game.Cards()
	for row := range memory.GridRows {
		var cells []string
		for col := range memory.GridColumns {
			idx := row*memory.GridColumns + col
			cell := m.renderCell(idx, cards[idx])
			if idx == m.cursor && m.mode == modePlay {
				cell = CursorStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func (m *TUIModel) renderCell(idx int, card *memory.Card) string {
	if id, ok := m.exposed[idx]; ok {
		style := MissedStyle
		if card.Removed() {
			style = MatchedStyle
		}
		return style.Render(fmt.Sprintf("%02d", id))
	}

	switch card.Status() {
	case memory.StatusRemoved:
		return "  "
	case memory.StatusShown:
		return CardFaceStyle.Render(fmt.Sprintf("%02d", card.ID()))
	default:
		if m.game.CheatMode() {
			return CheatFaceStyle.Render(fmt.Sprintf("%02d", card.ID()))
		}
		return CardBackStyle.Render("░░")
	}
}

func (m *TUIModel) renderSidebar() string {
	var content strings.Builder

	for i, p := range m.players {
		line := fmt.Sprintf("%s: %d", p.name, len(p.badges))
		if i == m.highlighted {
			content.WriteString(CurrentPlayerStyle.Render("▶ " + line))
		} else {
			content.WriteString(PlayerInfoStyle.Render("  " + line))
		}
		content.WriteString("\n")

		ids := make([]string, len(p.badges))
		for j, id := range p.badges {
			ids[j] = fmt.Sprintf("%02d", id)
		}
		content.WriteString(InfoStyle.Render("  " + strings.Join(ids, " ")))
		content.WriteString("\n\n")
	}

	content.WriteString(InfoStyle.Render(fmt.Sprintf("Pairs left: %d", m.game.RemainingPairs())))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Game " + shortID(m.game.ID())))
	return content.String()
}

func (m *TUIModel) renderFooter() string {
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	switch m.mode {
	case modePrompt:
		return m.input.View() + "\n" + help.Render("Enter to confirm • Esc to cancel")

	case modeEnd:
		one, two := m.game.FinalScore()
		return ModalStyle.Render(strings.Join([]string{
			WarningStyle.Render(m.game.WinnerName() + " has won the game!"),
			fmt.Sprintf("Final score: %d-%d, want to play another game?", one, two),
			help.Render("[y] play again • [n] quit"),
		}, "\n"))

	case modeNotice:
		return ModalStyle.Render(strings.Join([]string{
			ErrorStyle.Render(m.notice[0]),
			m.notice[1],
			help.Render("Press any key"),
		}, "\n"))
	}

	return help.Render("←↓↑→/hjkl move • Enter reveal • s save • o load • n rename • r restart • q quit")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// Cursor returns the grid index under the cursor.
func (m *TUIModel) Cursor() int { return m.cursor }

// Highlighted returns the seat shown as the current player, or -1 once the
// game is over.
func (m *TUIModel) Highlighted() int { return m.highlighted }
