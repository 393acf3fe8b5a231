package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/narrator"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateCheat
	stateConfirmReset
)

type panel int

const (
	panelBuildings panel = iota
	panelUpgrades
	panelAchievements
	panelCount
)

const (
	floatLifetime = 2 * time.Second
	maxLogLines   = 200
)

// floater is a notification drifting over the pond until it fades.
type floater struct {
	text     string
	emphasis events.Emphasis
	at       time.Time
}

// feed collects what event handlers saw between updates. Handlers run inside
// session calls made from Update, so no locking is needed.
type feed struct {
	moments []narrator.Moment
}

// Options wires optional collaborators into the TUI.
type Options struct {
	// Interval is the redraw and tick period.
	Interval time.Duration
	// Narrator adds quips; nil disables them.
	Narrator *narrator.Narrator
	Logger   *slog.Logger
}

type model struct {
	state     sessionState
	panel     panel
	session   *engine.Session
	scheduler *engine.Scheduler
	narrator  *narrator.Narrator
	interval  time.Duration
	log       *slog.Logger

	snap      engine.Snapshot
	feed      *feed
	floats    []floater
	logLines  []string
	quip      string
	quipping  bool
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	width     int
	height    int
}

func newModel(sess *engine.Session, sched *engine.Scheduler, opts Options) model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Enter a cheat code..."
	ti.CharLimit = 64
	ti.Width = 30

	f := &feed{}
	if opts.Narrator != nil {
		sess.Subscribe(func(ev events.Event) {
			if m, ok := narrator.MomentFor(ev, sess.Engine().State().Bufos); ok {
				f.moments = append(f.moments, m)
			}
		})
	}

	return model{
		state:     statePlaying,
		session:   sess,
		scheduler: sched,
		narrator:  opts.Narrator,
		interval:  opts.Interval,
		log:       opts.Logger.With("component", "tui"),
		snap:      sess.Snapshot(),
		feed:      f,
		textInput: ti,
		viewport:  viewport.New(30, 8),
	}
}

type tickMsg time.Time

type quipMsg struct {
	text string
	err  error
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		m.scheduler.Step(m.session)
		m.refresh(time.Time(msg))
		cmds = append(cmds, m.tick())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.pondSize()
		m.session.SetBounds(engine.Bounds{Width: w, Height: h, Margin: 1, Size: 1})
		m.viewport.Width = m.sideWidth()
		m.viewport.Height = max(m.height-h-8, 3)
		m.viewport.SetContent(strings.Join(m.logLines, "\n"))

	case quipMsg:
		m.quipping = false
		if msg.err != nil {
			m.log.Debug("quip failed", "err", msg.err)
		} else {
			m.quip = msg.text
		}

	case tea.KeyMsg:
		var cmd tea.Cmd
		var quit bool
		m, cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
		m.refresh(time.Now())
	}

	if cmd := m.nextQuip(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		m.saveOnExit()
		return m, nil, true
	}

	switch m.state {
	case stateCheat:
		switch msg.Type {
		case tea.KeyEsc:
			m.state = statePlaying
			m.textInput.Blur()
			m.textInput.Reset()
			return m, nil, false
		case tea.KeyEnter:
			code := m.textInput.Value()
			m.state = statePlaying
			m.textInput.Blur()
			m.textInput.Reset()
			if err := m.session.OnCheat(code); err != nil {
				m.flash("Unknown cheat code", events.EmphasisMuted)
			}
			return m, nil, false
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd, false

	case stateConfirmReset:
		if msg.String() == "y" {
			if err := m.session.Reset(); err != nil {
				m.err = err
			}
		}
		m.state = statePlaying
		return m, nil, false
	}

	switch key := msg.String(); key {
	case "q", "esc":
		m.saveOnExit()
		return m, nil, true
	case " ", "enter":
		m.session.OnClick()
	case "tab":
		m.panel = (m.panel + 1) % panelCount
	case "shift+tab":
		m.panel = (m.panel + panelCount - 1) % panelCount
	case "g":
		if err := m.session.OnClaimBonusObject(); err != nil && !errors.Is(err, engine.ErrNoBonus) {
			m.err = err
		}
	case "c":
		m.state = stateCheat
		return m, m.textInput.Focus(), false
	case "t":
		m.cycleTheme()
	case "s":
		if err := m.session.Save(); err != nil {
			m.err = err
		} else {
			m.flash("Game saved", events.EmphasisMuted)
		}
	case "r":
		m.state = stateConfirmReset
	case "up", "k", "down", "j", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, false
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.buy(int(key[0] - '1'))
		}
	}
	return m, nil, false
}

// buy purchases the nth item of the visible panel.
func (m *model) buy(i int) {
	var err error
	switch m.panel {
	case panelBuildings:
		err = m.session.OnPurchaseBuilding(i)
	case panelUpgrades:
		err = m.session.OnPurchaseUpgrade(i)
	default:
		return
	}
	switch {
	case errors.Is(err, engine.ErrInsufficientFunds):
		m.flash("Not enough bufos", events.EmphasisMuted)
	case errors.Is(err, engine.ErrAlreadyPurchased):
		m.flash("Already purchased", events.EmphasisMuted)
	}
}

func (m *model) cycleTheme() {
	themes := m.session.Engine().Catalog().Themes
	if len(themes) == 0 {
		return
	}
	next := 0
	for i, th := range themes {
		if th.ID == m.snap.Theme.ID {
			next = (i + 1) % len(themes)
			break
		}
	}
	if err := m.session.OnThemeSelect(themes[next].ID); err != nil {
		m.err = err
	}
}

func (m *model) saveOnExit() {
	if err := m.session.Save(); err != nil {
		m.log.Error("save on exit failed", "err", err)
	}
}

// flash shows a local message that did not come from the game.
func (m *model) flash(text string, emphasis events.Emphasis) {
	m.floats = append(m.floats, floater{text: text, emphasis: emphasis, at: time.Now()})
}

// refresh pulls the latest snapshot and notifications and ages out floaters.
func (m *model) refresh(now time.Time) {
	m.snap = m.session.Snapshot()

	logged := false
	for _, n := range m.session.DrainNotifications() {
		m.floats = append(m.floats, floater{text: n.Text, emphasis: n.Emphasis, at: now})
		if n.Emphasis != events.EmphasisMuted {
			m.logLines = append(m.logLines, now.Format("15:04:05")+" "+n.Text)
			logged = true
		}
	}
	if logged {
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		m.viewport.SetContent(strings.Join(m.logLines, "\n"))
		m.viewport.GotoBottom()
	}

	live := m.floats[:0]
	for _, f := range m.floats {
		if now.Sub(f.at) < floatLifetime {
			live = append(live, f)
		}
	}
	m.floats = live
}

// nextQuip starts one narrator request at a time. Moments that pile up while
// a request is in flight are dropped except the newest.
func (m *model) nextQuip() tea.Cmd {
	if m.narrator == nil || m.quipping || len(m.feed.moments) == 0 {
		return nil
	}
	moment := m.feed.moments[len(m.feed.moments)-1]
	m.feed.moments = m.feed.moments[:0]
	m.quipping = true

	n := m.narrator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		text, err := n.Quip(ctx, moment)
		return quipMsg{text: text, err: err}
	}
}

// Run drives sess from a full-screen terminal UI until the player quits.
func Run(ctx context.Context, sess *engine.Session, sched *engine.Scheduler, opts Options) error {
	p := tea.NewProgram(newModel(sess, sched, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
