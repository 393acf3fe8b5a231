package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/events"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1).
			PaddingRight(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	goldenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)

const bufoArt = "(o.o)"

func (m model) View() string {
	accent := lipgloss.Color(m.snap.Theme.Color)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Foreground(accent).Render("BUFO CLICKER"),
		"  ",
		helpStyle.Render(m.snap.Theme.Name+" pond"),
	)
	counter := gameStyle.Bold(true).Render(fmt.Sprintf("Bufos: %s", engine.FormatNumber(m.snap.Bufos))) +
		mutedStyle.Render(fmt.Sprintf("   +%s/s   click %s",
			engine.FormatNumber(m.snap.Rate), engine.FormatNumber(m.snap.ClickValue)))

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderPond(accent),
		m.renderFloats(time.Now()),
		m.renderBoosts(),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderState())

	var prompt string
	switch m.state {
	case stateCheat:
		prompt = m.textInput.View()
	case stateConfirmReset:
		prompt = userStyle.Render("Reset all progress? (y/n)")
	default:
		if m.quip != "" {
			prompt = helpStyle.Render("“" + m.quip + "”")
		}
	}

	help := helpStyle.Render("space click · 1-9 buy · tab panel · g golden bufo · c cheat · t theme · s save · r reset · q quit")

	parts := []string{header, counter, "", main, "", prompt, help}
	if m.err != nil {
		parts = append(parts, errStyle.Render("Error: "+m.err.Error()))
	}
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m model) pondSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 40, 10
	}
	return max(m.width-m.sideWidth()-6, 20), max(m.height/2-4, 6)
}

func (m model) sideWidth() int {
	if m.width == 0 {
		return 40
	}
	return max(int(float64(m.width)*0.4), 30)
}

// renderPond draws the play area with the bufo in the middle and the golden
// bufo, if any, at its spawn position.
func (m model) renderPond(accent lipgloss.Color) string {
	w, h := m.pondSize()
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", w))
	}

	art := []rune(bufoArt)
	cx, cy := (w-len(art))/2, h/2
	copy(grid[cy][cx:], art)

	lines := make([]string, h)
	for y, row := range grid {
		lines[y] = string(row)
	}

	if b := m.snap.Bonus; b != nil {
		x, y := min(max(b.X, 0), w-1), min(max(b.Y, 0), h-1)
		row := []rune(lines[y])
		lines[y] = string(row[:x]) + goldenStyle.Render("@") + string(row[x+1:])
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
	return box.Render(strings.Join(lines, "\n"))
}

// renderFloats shows recent notifications, dimming them as they age.
func (m model) renderFloats(now time.Time) string {
	const shown = 3
	floats := m.floats
	if len(floats) > shown {
		floats = floats[len(floats)-shown:]
	}

	lines := make([]string, shown)
	for i, f := range floats {
		age := now.Sub(f.at)
		style := gameStyle
		switch {
		case age > floatLifetime*3/5:
			style = dimStyle
		case f.emphasis == events.EmphasisHigh:
			style = goldenStyle
		case f.emphasis == events.EmphasisMuted:
			style = mutedStyle
		}
		lines[i] = style.Render(f.text)
	}
	return strings.Join(lines, "\n")
}

func (m model) renderBoosts() string {
	if len(m.snap.Boosts) == 0 {
		return mutedStyle.Render("No active boosts")
	}
	parts := make([]string, len(m.snap.Boosts))
	for i, b := range m.snap.Boosts {
		parts[i] = goldenStyle.Render(fmt.Sprintf("%s x%g", b.Description, b.Multiplier)) +
			mutedStyle.Render(fmt.Sprintf(" %ds", int(b.Remaining.Round(time.Second).Seconds())))
	}
	return strings.Join(parts, "  ")
}

// renderState draws the side column: the selected shop panel and the event log.
func (m model) renderState() string {
	var b strings.Builder

	tabs := []string{"Buildings", "Upgrades", "Achievements"}
	for i, name := range tabs {
		if panel(i) == m.panel {
			b.WriteString(titleStyle.Render(strings.ToUpper(name)))
		} else {
			b.WriteString(mutedStyle.Render(name))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	switch m.panel {
	case panelBuildings:
		for i, bv := range m.snap.Buildings {
			line := fmt.Sprintf("%d %-14s x%-3d %8s  +%s/s", i+1, bv.Name, bv.Owned,
				engine.FormatNumber(bv.Cost), engine.FormatNumber(bv.Rate))
			b.WriteString(affordStyle(bv.Affordable).Render(line) + "\n")
		}
	case panelUpgrades:
		for i, u := range m.snap.Upgrades {
			status := engine.FormatNumber(u.Cost)
			if u.Purchased {
				status = "owned"
			}
			line := fmt.Sprintf("%d %-22s %8s", i+1, u.Name, status)
			b.WriteString(affordStyle(u.Affordable).Render(line) + "\n")
		}
	case panelAchievements:
		fmt.Fprintf(&b, "%d / %d unlocked\n", m.snap.EarnedCount(), len(m.snap.Achievements))
		for _, a := range m.snap.Achievements {
			if a.Earned {
				b.WriteString(gameStyle.Render("★ "+a.Name) + "\n")
			} else {
				b.WriteString(mutedStyle.Render("☆ "+a.Description) + "\n")
			}
		}
	}

	b.WriteString("\n" + titleStyle.Render("LOG") + "\n")
	b.WriteString(m.viewport.View())

	return stateStyle.Width(m.sideWidth()).Render(b.String())
}

func affordStyle(ok bool) lipgloss.Style {
	if ok {
		return gameStyle
	}
	return mutedStyle
}
