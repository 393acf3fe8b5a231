package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/events"
)

// ApplyCheat runs a cheat code. Codes are trimmed and otherwise matched
// exactly; unknown codes change nothing.
func (e *Engine) ApplyCheat(code string) error {
	code = strings.TrimSpace(code)
	ch, ok := e.cat.Cheat(code)
	if !ok {
		return fmt.Errorf("%q: %w", code, ErrUnknownCheat)
	}

	switch ch.Effect {
	case catalog.CheatBufos:
		e.st.Earn(ch.Value)
	case catalog.CheatMultiplier:
		d := time.Duration(ch.Duration * float64(time.Second))
		e.TriggerAdHoc(catalog.CheatBoostID, ch.Value, d, ch.Description, e.now)
	case catalog.CheatUnlockAll:
		for i := range e.st.Purchased {
			e.st.Purchased[i] = true
		}
		e.Recompute()
	}

	e.publish(events.EventCheatApplied, events.CheatData{Code: ch.Code, Description: ch.Description})
	e.notify("Cheat activated: "+ch.Description, events.EmphasisHigh)
	e.log.Info("cheat applied", "code", ch.Code)
	return nil
}

// SelectTheme switches the visual theme.
func (e *Engine) SelectTheme(id string) error {
	if _, ok := e.cat.Theme(id); !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownTheme)
	}
	e.st.Theme = id
	e.publish(events.EventThemeChanged, events.ThemeData{ID: id})
	return nil
}
