package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/tuxx/goxkb/xkb"
	"github.com/tuxx/goxkb/xkb/compose"
)

// NewTracer creates a tracer over state. composeState may be nil.
func NewTracer(state *xkb.State, composeState *compose.State, mode xkb.ConsumedMode, out io.Writer) *Tracer {
	return &Tracer{
		keymap:  state.Keymap(),
		state:   state,
		compose: composeState,
		mode:    mode,
		out:     out,
	}
}

// Close releases the tracer's keymap reference
func (t *Tracer) Close() {
	t.keymap.Unref()
}

// State returns the traced state
func (t *Tracer) State() *xkb.State {
	return t.state
}

// HandleKey traces a press or repeat and then applies the event to the
// state. Releases only update the state. Repeats of keys that do not
// repeat are dropped.
func (t *Tracer) HandleKey(ev KeyEvent) {
	if ev.Repeat && !t.keymap.KeyRepeats(ev.Keycode) {
		return
	}
	if ev.Down {
		fmt.Fprintln(t.out, t.Describe(ev.Keycode))
	}
	if t.external || ev.Repeat {
		return
	}

	dir := xkb.DirectionUp
	if ev.Down {
		dir = xkb.DirectionDown
	}
	if changed := t.state.UpdateKey(ev.Keycode, dir); changed != 0 {
		Debug("State components changed: %s", describeComponents(changed))
	}
}

// UpdateMask mirrors state sent by a server. Once used, HandleKey no longer
// updates the state itself.
func (t *Tracer) UpdateMask(depressed, latched, locked xkb.ModMask, group xkb.LayoutIndex) {
	t.external = true
	changed := t.state.UpdateMask(depressed, latched, locked, 0, 0, group)
	if changed != 0 {
		fmt.Fprintf(t.out, "state [ %s] mods [ %s] layout [ %s ] leds [ %s]\n",
			describeComponents(changed), t.activeMods(), t.activeLayout(), t.activeLeds())
	}
}

// Describe formats everything the state knows about key
func (t *Tracer) Describe(key xkb.Keycode) string {
	var b strings.Builder

	name, _ := t.keymap.KeyName(key)
	fmt.Fprintf(&b, "keycode [ %-4s (%d) ]", name, key)

	syms := t.state.KeySyms(key)
	b.WriteString(" keysyms [ ")
	for _, ks := range syms {
		fmt.Fprintf(&b, "%-12s ", ks)
	}
	b.WriteString("]")

	fmt.Fprintf(&b, " unicode [ %s ]", printable(t.state.KeyUTF8(key)))

	if t.compose != nil {
		b.WriteString(t.feedCompose(syms))
	}

	layout := t.state.KeyLayout(key)
	if layout != xkb.LayoutInvalid {
		fmt.Fprintf(&b, " layout [ %s (%d) ] level [ %d ]",
			t.keymap.LayoutName(layout), layout, t.state.KeyLevel(key, layout))
	}

	fmt.Fprintf(&b, " mods [ %s]", t.activeMods())
	if consumed := t.consumedMods(key); consumed != "" {
		fmt.Fprintf(&b, " consumed [ %s]", consumed)
	}
	if leds := t.activeLeds(); leds != "" {
		fmt.Fprintf(&b, " leds [ %s]", leds)
	}
	if t.keymap.KeyRepeats(key) {
		b.WriteString(" repeats")
	}
	return b.String()
}

func (t *Tracer) feedCompose(syms []xkb.Keysym) string {
	if len(syms) != 1 {
		return ""
	}
	if t.compose.Feed(syms[0]) == compose.FeedIgnored {
		return ""
	}
	switch t.compose.Status() {
	case compose.StatusComposing:
		return " compose [ pending ]"
	case compose.StatusComposed:
		text, _ := t.compose.UTF8()
		ks, _ := t.compose.Keysym()
		return fmt.Sprintf(" compose [ %s %s ]", ks, printable(text))
	case compose.StatusCancelled:
		return " compose [ cancelled ]"
	}
	return ""
}

func (t *Tracer) activeMods() string {
	var b strings.Builder
	it := t.keymap.Mods()
	for it.Next() {
		idx := xkb.ModIndex(it.Index())
		if !t.state.ModIndexIsActive(idx, xkb.StateModsEffective) {
			continue
		}
		b.WriteString(it.Name())
		switch {
		case t.state.ModIndexIsActive(idx, xkb.StateModsLocked):
			b.WriteString("(locked)")
		case t.state.ModIndexIsActive(idx, xkb.StateModsLatched):
			b.WriteString("(latched)")
		}
		b.WriteString(" ")
	}
	return b.String()
}

func (t *Tracer) consumedMods(key xkb.Keycode) string {
	consumed := t.state.KeyConsumedModsMode(key, t.mode)
	var b strings.Builder
	it := t.keymap.Mods()
	for it.Next() {
		if consumed&(1<<it.Index()) != 0 {
			b.WriteString(it.Name())
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (t *Tracer) activeLeds() string {
	var b strings.Builder
	it := t.keymap.Leds()
	for it.Next() {
		if it.Name() != "" && t.state.LedIndexIsActive(xkb.LedIndex(it.Index())) {
			b.WriteString(it.Name())
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (t *Tracer) activeLayout() string {
	layout := t.state.SerializeLayout(xkb.StateLayoutEffective)
	return fmt.Sprintf("%s (%d)", t.keymap.LayoutName(layout), layout)
}

var componentNames = []struct {
	c    xkb.StateComponent
	name string
}{
	{xkb.StateModsDepressed, "mods-depressed"},
	{xkb.StateModsLatched, "mods-latched"},
	{xkb.StateModsLocked, "mods-locked"},
	{xkb.StateModsEffective, "mods-effective"},
	{xkb.StateLayoutDepressed, "layout-depressed"},
	{xkb.StateLayoutLatched, "layout-latched"},
	{xkb.StateLayoutLocked, "layout-locked"},
	{xkb.StateLayoutEffective, "layout-effective"},
	{xkb.StateLeds, "leds"},
}

func describeComponents(changed xkb.StateComponent) string {
	var b strings.Builder
	for _, c := range componentNames {
		if changed&c.c != 0 {
			b.WriteString(c.name)
			b.WriteString(" ")
		}
	}
	return b.String()
}

// printable escapes control characters so traces stay on one line
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(&b, "U+%04X", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
