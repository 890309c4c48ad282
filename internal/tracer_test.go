package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuxx/goxkb/xkb"
)

func press(tr *Tracer, key xkb.Keycode) {
	tr.HandleKey(KeyEvent{Keycode: key, Down: true})
}

func release(tr *Tracer, key xkb.Keycode) {
	tr.HandleKey(KeyEvent{Keycode: key})
}

func TestTracerPrintsPresses(t *testing.T) {
	tr, out := newTestTracer(t, nil)

	press(tr, testKeyA)
	release(tr, testKeyA)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "keycode [ AC01 (38) ]")
	assert.Contains(t, lines[0], "keysyms [ a ")
	assert.Contains(t, lines[0], "unicode [ a ]")
	assert.Contains(t, lines[0], "layout [ Test (0) ] level [ 0 ]")
	assert.Contains(t, lines[0], "repeats")
}

func TestTracerUpdatesState(t *testing.T) {
	tr, out := newTestTracer(t, nil)

	press(tr, testKeyShift)
	out.Reset()
	press(tr, testKeyA)
	assert.Contains(t, out.String(), "keysyms [ A ")
	assert.Contains(t, out.String(), "level [ 1 ]")
	assert.Contains(t, out.String(), "mods [ Shift ]")
	assert.Contains(t, out.String(), "consumed [ Shift ")

	release(tr, testKeyA)
	release(tr, testKeyShift)
	out.Reset()
	press(tr, testKeyA)
	assert.Contains(t, out.String(), "keysyms [ a ")
	assert.False(t, tr.State().ModNameIsActive(xkb.ModNameShift, xkb.StateModsEffective))
}

func TestTracerCapsLock(t *testing.T) {
	tr, out := newTestTracer(t, nil)

	press(tr, testKeyCaps)
	release(tr, testKeyCaps)
	out.Reset()
	press(tr, testKeyA)
	assert.Contains(t, out.String(), "keysyms [ A ")
	assert.Contains(t, out.String(), "Lock(locked)")
	assert.Contains(t, out.String(), "leds [ Caps Lock ]")
}

func TestTracerRepeatDoesNotUpdate(t *testing.T) {
	tr, out := newTestTracer(t, nil)

	tr.HandleKey(KeyEvent{Keycode: testKeyA, Down: true, Repeat: true})
	assert.Contains(t, out.String(), "keycode [ AC01 (38) ]")

	out.Reset()
	press(tr, testKeyCaps)
	out.Reset()
	tr.HandleKey(KeyEvent{Keycode: testKeyCaps, Down: true, Repeat: true})
	release(tr, testKeyCaps)
	assert.True(t, tr.State().ModNameIsActive(xkb.ModNameCaps, xkb.StateModsLocked))
}

func TestTracerDropsRepeatsOfNonRepeatingKeys(t *testing.T) {
	ctx := newTestContext(t)
	tr, out := newTestTracer(t, newTestComposeState(t, ctx))

	tr.HandleKey(KeyEvent{Keycode: testKeyShift, Down: true, Repeat: true})
	assert.Empty(t, out.String())
	assert.False(t, tr.State().ModNameIsActive(xkb.ModNameShift, xkb.StateModsEffective))

	press(tr, testKeyAcute)
	out.Reset()
	tr.HandleKey(KeyEvent{Keycode: testKeyShift, Down: true, Repeat: true})
	press(tr, testKeyA)
	assert.Contains(t, out.String(), "compose [ aacute á ]")
}

func TestTracerUpdateMask(t *testing.T) {
	tr, out := newTestTracer(t, nil)

	shift := xkb.ModMask(1) << tr.keymap.ModIndex(xkb.ModNameShift)
	tr.UpdateMask(shift, 0, 0, 0)
	assert.Contains(t, out.String(), "mods-depressed")
	assert.Contains(t, out.String(), "mods [ Shift ]")

	// The server owns the state now; key events only describe.
	out.Reset()
	press(tr, testKeyCaps)
	release(tr, testKeyCaps)
	assert.False(t, tr.State().ModNameIsActive(xkb.ModNameCaps, xkb.StateModsLocked))

	out.Reset()
	tr.UpdateMask(shift, 0, 0, 0)
	assert.Empty(t, out.String())
}

func TestTracerCompose(t *testing.T) {
	ctx := newTestContext(t)
	tr, out := newTestTracer(t, newTestComposeState(t, ctx))

	press(tr, testKeyAcute)
	release(tr, testKeyAcute)
	assert.Contains(t, out.String(), "compose [ pending ]")

	out.Reset()
	press(tr, testKeyA)
	assert.Contains(t, out.String(), "compose [ aacute á ]")

	out.Reset()
	press(tr, testKeyAcute)
	press(tr, testKey1)
	assert.Contains(t, out.String(), "compose [ cancelled ]")
}

func TestTracerControlCharacters(t *testing.T) {
	tr, out := newTestTracer(t, nil)

	press(tr, testKeyEsc)
	assert.Contains(t, out.String(), "unicode [ U+001B ]")
}

func TestDescribeComponents(t *testing.T) {
	assert.Equal(t, "", describeComponents(0))
	assert.Equal(t, "mods-depressed mods-effective leds ",
		describeComponents(xkb.StateModsDepressed|xkb.StateModsEffective|xkb.StateLeds))
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, "á", printable("á"))
	assert.Equal(t, "U+000DU+007F", printable("\r\x7f"))
}
