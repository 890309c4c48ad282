package xkb

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/test.xkb
var testKeymap string

// Keycodes in testdata/test.xkb.
const (
	testKeyEsc   Keycode = 9
	testKey1     Keycode = 10
	testKeyCtrl  Keycode = 37
	testKeyA     Keycode = 38
	testKeyAcute Keycode = 48
	testKeyShift Keycode = 50
	testKeySpace Keycode = 65
	testKeyCaps  Keycode = 66
)

func skipWithoutLibrary(t *testing.T) {
	t.Helper()
	if err := Load(); err != nil {
		t.Skipf("libxkbcommon not available: %v", err)
	}
}

func newTestContext(t *testing.T, flags ContextFlags) *Context {
	t.Helper()
	skipWithoutLibrary(t)
	ctx, err := NewContext(flags | ContextNoEnvironmentNames)
	require.NoError(t, err)
	t.Cleanup(ctx.Unref)
	return ctx
}

func newTestKeymap(t *testing.T) *Keymap {
	t.Helper()
	ctx := newTestContext(t, ContextNoDefaultIncludes)
	km, err := NewKeymapFromString(ctx, testKeymap, KeymapFormatTextV1, KeymapCompileNoFlags)
	require.NoError(t, err)
	t.Cleanup(km.Unref)
	return km
}

func newTestState(t *testing.T) (*Keymap, *State) {
	t.Helper()
	km := newTestKeymap(t)
	st, err := NewState(km)
	require.NoError(t, err)
	t.Cleanup(st.Unref)
	return km, st
}

// keymapSummary holds what a serialize/recompile round trip must keep.
type keymapSummary struct {
	Min, Max Keycode
	Mods     []string
	Layouts  []string
	Leds     []string
	Keys     map[Keycode]string
}

func summarize(km *Keymap) keymapSummary {
	s := keymapSummary{
		Min:     km.MinKeycode(),
		Max:     km.MaxKeycode(),
		Mods:    km.Mods().Collect(),
		Layouts: km.Layouts().Collect(),
		Leds:    km.Leds().Collect(),
		Keys:    make(map[Keycode]string),
	}
	for _, key := range km.Keycodes() {
		s.Keys[key], _ = km.KeyName(key)
	}
	return s
}
