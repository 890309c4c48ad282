package internal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuxx/goxkb/xkb"
)

func TestParseKeysym(t *testing.T) {
	skipWithoutLibrary(t)

	tests := []struct {
		arg  string
		want xkb.Keysym
	}{
		{"a", xkb.Keya},
		{"Escape", xkb.KeyEscape},
		{"á", xkb.Keyaacute},
		{"U+00E1", xkb.Keyaacute},
		{"u+00c1", xkb.KeyAacute},
		{"0xff1b", xkb.KeyEscape},
		{"ESCAPE", xkb.KeyEscape},
		{"!", xkb.KeyExclam},
	}
	for _, tt := range tests {
		got, err := ParseKeysym(tt.arg)
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}
}

func TestParseKeysymErrors(t *testing.T) {
	skipWithoutLibrary(t)

	for _, arg := range []string{"", "NotAKeysymAtAll", "U+zz", "0xnope"} {
		_, err := ParseKeysym(arg)
		assert.Error(t, err, arg)
	}
}

func TestHowToType(t *testing.T) {
	km := newTestKeymap(t)
	shift := xkb.ModMask(1) << km.ModIndex(xkb.ModNameShift)
	lock := xkb.ModMask(1) << km.ModIndex(xkb.ModNameCaps)

	combos := HowToType(km, xkb.KeyA)
	require.Len(t, combos, 1)
	c := combos[0]
	assert.Equal(t, testKeyA, c.Keycode)
	assert.Equal(t, "AC01", c.KeyName)
	assert.Equal(t, xkb.LayoutIndex(0), c.Layout)
	assert.Equal(t, xkb.LevelIndex(1), c.Level)
	assert.Contains(t, c.Mods, shift)
	assert.Contains(t, c.Mods, lock)

	combos = HowToType(km, xkb.Keya)
	require.Len(t, combos, 1)
	assert.Equal(t, xkb.LevelIndex(0), combos[0].Level)
	assert.Contains(t, combos[0].Mods, xkb.ModMask(0))

	assert.Empty(t, HowToType(km, xkb.KeyAacute))
}

func TestHowToTypeSkipsMultiKeysymLevels(t *testing.T) {
	ctx := newTestContext(t)
	text := strings.Replace(testKeymap, "key <SPCE> { [ space ] };", "key <SPCE> { [ { a, space } ] };", 1)
	require.NotEqual(t, testKeymap, text)
	km, err := xkb.NewKeymapFromString(ctx, text, xkb.KeymapFormatTextV1, xkb.KeymapCompileNoFlags)
	require.NoError(t, err)
	defer km.Unref()
	require.Len(t, km.KeySymsByLevel(65, 0, 0), 2)

	combos := HowToType(km, xkb.Keya)
	require.Len(t, combos, 1)
	assert.Equal(t, "AC01", combos[0].KeyName)
	assert.Empty(t, HowToType(km, xkb.KeySpace))
}

func TestWriteCombosKeysymValue(t *testing.T) {
	km := newTestKeymap(t)

	var out bytes.Buffer
	WriteCombos(&out, km, xkb.Keysym(0x1000101), nil)
	assert.Contains(t, out.String(), "(0x1000101)")

	out.Reset()
	WriteCombos(&out, km, xkb.KeyEscape, nil)
	assert.Contains(t, out.String(), "keysym: Escape (0xff1b)")
}

func TestWriteCombos(t *testing.T) {
	km := newTestKeymap(t)

	var out bytes.Buffer
	WriteCombos(&out, km, xkb.KeyExclam, HowToType(km, xkb.KeyExclam))
	assert.Contains(t, out.String(), `keysym: exclam (0x0021) "!"`)
	assert.Contains(t, out.String(), "AE01")
	assert.Contains(t, out.String(), "Test (0)")
	assert.Contains(t, out.String(), "[ Shift ]")

	out.Reset()
	WriteCombos(&out, km, xkb.KeyAacute, nil)
	assert.Contains(t, out.String(), "not found in keymap")
}

func TestModMaskString(t *testing.T) {
	km := newTestKeymap(t)
	shift := xkb.ModMask(1) << km.ModIndex(xkb.ModNameShift)
	ctrl := xkb.ModMask(1) << km.ModIndex(xkb.ModNameCtrl)

	assert.Equal(t, "[ ]", ModMaskString(km, 0))
	assert.Equal(t, "[ Shift ]", ModMaskString(km, shift))
	assert.Equal(t, "[ Shift + Control ]", ModMaskString(km, shift|ctrl))
}
