package xkb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeymap_Ranges(t *testing.T) {
	km := newTestKeymap(t)

	// The range comes from the keys defined, not from minimum/maximum.
	assert.Equal(t, testKeyEsc, km.MinKeycode())
	assert.Equal(t, testKeyCaps, km.MaxKeycode())
}

func TestKeymap_NotAStringer(t *testing.T) {
	km := newTestKeymap(t)

	_, ok := any(km).(fmt.Stringer)
	assert.False(t, ok)
	text, err := km.AsString(KeymapFormatTextV1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "xkb_keymap {"))
}

func TestKeymap_Mods(t *testing.T) {
	km := newTestKeymap(t)

	tests := []struct {
		name string
		idx  ModIndex
	}{
		{ModNameShift, 0},
		{ModNameCaps, 1},
		{ModNameCtrl, 2},
		{ModNameAlt, 3},
		{ModNameISOLevel3Shift, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.idx, km.ModIndex(tt.name))
			assert.Equal(t, tt.name, km.ModName(tt.idx))
		})
	}

	assert.GreaterOrEqual(t, km.NumMods(), uint32(8))
	assert.Equal(t, ModInvalid, km.ModIndex("NoSuchModifier"))
	assert.Equal(t, ModInvalid, km.ModIndex("shift"), "lookups are case-sensitive")
	assert.Equal(t, "", km.ModName(ModIndex(km.NumMods())))

	mods := km.Mods().Collect()
	require.Len(t, mods, int(km.NumMods()))
	assert.Equal(t, ModNameShift, mods[0])
}

func TestKeymap_Layouts(t *testing.T) {
	km := newTestKeymap(t)

	require.EqualValues(t, 1, km.NumLayouts())
	assert.Equal(t, "Test", km.LayoutName(0))
	assert.Equal(t, LayoutIndex(0), km.LayoutIndex("Test"))
	assert.Equal(t, LayoutInvalid, km.LayoutIndex("test"))
	assert.Equal(t, "", km.LayoutName(1))
	assert.Equal(t, []string{"Test"}, km.Layouts().Collect())
}

func TestKeymap_Leds(t *testing.T) {
	km := newTestKeymap(t)

	caps := km.LedIndex(LedNameCaps)
	require.NotEqual(t, LedInvalid, caps)
	assert.Equal(t, LedNameCaps, km.LedName(caps))
	assert.NotEqual(t, LedInvalid, km.LedIndex(LedNameNum))
	assert.Equal(t, LedInvalid, km.LedIndex(LedNameScroll))
	assert.Contains(t, km.Leds().Collect(), LedNameCaps)
}

func TestKeymap_KeyNames(t *testing.T) {
	km := newTestKeymap(t)

	name, ok := km.KeyName(testKeyA)
	require.True(t, ok)
	assert.Equal(t, "AC01", name)

	key, ok := km.KeyByName("AC01")
	require.True(t, ok)
	assert.Equal(t, testKeyA, key)

	key, ok = km.KeyByName("LatA")
	require.True(t, ok, "aliases resolve")
	assert.Equal(t, testKeyA, key)

	_, ok = km.KeyByName("ZZZZ")
	assert.False(t, ok)
	_, ok = km.KeyName(200)
	assert.False(t, ok)
}

func TestKeymap_KeyByNameInvertsKeyName(t *testing.T) {
	km := newTestKeymap(t)

	keys := km.Keycodes()
	require.NotEmpty(t, keys)
	for _, key := range keys {
		name, ok := km.KeyName(key)
		require.True(t, ok)
		got, ok := km.KeyByName(name)
		require.True(t, ok, name)
		assert.Equal(t, key, got, name)
	}
}

func TestKeymap_KeyForEachAscending(t *testing.T) {
	km := newTestKeymap(t)

	var keys []Keycode
	km.KeyForEach(func(got *Keymap, key Keycode) {
		assert.Same(t, km, got)
		keys = append(keys, key)
	})

	require.NotEmpty(t, keys)
	assert.Equal(t, km.MinKeycode(), keys[0])
	assert.Equal(t, km.MaxKeycode(), keys[len(keys)-1])
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestKeymap_Levels(t *testing.T) {
	km := newTestKeymap(t)

	assert.EqualValues(t, 1, km.NumLayoutsForKey(testKeyA))
	assert.EqualValues(t, 2, km.NumLevelsForKey(testKeyA, 0))
	assert.EqualValues(t, 1, km.NumLevelsForKey(testKeyEsc, 0))
	assert.EqualValues(t, 2, km.NumLevelsForKey(testKeyA, 3), "out of range layouts wrap")
	assert.Zero(t, km.NumLayoutsForKey(200))

	assert.Equal(t, []Keysym{Keya}, km.KeySymsByLevel(testKeyA, 0, 0))
	assert.Equal(t, []Keysym{KeyA}, km.KeySymsByLevel(testKeyA, 0, 1))
	assert.Equal(t, []Keysym{KeyDeadAcute}, km.KeySymsByLevel(testKeyAcute, 0, 0))
	assert.Empty(t, km.KeySymsByLevel(testKeyA, 0, 5))
	assert.Empty(t, km.KeySymsByLevel(200, 0, 0))
}

func TestKeymap_KeyModsForLevel(t *testing.T) {
	km := newTestKeymap(t)
	masks := km.KeyModsForLevel(testKeyA, 0, 1)
	if masks == nil {
		t.Skip("libxkbcommon lacks xkb_keymap_key_get_mods_for_level")
	}

	shift := ModMask(1) << km.ModIndex(ModNameShift)
	lock := ModMask(1) << km.ModIndex(ModNameCaps)
	assert.Contains(t, masks, shift)
	assert.Contains(t, masks, lock)
	assert.Contains(t, km.KeyModsForLevel(testKeyA, 0, 0), ModMask(0))
}

func TestKeymap_KeyRepeats(t *testing.T) {
	km := newTestKeymap(t)

	assert.True(t, km.KeyRepeats(testKeyA))
	assert.True(t, km.KeyRepeats(testKey1))
	assert.False(t, km.KeyRepeats(testKeyShift))
	assert.False(t, km.KeyRepeats(testKeyCaps))
}

func TestKeymap_SerializeRoundTrip(t *testing.T) {
	km := newTestKeymap(t)

	text, err := km.AsString(KeymapFormatTextV1)
	require.NoError(t, err)
	require.Contains(t, text, "xkb_keymap")

	ctx := newTestContext(t, ContextNoDefaultIncludes)
	again, err := NewKeymapFromString(ctx, text, KeymapFormatTextV1, KeymapCompileNoFlags)
	require.NoError(t, err)
	defer again.Unref()

	assert.Equal(t, summarize(km), summarize(again))

	original, err := km.AsString(KeymapFormatUseOriginal)
	require.NoError(t, err)
	assert.Equal(t, text, original)
}

func TestKeymap_CompileFailure(t *testing.T) {
	ctx := newTestContext(t, ContextNoDefaultIncludes)
	ctx.SetLogLevel(LogLevelCritical)

	km, err := NewKeymapFromString(ctx, "xkb_keymap { this is not a keymap", KeymapFormatTextV1, KeymapCompileNoFlags)
	assert.Nil(t, km)
	assert.ErrorIs(t, err, ErrCompile)

	km, err = NewKeymapFromBuffer(ctx, []byte{0, 0}, KeymapFormatTextV1, KeymapCompileNoFlags)
	assert.Nil(t, km)
	assert.ErrorIs(t, err, ErrCompile)
}

func TestKeymap_FromBufferTrailingNUL(t *testing.T) {
	ctx := newTestContext(t, ContextNoDefaultIncludes)

	buf := append([]byte(testKeymap), 0, 0, 0)
	km, err := NewKeymapFromBuffer(ctx, buf, KeymapFormatTextV1, KeymapCompileNoFlags)
	require.NoError(t, err)
	defer km.Unref()

	assert.Equal(t, "Test", km.LayoutName(0))
}

func TestKeymap_FromFile(t *testing.T) {
	ctx := newTestContext(t, ContextNoDefaultIncludes)

	path := filepath.Join(t.TempDir(), "keymap.xkb")
	require.NoError(t, os.WriteFile(path, []byte(testKeymap), 0o644))

	km, err := NewKeymapFromFile(ctx, path, KeymapFormatTextV1, KeymapCompileNoFlags)
	require.NoError(t, err)
	defer km.Unref()
	assert.EqualValues(t, 1, km.NumLayouts())

	_, err = NewKeymapFromFile(ctx, filepath.Join(t.TempDir(), "missing.xkb"), KeymapFormatTextV1, KeymapCompileNoFlags)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	var pathErr *fs.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestKeymap_FromNamesUS(t *testing.T) {
	ctx := newTestContext(t, ContextNoFlags)
	ctx.SetLogLevel(LogLevelCritical)

	km, err := NewKeymapFromNames(ctx, RuleNames{Model: "pc105", Layout: "us"}, KeymapCompileNoFlags)
	if err != nil {
		t.Skipf("xkeyboard-config rules not installed: %v", err)
	}
	defer km.Unref()

	st, err := NewState(km)
	require.NoError(t, err)
	defer st.Unref()

	assert.Equal(t, "a", st.KeyUTF8(38))
	st.UpdateKey(50, DirectionDown)
	assert.Equal(t, "A", st.KeyUTF8(38))
	st.UpdateKey(50, DirectionUp)
	assert.Equal(t, "a", st.KeyUTF8(38))

	text, err := km.AsString(KeymapFormatTextV1)
	require.NoError(t, err)
	again, err := NewKeymapFromString(ctx, text, KeymapFormatTextV1, KeymapCompileNoFlags)
	require.NoError(t, err)
	defer again.Unref()
	assert.Equal(t, summarize(km), summarize(again))
}

func TestKeymap_RefUnref(t *testing.T) {
	km := newTestKeymap(t)

	clone := km.Ref()
	assert.Equal(t, km.Raw(), clone.Raw())
	clone.Unref()
	clone.Unref()

	assert.Equal(t, "Test", km.LayoutName(0))
	assert.Nil(t, KeymapFromRaw(0))
}

func TestRuleNames_String(t *testing.T) {
	names := RuleNames{Model: "pc105", Layout: "us"}
	assert.Contains(t, names.String(), `options="<default>"`)

	names.Options = StringOption("")
	assert.Contains(t, names.String(), `options=""`)
}
