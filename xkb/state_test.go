package xkb

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateSnapshot captures everything observable through the mod, layout
// and LED queries.
type stateSnapshot struct {
	Mods   [4]ModMask
	Layout [4]LayoutIndex
	Leds   []bool
}

func snapshot(km *Keymap, st *State) stateSnapshot {
	var s stateSnapshot
	modComponents := []StateComponent{StateModsDepressed, StateModsLatched, StateModsLocked, StateModsEffective}
	layoutComponents := []StateComponent{StateLayoutDepressed, StateLayoutLatched, StateLayoutLocked, StateLayoutEffective}
	for i := range modComponents {
		s.Mods[i] = st.SerializeMods(modComponents[i])
		s.Layout[i] = st.SerializeLayout(layoutComponents[i])
	}
	for i := uint32(0); i < km.NumLeds(); i++ {
		s.Leds = append(s.Leds, st.LedIndexIsActive(LedIndex(i)))
	}
	return s
}

func TestState_ShiftSelectsSecondLevel(t *testing.T) {
	_, st := newTestState(t)

	assert.Equal(t, "a", st.KeyUTF8(testKeyA))
	assert.Equal(t, 'a', st.KeyUTF32(testKeyA))
	assert.Equal(t, LevelIndex(0), st.KeyLevel(testKeyA, 0))

	changed := st.UpdateKey(testKeyShift, DirectionDown)
	assert.NotZero(t, changed&StateModsDepressed)
	assert.NotZero(t, changed&StateModsEffective)

	assert.Equal(t, "A", st.KeyUTF8(testKeyA))
	assert.Equal(t, KeyA, st.KeyOneSym(testKeyA))
	assert.Equal(t, LevelIndex(1), st.KeyLevel(testKeyA, 0))
	assert.True(t, st.ModNameIsActive(ModNameShift, StateModsDepressed))
	assert.False(t, st.ModNameIsActive(ModNameShift, StateModsLocked))

	st.UpdateKey(testKeyShift, DirectionUp)
	assert.Equal(t, "a", st.KeyUTF8(testKeyA))
	assert.False(t, st.ModNameIsActive(ModNameShift, StateModsEffective))
}

func TestState_PressReleaseRestoresState(t *testing.T) {
	km, st := newTestState(t)

	// Lock Caps first so the check runs against a non-trivial state.
	st.UpdateKey(testKeyCaps, DirectionDown)
	st.UpdateKey(testKeyCaps, DirectionUp)

	for _, key := range []Keycode{testKeyEsc, testKey1, testKeyA, testKeyAcute, testKeyShift, testKeyCtrl, testKeySpace} {
		before := snapshot(km, st)
		st.UpdateKey(key, DirectionDown)
		st.UpdateKey(key, DirectionUp)
		assert.Equal(t, before, snapshot(km, st), "key %d", key)
	}
}

func TestState_OneSymAgreesWithSyms(t *testing.T) {
	km, st := newTestState(t)

	check := func() {
		for key := km.MinKeycode(); key <= km.MaxKeycode(); key++ {
			syms := st.KeySyms(key)
			if len(syms) == 1 {
				assert.Equal(t, syms[0], st.KeyOneSym(key), "key %d", key)
			} else {
				assert.Equal(t, KeyNoSymbol, st.KeyOneSym(key), "key %d", key)
			}
		}
	}
	check()
	st.UpdateKey(testKeyShift, DirectionDown)
	check()

	assert.Empty(t, st.KeySyms(200))
	assert.Equal(t, KeyNoSymbol, st.KeyOneSym(200))
}

func TestState_CapsLock(t *testing.T) {
	km, st := newTestState(t)

	st.UpdateKey(testKeyCaps, DirectionDown)
	changed := st.UpdateKey(testKeyCaps, DirectionUp)
	assert.Zero(t, changed&StateModsLocked, "lock happens on press")

	assert.True(t, st.ModNameIsActive(ModNameCaps, StateModsLocked))
	assert.True(t, st.ModIndexIsActive(km.ModIndex(ModNameCaps), StateModsEffective))
	assert.True(t, st.LedNameIsActive(LedNameCaps))
	assert.True(t, st.LedIndexIsActive(km.LedIndex(LedNameCaps)))
	assert.False(t, st.LedNameIsActive(LedNameNum))
	assert.Equal(t, "A", st.KeyUTF8(testKeyA))

	st.UpdateKey(testKeyCaps, DirectionDown)
	st.UpdateKey(testKeyCaps, DirectionUp)
	assert.False(t, st.LedNameIsActive(LedNameCaps))
	assert.Equal(t, "a", st.KeyUTF8(testKeyA))
}

func TestState_ConsumedMods(t *testing.T) {
	km, st := newTestState(t)

	shift := ModMask(1) << km.ModIndex(ModNameShift)
	lock := ModMask(1) << km.ModIndex(ModNameCaps)
	ctrl := ModMask(1) << km.ModIndex(ModNameCtrl)

	st.UpdateKey(testKeyShift, DirectionDown)
	st.UpdateKey(testKeyCtrl, DirectionDown)

	consumed := st.KeyConsumedMods(testKeyA)
	assert.Equal(t, shift|lock, consumed&(shift|lock|ctrl))
	assert.True(t, st.ModIndexIsConsumed(testKeyA, km.ModIndex(ModNameShift)))
	assert.False(t, st.ModIndexIsConsumed(testKeyA, km.ModIndex(ModNameCtrl)))
	assert.Equal(t, ctrl, st.ModMaskRemoveConsumed(testKeyA, shift|ctrl))

	assert.Zero(t, st.KeyConsumedMods(testKeyEsc))
	assert.Equal(t, consumed, st.KeyConsumedModsMode(testKeyA, ConsumedModeXKB))
	assert.True(t, st.ModIndexIsConsumedMode(testKeyA, km.ModIndex(ModNameShift), ConsumedModeXKB))
}

func TestState_ModNamesAreActive(t *testing.T) {
	_, st := newTestState(t)

	st.UpdateKey(testKeyShift, DirectionDown)
	st.UpdateKey(testKeyCtrl, DirectionDown)

	tests := []struct {
		name  string
		match StateMatch
		mods  []string
		want  bool
	}{
		{"all exact", StateMatchAll, []string{ModNameShift, ModNameCtrl}, true},
		{"all with extra active", StateMatchAll, []string{ModNameShift}, false},
		{"all non-exclusive", StateMatchAll | StateMatchNonExclusive, []string{ModNameShift}, true},
		{"all missing one", StateMatchAll | StateMatchNonExclusive, []string{ModNameShift, ModNameCaps}, false},
		{"any exclusive", StateMatchAny, []string{ModNameShift, ModNameCaps}, false},
		{"any non-exclusive", StateMatchAny | StateMatchNonExclusive, []string{ModNameShift, ModNameCaps}, true},
		{"any none active", StateMatchAny | StateMatchNonExclusive, []string{ModNameCaps, ModNameAlt}, false},
		{"unknown name", StateMatchAny | StateMatchNonExclusive, []string{ModNameShift, "Hyper?"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.ModNamesAreActive(StateModsEffective, tt.match, tt.mods...))
		})
	}
}

func TestState_ModIndicesAreActive(t *testing.T) {
	km, st := newTestState(t)
	shift := km.ModIndex(ModNameShift)
	ctrl := km.ModIndex(ModNameCtrl)

	st.UpdateKey(testKeyShift, DirectionDown)
	st.UpdateKey(testKeyCtrl, DirectionDown)

	assert.True(t, st.ModIndicesAreActive(StateModsDepressed, StateMatchAll, shift, ctrl))
	assert.False(t, st.ModIndicesAreActive(StateModsLocked, StateMatchAny, shift, ctrl))
	assert.False(t, st.ModIndicesAreActive(StateModsEffective, StateMatchAny|StateMatchNonExclusive, ModIndex(km.NumMods())))
	assert.False(t, st.ModIndicesAreActive(StateModsEffective, StateMatchAny|StateMatchNonExclusive, ModInvalid))
}

func TestState_UpdateMask(t *testing.T) {
	km, st := newTestState(t)
	lock := ModMask(1) << km.ModIndex(ModNameCaps)

	changed := st.UpdateMask(0, 0, lock, 0, 0, 0)
	assert.NotZero(t, changed&StateModsLocked)
	assert.NotZero(t, changed&StateLeds)
	assert.Equal(t, lock, st.SerializeMods(StateModsLocked))
	assert.Equal(t, lock, st.SerializeMods(StateModsEffective))
	assert.True(t, st.LedNameIsActive(LedNameCaps))
	assert.Equal(t, "A", st.KeyUTF8(testKeyA))

	assert.Zero(t, st.UpdateMask(0, 0, lock, 0, 0, 0))
}

func TestState_Layouts(t *testing.T) {
	_, st := newTestState(t)

	assert.Equal(t, LayoutIndex(0), st.KeyLayout(testKeyA))
	assert.Equal(t, LayoutIndex(0), st.SerializeLayout(StateLayoutEffective))
	assert.True(t, st.LayoutNameIsActive("Test", StateLayoutEffective))
	assert.True(t, st.LayoutIndexIsActive(0, StateLayoutEffective))
	assert.False(t, st.LayoutNameIsActive("Other", StateLayoutEffective))
	assert.False(t, st.LayoutIndexIsActive(3, StateLayoutEffective))
	assert.Equal(t, LayoutInvalid, st.KeyLayout(200))
}

func TestState_UnknownNames(t *testing.T) {
	_, st := newTestState(t)

	assert.False(t, st.ModNameIsActive("NoSuchMod", StateModsEffective))
	assert.False(t, st.ModIndexIsActive(ModInvalid, StateModsEffective))
	assert.False(t, st.LedNameIsActive("No Such LED"))
	assert.False(t, st.LedIndexIsActive(LedInvalid))
}

func TestState_KeymapIsReferenced(t *testing.T) {
	km, st := newTestState(t)

	got := st.Keymap()
	require.NotNil(t, got)
	assert.Equal(t, km.Raw(), got.Raw())
	got.Unref()

	assert.Equal(t, "Test", km.LayoutName(0))
	assert.Equal(t, "a", st.KeyUTF8(testKeyA))
}

func TestState_SharedKeymap(t *testing.T) {
	km, first := newTestState(t)

	second, err := NewState(km)
	require.NoError(t, err)
	defer second.Unref()

	first.UpdateKey(testKeyShift, DirectionDown)
	assert.Equal(t, "A", first.KeyUTF8(testKeyA))
	assert.Equal(t, "a", second.KeyUTF8(testKeyA))

	clone := first.Ref()
	assert.Equal(t, "A", clone.KeyUTF8(testKeyA))
	clone.Unref()
	assert.Nil(t, StateFromRaw(0))
}

func TestState_FinalizedWrappersDuringCalls(t *testing.T) {
	km := newTestKeymap(t)

	// Each state is only reachable until its query starts; the
	// finalizer must not release it while the library still reads it.
	for i := 0; i < 200; i++ {
		st, err := NewState(km)
		require.NoError(t, err)
		st.UpdateKey(testKeyShift, DirectionDown)
		assert.Equal(t, KeyA, st.KeyOneSym(testKeyA))
		if i%20 == 0 {
			runtime.GC()
		}
	}
	runtime.GC()
	assert.Equal(t, Keya, mustState(t, km).KeyOneSym(testKeyA))
}

func mustState(t *testing.T, km *Keymap) *State {
	t.Helper()
	st, err := NewState(km)
	require.NoError(t, err)
	return st
}
