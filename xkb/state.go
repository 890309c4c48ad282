package xkb

import (
	"fmt"
	"runtime"

	"github.com/tuxx/goxkb/internal/native"
)

const stateUTF8BufSize = 64

// State tracks the live state of a keyboard: pressed keys, active
// modifiers, the effective layout and LEDs. A State is not safe for
// concurrent use.
type State struct {
	ptr uintptr
}

func wrapState(ptr uintptr) *State {
	st := &State{ptr: ptr}
	runtime.SetFinalizer(st, (*State).Unref)
	return st
}

// NewState creates a state for km with nothing pressed. The state holds its
// own reference on km.
func NewState(km *Keymap) (*State, error) {
	defer runtime.KeepAlive(km)
	ptr := native.XkbStateNew(km.ptr)
	if ptr == 0 {
		return nil, fmt.Errorf("xkb_state_new: %w", ErrCreate)
	}
	return wrapState(ptr), nil
}

// StateFromRaw wraps a raw xkb_state pointer and takes over one reference.
func StateFromRaw(ptr uintptr) *State {
	if ptr == 0 {
		return nil
	}
	return wrapState(ptr)
}

// Raw returns the underlying xkb_state pointer.
func (st *State) Raw() uintptr {
	return st.ptr
}

// Ref takes a new reference and returns it as a separate wrapper. Both
// wrappers see the same state.
func (st *State) Ref() *State {
	defer runtime.KeepAlive(st)
	return wrapState(native.XkbStateRef(st.ptr))
}

// Unref releases this wrapper's reference. Calling it twice is a no-op.
func (st *State) Unref() {
	if st.ptr == 0 {
		return
	}
	native.XkbStateUnref(st.ptr)
	st.ptr = 0
	runtime.SetFinalizer(st, nil)
}

// Keymap returns the keymap the state was created for, with a reference
// of its own.
func (st *State) Keymap() *Keymap {
	defer runtime.KeepAlive(st)
	ptr := native.XkbStateGetKeymap(st.ptr)
	return wrapKeymap(native.XkbKeymapRef(ptr))
}

// UpdateKey applies a key press or release and returns the components
// that changed.
//
// Do not mix UpdateKey with UpdateMask on the same state. A client that
// receives serialized state from a server should only use UpdateMask.
func (st *State) UpdateKey(key Keycode, dir KeyDirection) StateComponent {
	defer runtime.KeepAlive(st)
	return StateComponent(native.XkbStateUpdateKey(st.ptr, uint32(key), uint32(dir)))
}

// UpdateMask replaces the modifier and layout components with serialized
// values, typically from a server, and returns the components that changed.
func (st *State) UpdateMask(depressedMods, latchedMods, lockedMods ModMask,
	depressedLayout, latchedLayout, lockedLayout LayoutIndex) StateComponent {
	return StateComponent(native.XkbStateUpdateMask(st.ptr,
		uint32(depressedMods), uint32(latchedMods), uint32(lockedMods),
		uint32(depressedLayout), uint32(latchedLayout), uint32(lockedLayout)))
}

// KeySyms returns the keysyms key produces in the current state.
func (st *State) KeySyms(key Keycode) []Keysym {
	defer runtime.KeepAlive(st)
	var syms *uint32
	n := native.XkbStateKeyGetSyms(st.ptr, uint32(key), &syms)
	return copySyms(syms, n)
}

// KeyOneSym returns the single keysym key produces, or KeyNoSymbol when it
// produces none or several. Capitalization is applied.
func (st *State) KeyOneSym(key Keycode) Keysym {
	defer runtime.KeepAlive(st)
	return Keysym(native.XkbStateKeyGetOneSym(st.ptr, uint32(key)))
}

// KeyUTF8 returns the text key produces in the current state.
func (st *State) KeyUTF8(key Keycode) string {
	defer runtime.KeepAlive(st)
	var buf [stateUTF8BufSize]byte
	n := native.XkbStateKeyGetUtf8(st.ptr, uint32(key), &buf[0], uintptr(len(buf)))
	if n <= 0 {
		return ""
	}
	if int(n) >= len(buf) {
		n = int32(len(buf) - 1)
	}
	return string(buf[:n])
}

// KeyUTF32 returns the code point key produces, or 0.
func (st *State) KeyUTF32(key Keycode) rune {
	defer runtime.KeepAlive(st)
	return rune(native.XkbStateKeyGetUtf32(st.ptr, uint32(key)))
}

// KeyLayout returns the effective layout for key, or LayoutInvalid.
func (st *State) KeyLayout(key Keycode) LayoutIndex {
	defer runtime.KeepAlive(st)
	return LayoutIndex(native.XkbStateKeyGetLayout(st.ptr, uint32(key)))
}

// KeyLevel returns the active shift level for key in layout, or
// LevelInvalid.
func (st *State) KeyLevel(key Keycode, layout LayoutIndex) LevelIndex {
	defer runtime.KeepAlive(st)
	return LevelIndex(native.XkbStateKeyGetLevel(st.ptr, uint32(key), uint32(layout)))
}

// SerializeMods returns the modifiers in the requested components.
func (st *State) SerializeMods(components StateComponent) ModMask {
	defer runtime.KeepAlive(st)
	return ModMask(native.XkbStateSerializeMods(st.ptr, uint32(components)))
}

// SerializeLayout returns the layout in the requested component.
func (st *State) SerializeLayout(components StateComponent) LayoutIndex {
	defer runtime.KeepAlive(st)
	return LayoutIndex(native.XkbStateSerializeLayout(st.ptr, uint32(components)))
}

// ModNameIsActive reports whether the named modifier is active in
// components. An unknown name reports false.
func (st *State) ModNameIsActive(name string, components StateComponent) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateModNameIsActive(st.ptr, native.CString(name), uint32(components)) == 1
}

// ModIndexIsActive reports whether the modifier idx is active in
// components. An invalid index reports false.
func (st *State) ModIndexIsActive(idx ModIndex, components StateComponent) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateModIndexIsActive(st.ptr, uint32(idx), uint32(components)) == 1
}

// ModNamesAreActive checks a set of named modifiers against components
// using match. An unknown name reports false.
func (st *State) ModNamesAreActive(components StateComponent, match StateMatch, names ...string) bool {
	defer runtime.KeepAlive(st)
	km := native.XkbStateGetKeymap(st.ptr)
	var wanted ModMask
	for _, name := range names {
		idx := native.XkbKeymapModGetIndex(km, native.CString(name))
		if ModIndex(idx) == ModInvalid {
			return false
		}
		wanted |= 1 << idx
	}
	return st.modsMatch(components, match, wanted)
}

// ModIndicesAreActive checks a set of modifier indices against components
// using match. An out of range index reports false.
func (st *State) ModIndicesAreActive(components StateComponent, match StateMatch, indices ...ModIndex) bool {
	defer runtime.KeepAlive(st)
	n := native.XkbKeymapNumMods(native.XkbStateGetKeymap(st.ptr))
	var wanted ModMask
	for _, idx := range indices {
		if uint32(idx) >= n {
			return false
		}
		wanted |= 1 << idx
	}
	return st.modsMatch(components, match, wanted)
}

func (st *State) modsMatch(components StateComponent, match StateMatch, wanted ModMask) bool {
	active := st.SerializeMods(components)
	if match&StateMatchNonExclusive == 0 && active&^wanted != 0 {
		return false
	}
	if match&StateMatchAny != 0 {
		return active&wanted != 0
	}
	return active&wanted == wanted
}

// ModIndexIsConsumed reports whether idx was used to pick the keysyms of
// key and should not be treated as a shortcut modifier.
func (st *State) ModIndexIsConsumed(key Keycode, idx ModIndex) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateModIndexIsConsumed(st.ptr, uint32(key), uint32(idx)) == 1
}

// ModIndexIsConsumedMode is ModIndexIsConsumed with an explicit algorithm.
// Libraries without the mode-aware call always use ConsumedModeXKB.
func (st *State) ModIndexIsConsumedMode(key Keycode, idx ModIndex, mode ConsumedMode) bool {
	defer runtime.KeepAlive(st)
	if native.XkbStateModIndexIsConsumed2 == nil {
		return st.ModIndexIsConsumed(key, idx)
	}
	return native.XkbStateModIndexIsConsumed2(st.ptr, uint32(key), uint32(idx), uint32(mode)) == 1
}

// ModMaskRemoveConsumed clears the modifiers consumed by key from mask.
func (st *State) ModMaskRemoveConsumed(key Keycode, mask ModMask) ModMask {
	defer runtime.KeepAlive(st)
	return ModMask(native.XkbStateModMaskRemoveConsumed(st.ptr, uint32(key), uint32(mask)))
}

// KeyConsumedMods returns the modifiers consumed by key.
func (st *State) KeyConsumedMods(key Keycode) ModMask {
	defer runtime.KeepAlive(st)
	return ModMask(native.XkbStateKeyGetConsumedMods(st.ptr, uint32(key)))
}

// KeyConsumedModsMode is KeyConsumedMods with an explicit algorithm.
func (st *State) KeyConsumedModsMode(key Keycode, mode ConsumedMode) ModMask {
	defer runtime.KeepAlive(st)
	if native.XkbStateKeyGetConsumedMods2 == nil {
		return st.KeyConsumedMods(key)
	}
	return ModMask(native.XkbStateKeyGetConsumedMods2(st.ptr, uint32(key), uint32(mode)))
}

// LayoutNameIsActive reports whether the named layout is active in
// components.
func (st *State) LayoutNameIsActive(name string, components StateComponent) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateLayoutNameIsActive(st.ptr, native.CString(name), uint32(components)) == 1
}

// LayoutIndexIsActive reports whether layout idx is active in components.
func (st *State) LayoutIndexIsActive(idx LayoutIndex, components StateComponent) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateLayoutIndexIsActive(st.ptr, uint32(idx), uint32(components)) == 1
}

// LedNameIsActive reports whether the named LED is lit.
func (st *State) LedNameIsActive(name string) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateLedNameIsActive(st.ptr, native.CString(name)) == 1
}

// LedIndexIsActive reports whether LED idx is lit.
func (st *State) LedIndexIsActive(idx LedIndex) bool {
	defer runtime.KeepAlive(st)
	return native.XkbStateLedIndexIsActive(st.ptr, uint32(idx)) == 1
}
