package xkb

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"github.com/tuxx/goxkb/internal/native"
)

// RuleNames are the RMLVO names used to compile a keymap from the rules
// database. An empty field is filled in by the library from the
// XKB_DEFAULT_* environment variables or its built-in defaults. Options is
// separate: nil selects the default options while a pointer to "" selects
// no options at all.
type RuleNames struct {
	Rules   string
	Model   string
	Layout  string
	Variant string
	Options *string
}

// StringOption returns a pointer to s, for RuleNames.Options.
func StringOption(s string) *string {
	return &s
}

func (n RuleNames) String() string {
	opts := "<default>"
	if n.Options != nil {
		opts = *n.Options
	}
	return fmt.Sprintf("rules=%q model=%q layout=%q variant=%q options=%q",
		n.Rules, n.Model, n.Layout, n.Variant, opts)
}

func optionalCString(s string) *byte {
	if s == "" {
		return nil
	}
	return native.CString(s)
}

// Keymap is a compiled keymap. It is immutable, so it may be shared between
// goroutines as long as Ref and Unref are not raced.
type Keymap struct {
	ptr uintptr
}

func wrapKeymap(ptr uintptr) *Keymap {
	km := &Keymap{ptr: ptr}
	runtime.SetFinalizer(km, (*Keymap).Unref)
	return km
}

func checkKeymap(ptr uintptr, what string) (*Keymap, error) {
	if ptr == 0 {
		return nil, fmt.Errorf("%s: %w", what, ErrCompile)
	}
	return wrapKeymap(ptr), nil
}

// NewKeymapFromNames compiles a keymap from RMLVO names.
func NewKeymapFromNames(ctx *Context, names RuleNames, flags KeymapCompileFlags) (*Keymap, error) {
	defer runtime.KeepAlive(ctx)
	if err := Load(); err != nil {
		return nil, err
	}
	raw := native.RuleNames{
		Rules:   optionalCString(names.Rules),
		Model:   optionalCString(names.Model),
		Layout:  optionalCString(names.Layout),
		Variant: optionalCString(names.Variant),
	}
	if names.Options != nil {
		raw.Options = native.CString(*names.Options)
	}
	ptr := native.XkbKeymapNewFromNames(ctx.ptr, &raw, uint32(flags))
	runtime.KeepAlive(&raw)
	return checkKeymap(ptr, fmt.Sprintf("compile keymap from names (%s)", names))
}

// NewKeymapFromString compiles a keymap from its textual form.
func NewKeymapFromString(ctx *Context, text string, format KeymapFormat, flags KeymapCompileFlags) (*Keymap, error) {
	defer runtime.KeepAlive(ctx)
	if err := Load(); err != nil {
		return nil, err
	}
	ptr := native.XkbKeymapNewFromString(ctx.ptr, native.CString(text), uint32(format), uint32(flags))
	return checkKeymap(ptr, "compile keymap from string")
}

// NewKeymapFromBuffer compiles a keymap from a byte buffer. Trailing NUL
// bytes are ignored, so buffers handed over by compositors can be passed
// unchanged.
func NewKeymapFromBuffer(ctx *Context, buf []byte, format KeymapFormat, flags KeymapCompileFlags) (*Keymap, error) {
	defer runtime.KeepAlive(ctx)
	if err := Load(); err != nil {
		return nil, err
	}
	buf = bytes.TrimRight(buf, "\x00")
	if len(buf) == 0 {
		return nil, fmt.Errorf("compile keymap from buffer: empty buffer: %w", ErrCompile)
	}
	ptr := native.XkbKeymapNewFromBuffer(ctx.ptr, &buf[0], uintptr(len(buf)), uint32(format), uint32(flags))
	runtime.KeepAlive(buf)
	return checkKeymap(ptr, "compile keymap from buffer")
}

// NewKeymapFromFile reads a keymap file and compiles it.
func NewKeymapFromFile(ctx *Context, path string, format KeymapFormat, flags KeymapCompileFlags) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	km, err := NewKeymapFromBuffer(ctx, data, format, flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return km, nil
}

// KeymapFromRaw wraps a raw xkb_keymap pointer and takes over one reference.
func KeymapFromRaw(ptr uintptr) *Keymap {
	if ptr == 0 {
		return nil
	}
	return wrapKeymap(ptr)
}

// Raw returns the underlying xkb_keymap pointer.
func (km *Keymap) Raw() uintptr {
	return km.ptr
}

// Ref takes a new reference and returns it as a separate wrapper.
func (km *Keymap) Ref() *Keymap {
	defer runtime.KeepAlive(km)
	return wrapKeymap(native.XkbKeymapRef(km.ptr))
}

// Unref releases this wrapper's reference. Calling it twice is a no-op.
func (km *Keymap) Unref() {
	if km.ptr == 0 {
		return
	}
	native.XkbKeymapUnref(km.ptr)
	km.ptr = 0
	runtime.SetFinalizer(km, nil)
}

// AsString serializes the keymap. The output compiles back into an equivalent
// keymap.
func (km *Keymap) AsString(format KeymapFormat) (string, error) {
	defer runtime.KeepAlive(km)
	p := native.XkbKeymapGetAsString(km.ptr, uint32(format))
	if p == nil {
		return "", fmt.Errorf("keymap get as string: %w", ErrSerialize)
	}
	defer native.Free(p)
	return native.GoString(p), nil
}

// MinKeycode returns the lowest keycode in the keymap.
func (km *Keymap) MinKeycode() Keycode {
	defer runtime.KeepAlive(km)
	return Keycode(native.XkbKeymapMinKeycode(km.ptr))
}

// MaxKeycode returns the highest keycode in the keymap.
func (km *Keymap) MaxKeycode() Keycode {
	defer runtime.KeepAlive(km)
	return Keycode(native.XkbKeymapMaxKeycode(km.ptr))
}

// KeyForEach calls fn for every keycode between MinKeycode and MaxKeycode,
// in ascending order, including codes with no key.
func (km *Keymap) KeyForEach(fn func(km *Keymap, key Keycode)) {
	defer runtime.KeepAlive(km)
	native.XkbKeymapKeyForEach(km.ptr, func(key uint32) {
		fn(km, Keycode(key))
	})
}

// Keycodes collects the keycodes that have a name in the keymap.
func (km *Keymap) Keycodes() []Keycode {
	var keys []Keycode
	km.KeyForEach(func(km *Keymap, key Keycode) {
		if _, ok := km.KeyName(key); ok {
			keys = append(keys, key)
		}
	})
	return keys
}

// NumMods returns the number of modifiers, real and virtual.
func (km *Keymap) NumMods() uint32 {
	defer runtime.KeepAlive(km)
	return native.XkbKeymapNumMods(km.ptr)
}

// ModName returns the name of a modifier, or "" if idx is invalid.
func (km *Keymap) ModName(idx ModIndex) string {
	defer runtime.KeepAlive(km)
	return native.GoString(native.XkbKeymapModGetName(km.ptr, uint32(idx)))
}

// ModIndex returns the index of a named modifier, or ModInvalid.
func (km *Keymap) ModIndex(name string) ModIndex {
	defer runtime.KeepAlive(km)
	return ModIndex(native.XkbKeymapModGetIndex(km.ptr, native.CString(name)))
}

// Mods iterates the modifier names.
func (km *Keymap) Mods() *NameIterator {
	return newNameIterator(km.NumMods(), func(i uint32) string { return km.ModName(ModIndex(i)) })
}

// NumLayouts returns the number of layouts.
func (km *Keymap) NumLayouts() uint32 {
	defer runtime.KeepAlive(km)
	return native.XkbKeymapNumLayouts(km.ptr)
}

// LayoutName returns the name of a layout, or "".
func (km *Keymap) LayoutName(idx LayoutIndex) string {
	defer runtime.KeepAlive(km)
	return native.GoString(native.XkbKeymapLayoutGetName(km.ptr, uint32(idx)))
}

// LayoutIndex returns the index of a named layout, or LayoutInvalid.
func (km *Keymap) LayoutIndex(name string) LayoutIndex {
	defer runtime.KeepAlive(km)
	return LayoutIndex(native.XkbKeymapLayoutGetIndex(km.ptr, native.CString(name)))
}

// Layouts iterates the layout names.
func (km *Keymap) Layouts() *NameIterator {
	return newNameIterator(km.NumLayouts(), func(i uint32) string { return km.LayoutName(LayoutIndex(i)) })
}

// NumLeds returns the number of LED slots. Some slots may be unnamed.
func (km *Keymap) NumLeds() uint32 {
	defer runtime.KeepAlive(km)
	return native.XkbKeymapNumLeds(km.ptr)
}

// LedName returns the name of an LED, or "".
func (km *Keymap) LedName(idx LedIndex) string {
	defer runtime.KeepAlive(km)
	return native.GoString(native.XkbKeymapLedGetName(km.ptr, uint32(idx)))
}

// LedIndex returns the index of a named LED, or LedInvalid.
func (km *Keymap) LedIndex(name string) LedIndex {
	defer runtime.KeepAlive(km)
	return LedIndex(native.XkbKeymapLedGetIndex(km.ptr, native.CString(name)))
}

// Leds iterates the LED names.
func (km *Keymap) Leds() *NameIterator {
	return newNameIterator(km.NumLeds(), func(i uint32) string { return km.LedName(LedIndex(i)) })
}

// NumLayoutsForKey returns how many layouts key has, 0 for an unknown key.
func (km *Keymap) NumLayoutsForKey(key Keycode) uint32 {
	defer runtime.KeepAlive(km)
	return native.XkbKeymapNumLayoutsForKey(km.ptr, uint32(key))
}

// NumLevelsForKey returns how many shift levels key has in layout.
func (km *Keymap) NumLevelsForKey(key Keycode, layout LayoutIndex) uint32 {
	defer runtime.KeepAlive(km)
	return native.XkbKeymapNumLevelsForKey(km.ptr, uint32(key), uint32(layout))
}

// KeySymsByLevel returns the keysyms bound to key at layout and level,
// without any state. The result is a copy.
func (km *Keymap) KeySymsByLevel(key Keycode, layout LayoutIndex, level LevelIndex) []Keysym {
	defer runtime.KeepAlive(km)
	var syms *uint32
	n := native.XkbKeymapKeyGetSymsByLevel(km.ptr, uint32(key), uint32(layout), uint32(level), &syms)
	return copySyms(syms, n)
}

// KeyModsForLevel returns the modifier masks that select level for key in
// layout. It returns nil when the library is too old to report them.
func (km *Keymap) KeyModsForLevel(key Keycode, layout LayoutIndex, level LevelIndex) []ModMask {
	defer runtime.KeepAlive(km)
	if native.XkbKeymapKeyGetModsForLevel == nil {
		return nil
	}
	var masks [32]uint32
	n := native.XkbKeymapKeyGetModsForLevel(km.ptr, uint32(key), uint32(layout), uint32(level), &masks[0], uintptr(len(masks)))
	out := make([]ModMask, n)
	for i := range out {
		out[i] = ModMask(masks[i])
	}
	return out
}

// KeyName returns the name of key, e.g. "AC01".
func (km *Keymap) KeyName(key Keycode) (string, bool) {
	defer runtime.KeepAlive(km)
	p := native.XkbKeymapKeyGetName(km.ptr, uint32(key))
	if p == nil {
		return "", false
	}
	return native.GoString(p), true
}

// KeyByName looks up a keycode by key name or alias.
func (km *Keymap) KeyByName(name string) (Keycode, bool) {
	defer runtime.KeepAlive(km)
	key := Keycode(native.XkbKeymapKeyByName(km.ptr, native.CString(name)))
	return key, key != KeycodeInvalid
}

// KeyRepeats reports whether key should repeat when held.
func (km *Keymap) KeyRepeats(key Keycode) bool {
	defer runtime.KeepAlive(km)
	return native.XkbKeymapKeyRepeats(km.ptr, uint32(key)) != 0
}

func copySyms(syms *uint32, n int32) []Keysym {
	if n <= 0 || syms == nil {
		return nil
	}
	src := unsafe.Slice(syms, n)
	out := make([]Keysym, n)
	for i, ks := range src {
		out[i] = Keysym(ks)
	}
	return out
}
