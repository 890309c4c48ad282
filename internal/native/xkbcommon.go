// Package native declares the libxkbcommon C entry points and binds them at
// runtime with purego. Nothing in here manages lifetimes; callers own every
// handle they receive and must release it through the matching unref.
package native

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// RuleNames mirrors struct xkb_rule_names. A nil field is passed as NULL.
type RuleNames struct {
	Rules   *byte
	Model   *byte
	Layout  *byte
	Variant *byte
	Options *byte
}

var (
	libxkbcommon uintptr
	libc         uintptr

	loadOnce sync.Once
	loadErr  error
)

// Keysyms.
var (
	XkbKeysymGetName  func(keysym uint32, buffer *byte, size uintptr) int32
	XkbKeysymFromName func(name *byte, flags uint32) uint32
	XkbKeysymToUtf8   func(keysym uint32, buffer *byte, size uintptr) int32
	XkbKeysymToUtf32  func(keysym uint32) uint32
	XkbUtf32ToKeysym  func(ucs uint32) uint32
	XkbKeysymToUpper  func(keysym uint32) uint32
	XkbKeysymToLower  func(keysym uint32) uint32
)

// Context.
var (
	XkbContextNew                  func(flags uint32) uintptr
	XkbContextRef                  func(context uintptr) uintptr
	XkbContextUnref                func(context uintptr)
	XkbContextIncludePathAppend    func(context uintptr, path *byte) int32
	XkbContextIncludePathAppendDef func(context uintptr) int32
	XkbContextIncludePathResetDefs func(context uintptr) int32
	XkbContextIncludePathClear     func(context uintptr)
	XkbContextNumIncludePaths      func(context uintptr) uint32
	XkbContextIncludePathGet       func(context uintptr, index uint32) *byte
	XkbContextSetLogLevel          func(context uintptr, level uint32)
	XkbContextGetLogLevel          func(context uintptr) uint32
	XkbContextSetLogVerbosity      func(context uintptr, verbosity int32)
	XkbContextGetLogVerbosity      func(context uintptr) int32
)

// Keymap.
var (
	XkbKeymapNewFromNames       func(context uintptr, names *RuleNames, flags uint32) uintptr
	XkbKeymapNewFromString      func(context uintptr, str *byte, format uint32, flags uint32) uintptr
	XkbKeymapNewFromBuffer      func(context uintptr, buffer *byte, length uintptr, format uint32, flags uint32) uintptr
	XkbKeymapRef                func(keymap uintptr) uintptr
	XkbKeymapUnref              func(keymap uintptr)
	XkbKeymapGetAsString        func(keymap uintptr, format uint32) *byte
	XkbKeymapMinKeycode         func(keymap uintptr) uint32
	XkbKeymapMaxKeycode         func(keymap uintptr) uint32
	xkbKeymapKeyForEach         func(keymap uintptr, iter uintptr, data uintptr)
	XkbKeymapNumMods            func(keymap uintptr) uint32
	XkbKeymapModGetName         func(keymap uintptr, idx uint32) *byte
	XkbKeymapModGetIndex        func(keymap uintptr, name *byte) uint32
	XkbKeymapNumLayouts         func(keymap uintptr) uint32
	XkbKeymapLayoutGetName      func(keymap uintptr, idx uint32) *byte
	XkbKeymapLayoutGetIndex     func(keymap uintptr, name *byte) uint32
	XkbKeymapNumLeds            func(keymap uintptr) uint32
	XkbKeymapLedGetName         func(keymap uintptr, idx uint32) *byte
	XkbKeymapLedGetIndex        func(keymap uintptr, name *byte) uint32
	XkbKeymapNumLayoutsForKey   func(keymap uintptr, key uint32) uint32
	XkbKeymapNumLevelsForKey    func(keymap uintptr, key uint32, layout uint32) uint32
	XkbKeymapKeyGetSymsByLevel  func(keymap uintptr, key uint32, layout uint32, level uint32, symsOut **uint32) int32
	XkbKeymapKeyGetModsForLevel func(keymap uintptr, key uint32, layout uint32, level uint32, masksOut *uint32, masksSize uintptr) uintptr
	XkbKeymapKeyByName          func(keymap uintptr, name *byte) uint32
	XkbKeymapKeyGetName         func(keymap uintptr, key uint32) *byte
	XkbKeymapKeyRepeats         func(keymap uintptr, key uint32) int32
)

// State.
var (
	XkbStateNew                   func(keymap uintptr) uintptr
	XkbStateRef                   func(state uintptr) uintptr
	XkbStateUnref                 func(state uintptr)
	XkbStateGetKeymap             func(state uintptr) uintptr
	XkbStateUpdateKey             func(state uintptr, key uint32, direction uint32) uint32
	XkbStateUpdateMask            func(state uintptr, depressedMods, latchedMods, lockedMods, depressedLayout, latchedLayout, lockedLayout uint32) uint32
	XkbStateKeyGetSyms            func(state uintptr, key uint32, symsOut **uint32) int32
	XkbStateKeyGetUtf8            func(state uintptr, key uint32, buffer *byte, size uintptr) int32
	XkbStateKeyGetUtf32           func(state uintptr, key uint32) uint32
	XkbStateKeyGetOneSym          func(state uintptr, key uint32) uint32
	XkbStateKeyGetLayout          func(state uintptr, key uint32) uint32
	XkbStateKeyGetLevel           func(state uintptr, key uint32, layout uint32) uint32
	XkbStateSerializeMods         func(state uintptr, components uint32) uint32
	XkbStateSerializeLayout       func(state uintptr, components uint32) uint32
	XkbStateModNameIsActive       func(state uintptr, name *byte, kind uint32) int32
	XkbStateModIndexIsActive      func(state uintptr, idx uint32, kind uint32) int32
	XkbStateModIndexIsConsumed    func(state uintptr, key uint32, idx uint32) int32
	XkbStateModIndexIsConsumed2   func(state uintptr, key uint32, idx uint32, mode uint32) int32
	XkbStateModMaskRemoveConsumed func(state uintptr, key uint32, mask uint32) uint32
	XkbStateKeyGetConsumedMods    func(state uintptr, key uint32) uint32
	XkbStateKeyGetConsumedMods2   func(state uintptr, key uint32, mode uint32) uint32
	XkbStateLayoutNameIsActive    func(state uintptr, name *byte, kind uint32) int32
	XkbStateLayoutIndexIsActive   func(state uintptr, idx uint32, kind uint32) int32
	XkbStateLedNameIsActive       func(state uintptr, name *byte) int32
	XkbStateLedIndexIsActive      func(state uintptr, idx uint32) int32
)

// Compose.
var (
	XkbComposeTableNewFromLocale func(context uintptr, locale *byte, flags uint32) uintptr
	XkbComposeTableNewFromBuffer func(context uintptr, buffer *byte, length uintptr, locale *byte, format uint32, flags uint32) uintptr
	XkbComposeTableRef           func(table uintptr) uintptr
	XkbComposeTableUnref         func(table uintptr)
	XkbComposeStateNew           func(table uintptr, flags uint32) uintptr
	XkbComposeStateRef           func(state uintptr) uintptr
	XkbComposeStateUnref         func(state uintptr)
	XkbComposeStateGetTable      func(state uintptr) uintptr
	XkbComposeStateFeed          func(state uintptr, keysym uint32) uint32
	XkbComposeStateReset         func(state uintptr)
	XkbComposeStateGetStatus     func(state uintptr) uint32
	XkbComposeStateGetUtf8       func(state uintptr, buffer *byte, size uintptr) int32
	XkbComposeStateGetOneSym     func(state uintptr) uint32
)

var libcFree func(ptr *byte)

type symbol struct {
	fptr     interface{}
	name     string
	optional bool
}

func coreSymbols() []symbol {
	return []symbol{
		{&XkbKeysymGetName, "xkb_keysym_get_name", false},
		{&XkbKeysymFromName, "xkb_keysym_from_name", false},
		{&XkbKeysymToUtf8, "xkb_keysym_to_utf8", false},
		{&XkbKeysymToUtf32, "xkb_keysym_to_utf32", false},
		{&XkbUtf32ToKeysym, "xkb_utf32_to_keysym", true},
		{&XkbKeysymToUpper, "xkb_keysym_to_upper", true},
		{&XkbKeysymToLower, "xkb_keysym_to_lower", true},

		{&XkbContextNew, "xkb_context_new", false},
		{&XkbContextRef, "xkb_context_ref", false},
		{&XkbContextUnref, "xkb_context_unref", false},
		{&XkbContextIncludePathAppend, "xkb_context_include_path_append", false},
		{&XkbContextIncludePathAppendDef, "xkb_context_include_path_append_default", false},
		{&XkbContextIncludePathResetDefs, "xkb_context_include_path_reset_defaults", false},
		{&XkbContextIncludePathClear, "xkb_context_include_path_clear", false},
		{&XkbContextNumIncludePaths, "xkb_context_num_include_paths", false},
		{&XkbContextIncludePathGet, "xkb_context_include_path_get", false},
		{&XkbContextSetLogLevel, "xkb_context_set_log_level", false},
		{&XkbContextGetLogLevel, "xkb_context_get_log_level", false},
		{&XkbContextSetLogVerbosity, "xkb_context_set_log_verbosity", false},
		{&XkbContextGetLogVerbosity, "xkb_context_get_log_verbosity", false},

		{&XkbKeymapNewFromNames, "xkb_keymap_new_from_names", false},
		{&XkbKeymapNewFromString, "xkb_keymap_new_from_string", false},
		{&XkbKeymapNewFromBuffer, "xkb_keymap_new_from_buffer", false},
		{&XkbKeymapRef, "xkb_keymap_ref", false},
		{&XkbKeymapUnref, "xkb_keymap_unref", false},
		{&XkbKeymapGetAsString, "xkb_keymap_get_as_string", false},
		{&XkbKeymapMinKeycode, "xkb_keymap_min_keycode", false},
		{&XkbKeymapMaxKeycode, "xkb_keymap_max_keycode", false},
		{&xkbKeymapKeyForEach, "xkb_keymap_key_for_each", false},
		{&XkbKeymapNumMods, "xkb_keymap_num_mods", false},
		{&XkbKeymapModGetName, "xkb_keymap_mod_get_name", false},
		{&XkbKeymapModGetIndex, "xkb_keymap_mod_get_index", false},
		{&XkbKeymapNumLayouts, "xkb_keymap_num_layouts", false},
		{&XkbKeymapLayoutGetName, "xkb_keymap_layout_get_name", false},
		{&XkbKeymapLayoutGetIndex, "xkb_keymap_layout_get_index", false},
		{&XkbKeymapNumLeds, "xkb_keymap_num_leds", false},
		{&XkbKeymapLedGetName, "xkb_keymap_led_get_name", false},
		{&XkbKeymapLedGetIndex, "xkb_keymap_led_get_index", false},
		{&XkbKeymapNumLayoutsForKey, "xkb_keymap_num_layouts_for_key", false},
		{&XkbKeymapNumLevelsForKey, "xkb_keymap_num_levels_for_key", false},
		{&XkbKeymapKeyGetSymsByLevel, "xkb_keymap_key_get_syms_by_level", false},
		{&XkbKeymapKeyGetModsForLevel, "xkb_keymap_key_get_mods_for_level", true},
		{&XkbKeymapKeyByName, "xkb_keymap_key_by_name", false},
		{&XkbKeymapKeyGetName, "xkb_keymap_key_get_name", false},
		{&XkbKeymapKeyRepeats, "xkb_keymap_key_repeats", false},

		{&XkbStateNew, "xkb_state_new", false},
		{&XkbStateRef, "xkb_state_ref", false},
		{&XkbStateUnref, "xkb_state_unref", false},
		{&XkbStateGetKeymap, "xkb_state_get_keymap", false},
		{&XkbStateUpdateKey, "xkb_state_update_key", false},
		{&XkbStateUpdateMask, "xkb_state_update_mask", false},
		{&XkbStateKeyGetSyms, "xkb_state_key_get_syms", false},
		{&XkbStateKeyGetUtf8, "xkb_state_key_get_utf8", false},
		{&XkbStateKeyGetUtf32, "xkb_state_key_get_utf32", false},
		{&XkbStateKeyGetOneSym, "xkb_state_key_get_one_sym", false},
		{&XkbStateKeyGetLayout, "xkb_state_key_get_layout", false},
		{&XkbStateKeyGetLevel, "xkb_state_key_get_level", false},
		{&XkbStateSerializeMods, "xkb_state_serialize_mods", false},
		{&XkbStateSerializeLayout, "xkb_state_serialize_layout", false},
		{&XkbStateModNameIsActive, "xkb_state_mod_name_is_active", false},
		{&XkbStateModIndexIsActive, "xkb_state_mod_index_is_active", false},
		{&XkbStateModIndexIsConsumed, "xkb_state_mod_index_is_consumed", false},
		{&XkbStateModIndexIsConsumed2, "xkb_state_mod_index_is_consumed2", true},
		{&XkbStateModMaskRemoveConsumed, "xkb_state_mod_mask_remove_consumed", false},
		{&XkbStateKeyGetConsumedMods, "xkb_state_key_get_consumed_mods", false},
		{&XkbStateKeyGetConsumedMods2, "xkb_state_key_get_consumed_mods2", true},
		{&XkbStateLayoutNameIsActive, "xkb_state_layout_name_is_active", false},
		{&XkbStateLayoutIndexIsActive, "xkb_state_layout_index_is_active", false},
		{&XkbStateLedNameIsActive, "xkb_state_led_name_is_active", false},
		{&XkbStateLedIndexIsActive, "xkb_state_led_index_is_active", false},

		{&XkbComposeTableNewFromLocale, "xkb_compose_table_new_from_locale", false},
		{&XkbComposeTableNewFromBuffer, "xkb_compose_table_new_from_buffer", false},
		{&XkbComposeTableRef, "xkb_compose_table_ref", false},
		{&XkbComposeTableUnref, "xkb_compose_table_unref", false},
		{&XkbComposeStateNew, "xkb_compose_state_new", false},
		{&XkbComposeStateRef, "xkb_compose_state_ref", false},
		{&XkbComposeStateUnref, "xkb_compose_state_unref", false},
		{&XkbComposeStateGetTable, "xkb_compose_state_get_compose_table", false},
		{&XkbComposeStateFeed, "xkb_compose_state_feed", false},
		{&XkbComposeStateReset, "xkb_compose_state_reset", false},
		{&XkbComposeStateGetStatus, "xkb_compose_state_get_status", false},
		{&XkbComposeStateGetUtf8, "xkb_compose_state_get_utf8", false},
		{&XkbComposeStateGetOneSym, "xkb_compose_state_get_one_sym", false},
	}
}

// Load opens libxkbcommon and binds every entry point. Only the first call
// does any work; later calls return the same result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = load()
	})
	return loadErr
}

func load() error {
	var err error
	libxkbcommon, err = dlopen("libxkbcommon.so", "libxkbcommon.so.0")
	if err != nil {
		return err
	}
	libc, err = dlopen("libc.so.6", "libc.so")
	if err != nil {
		return err
	}
	if err := register(libc, symbol{&libcFree, "free", false}); err != nil {
		return err
	}
	for _, sym := range coreSymbols() {
		if err := register(libxkbcommon, sym); err != nil {
			return err
		}
	}
	keyForEachTrampoline = purego.NewCallback(keyForEachCallback)
	return nil
}

func dlopen(names ...string) (uintptr, error) {
	var lastErr error
	for _, name := range names {
		handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("failed to load %s: %v", names[0], lastErr)
}

// register binds one symbol. Optional symbols that the installed library
// lacks are left nil.
func register(handle uintptr, sym symbol) error {
	addr, err := purego.Dlsym(handle, sym.name)
	if err != nil || addr == 0 {
		if sym.optional {
			return nil
		}
		return fmt.Errorf("missing symbol %s: %v", sym.name, err)
	}
	purego.RegisterFunc(sym.fptr, addr)
	return nil
}

// Free releases memory the library allocated with malloc.
func Free(p *byte) {
	if p != nil {
		libcFree(p)
	}
}

// CString returns a NUL-terminated copy of s. A NUL inside s cannot be
// represented on the C side and is treated as a programming error.
func CString(s string) *byte {
	if strings.IndexByte(s, 0) >= 0 {
		panic(fmt.Sprintf("xkb: string %q contains an embedded NUL byte", s))
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// GoString copies a NUL-terminated C string. A nil pointer yields "".
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
