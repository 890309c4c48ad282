package xkb

// Keycode identifies a physical key. With evdev-based keymaps the keycode is
// the kernel scan code plus EvdevOffset.
type Keycode uint32

// Keysym is a symbol a key can produce under a given state.
type Keysym uint32

// LayoutIndex is the index of a keyboard layout (an XKB "group").
type LayoutIndex uint32

// LayoutMask is a bit-set of layouts.
type LayoutMask uint32

// LevelIndex is the index of a shift level within a key's layout.
type LevelIndex uint32

// ModIndex is the index of a modifier.
type ModIndex uint32

// ModMask is a bit-set of modifiers, bit i set for ModIndex i.
type ModMask uint32

// LedIndex is the index of a keyboard LED.
type LedIndex uint32

// LedMask is a bit-set of LEDs.
type LedMask uint32

// Sentinels returned by lookups that miss.
const (
	KeycodeInvalid Keycode     = 0xffffffff
	LayoutInvalid  LayoutIndex = 0xffffffff
	LevelInvalid   LevelIndex  = 0xffffffff
	ModInvalid     ModIndex    = 0xffffffff
	LedInvalid     LedIndex    = 0xffffffff

	KeycodeMax Keycode = 0xfffffffe
)

// EvdevOffset is added to Linux input event codes to get XKB keycodes.
const EvdevOffset = 8

// KeycodeFromEvdev converts a Linux input event code into a keycode.
func KeycodeFromEvdev(code uint16) Keycode {
	return Keycode(code) + EvdevOffset
}

// KeycodeIsLegalExt reports whether key fits the extended keycode range.
func KeycodeIsLegalExt(key Keycode) bool {
	return key <= KeycodeMax
}

// KeycodeIsLegalX11 reports whether key fits the 8-bit X11 keycode range.
func KeycodeIsLegalX11(key Keycode) bool {
	return key >= 8 && key <= 255
}

// KeysymFlags control keysym name lookups.
type KeysymFlags uint32

const (
	KeysymNoFlags         KeysymFlags = 0
	KeysymCaseInsensitive KeysymFlags = 1 << 0
)

// ContextFlags are passed to NewContext.
type ContextFlags uint32

const (
	ContextNoFlags ContextFlags = 0
	// ContextNoDefaultIncludes starts with an empty include path list.
	ContextNoDefaultIncludes ContextFlags = 1 << 0
	// ContextNoEnvironmentNames ignores the XKB_DEFAULT_* variables when
	// filling in empty RMLVO names.
	ContextNoEnvironmentNames ContextFlags = 1 << 1
)

// LogLevel is the native library's log level.
type LogLevel uint32

const (
	LogLevelCritical LogLevel = 10
	LogLevelError    LogLevel = 20
	LogLevelWarning  LogLevel = 30
	LogLevelInfo     LogLevel = 40
	LogLevelDebug    LogLevel = 50
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelCritical:
		return "critical"
	case LogLevelError:
		return "error"
	case LogLevelWarning:
		return "warning"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	}
	return "unknown"
}

// ParseLogLevel maps a level name to a LogLevel.
func ParseLogLevel(name string) (LogLevel, bool) {
	switch name {
	case "critical", "crit":
		return LogLevelCritical, true
	case "error", "err":
		return LogLevelError, true
	case "warning", "warn":
		return LogLevelWarning, true
	case "info":
		return LogLevelInfo, true
	case "debug":
		return LogLevelDebug, true
	}
	return 0, false
}

// KeymapCompileFlags are passed to the keymap constructors.
type KeymapCompileFlags uint32

const KeymapCompileNoFlags KeymapCompileFlags = 0

// KeymapFormat selects a textual keymap format.
type KeymapFormat uint32

const (
	KeymapFormatTextV1 KeymapFormat = 1
	// KeymapFormatUseOriginal serializes in the format the keymap was
	// compiled from.
	KeymapFormatUseOriginal KeymapFormat = 0xffffffff
)

// KeyDirection is the direction of a key event.
type KeyDirection uint32

const (
	DirectionUp KeyDirection = iota
	DirectionDown
)

// StateComponent is a bit-set of state components. UpdateKey and
// UpdateMask return which of them changed.
type StateComponent uint32

const (
	StateModsDepressed StateComponent = 1 << 0
	StateModsLatched   StateComponent = 1 << 1
	StateModsLocked    StateComponent = 1 << 2
	// StateModsEffective overrides the other mod components when requested.
	StateModsEffective   StateComponent = 1 << 3
	StateLayoutDepressed StateComponent = 1 << 4
	StateLayoutLatched   StateComponent = 1 << 5
	StateLayoutLocked    StateComponent = 1 << 6
	// StateLayoutEffective overrides the other layout components when requested.
	StateLayoutEffective StateComponent = 1 << 7
	StateLeds            StateComponent = 1 << 8
)

// StateMatch selects how a set of modifiers is compared to the state.
type StateMatch uint32

const (
	StateMatchAny StateMatch = 1 << 0
	StateMatchAll StateMatch = 1 << 1
	// StateMatchNonExclusive allows modifiers outside the requested set to
	// be active as well.
	StateMatchNonExclusive StateMatch = 1 << 16
)

// ConsumedMode selects the consumed-modifiers algorithm.
type ConsumedMode uint32

const (
	ConsumedModeXKB ConsumedMode = iota
	ConsumedModeGTK
)

// Well-known modifier and LED names.
const (
	ModNameShift          = "Shift"
	ModNameCaps           = "Lock"
	ModNameCtrl           = "Control"
	ModNameAlt            = "Mod1"
	ModNameNum            = "Mod2"
	ModNameMod3           = "Mod3"
	ModNameLogo           = "Mod4"
	ModNameISOLevel3Shift = "Mod5"

	LedNameCaps   = "Caps Lock"
	LedNameNum    = "Num Lock"
	LedNameScroll = "Scroll Lock"
)
