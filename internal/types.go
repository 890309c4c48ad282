package internal

import (
	"io"

	"github.com/tuxx/goxkb/xkb"
	"github.com/tuxx/goxkb/xkb/compose"
)

// Configuration holds the application settings
type Configuration struct {
	// RMLVO names. Empty values are filled from localed (if enabled), then
	// by libxkbcommon from XKB_DEFAULT_* or its built-in defaults.
	Rules   string `json:"rules" toml:"rules" yaml:"rules"`
	Model   string `json:"model" toml:"model" yaml:"model"`
	Layout  string `json:"layout" toml:"layout" yaml:"layout"`
	Variant string `json:"variant" toml:"variant" yaml:"variant"`

	// Options is nil for the default options and "" for none
	Options *string `json:"options,omitempty" toml:"options,omitempty" yaml:"options,omitempty"`

	// Extra directories searched for XKB data, appended after the defaults
	IncludePaths []string `json:"include_paths" toml:"include_paths" yaml:"include_paths"`

	// Start with an empty include path list
	NoDefaultIncludes bool `json:"no_default_includes" toml:"no_default_includes" yaml:"no_default_includes"`

	// Ignore XKB_DEFAULT_* environment variables
	NoEnvironmentNames bool `json:"no_environment_names" toml:"no_environment_names" yaml:"no_environment_names"`

	// Log level of goxkb itself: debug, info, warn, error, none
	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level"`

	// Log level and verbosity of libxkbcommon
	XkbLogLevel     string `json:"xkb_log_level" toml:"xkb_log_level" yaml:"xkb_log_level"`
	XkbLogVerbosity int    `json:"xkb_log_verbosity" toml:"xkb_log_verbosity" yaml:"xkb_log_verbosity"`

	// Locale used to load the Compose table; empty means the environment
	ComposeLocale string `json:"compose_locale" toml:"compose_locale" yaml:"compose_locale"`

	// Compose file used instead of the locale's table
	ComposeFile string `json:"compose_file" toml:"compose_file" yaml:"compose_file"`

	// Disable Compose handling in the tracers
	NoCompose bool `json:"no_compose" toml:"no_compose" yaml:"no_compose"`

	// Consumed modifiers algorithm used in traces: xkb or gtk
	ConsumedMode string `json:"consumed_mode" toml:"consumed_mode" yaml:"consumed_mode"`

	// Input device read by the evdev tracer; empty picks the first keyboard
	EvdevDevice string `json:"evdev_device" toml:"evdev_device" yaml:"evdev_device"`

	// Grab the evdev device so other clients do not see its events
	Grab bool `json:"grab" toml:"grab" yaml:"grab"`

	// Fill empty RMLVO names from systemd-localed over D-Bus
	UseLocaled bool `json:"use_localed" toml:"use_localed" yaml:"use_localed"`
}

// RuleNames converts the RMLVO part of the configuration
func (c Configuration) RuleNames() xkb.RuleNames {
	return xkb.RuleNames{
		Rules:   c.Rules,
		Model:   c.Model,
		Layout:  c.Layout,
		Variant: c.Variant,
		Options: c.Options,
	}
}

// Tracer turns key events into readable lines. It is shared by the evdev,
// X11 and Wayland front ends.
type Tracer struct {
	keymap   *xkb.Keymap
	state    *xkb.State
	compose  *compose.State
	mode     xkb.ConsumedMode
	out      io.Writer
	external bool // state is driven by UpdateMask
}

// KeyEvent is one key transition fed to a Tracer
type KeyEvent struct {
	Keycode xkb.Keycode
	Down    bool
	Repeat  bool
}

// KeyCombo is one way of typing a keysym
type KeyCombo struct {
	Keycode xkb.Keycode
	KeyName string
	Layout  xkb.LayoutIndex
	Level   xkb.LevelIndex
	Mods    []xkb.ModMask
}

// ComposeResult is the outcome of feeding a keysym sequence
type ComposeResult struct {
	Keysym xkb.Keysym
	Feed   compose.FeedResult
	Status compose.Status
	Text   string
	Result xkb.Keysym
}
