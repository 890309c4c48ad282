package internal

import (
	"fmt"
	"io"

	"github.com/tuxx/goxkb/xkb"
)

// NewContext creates an xkb context configured from config: include paths
// and libxkbcommon logging
func NewContext(config Configuration) (*xkb.Context, error) {
	flags := xkb.ContextNoFlags
	if config.NoDefaultIncludes {
		flags |= xkb.ContextNoDefaultIncludes
	}
	if config.NoEnvironmentNames {
		flags |= xkb.ContextNoEnvironmentNames
	}

	ctx, err := xkb.NewContext(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to create xkb context: %w", err)
	}

	for _, p := range config.IncludePaths {
		if !ctx.IncludePathAppend(p) {
			Warn("Include path %s is not accessible, skipping", p)
		}
	}
	// Without an explicit xkb_log_level the library follows log_level.
	if level, ok := xkb.ParseLogLevel(config.XkbLogLevel); ok {
		ctx.SetLogLevel(level)
	} else {
		ctx.SetLogLevel(CurrentLogLevel().Xkb())
	}
	ctx.SetLogVerbosity(config.XkbLogVerbosity)

	it := ctx.IncludePaths()
	for it.Next() {
		Debug("Include path %d: %s", it.Index(), it.Name())
	}
	return ctx, nil
}

// CompileKeymap compiles the keymap described by config. With UseLocaled
// set, empty RMLVO names are first taken from systemd-localed.
func CompileKeymap(ctx *xkb.Context, config Configuration) (*xkb.Keymap, error) {
	if config.UseLocaled {
		km, err := QueryLocaled()
		if err != nil {
			Warn("Could not read keyboard settings from localed: %v", err)
		} else {
			ApplyLocaled(&config, km)
		}
	}

	names := config.RuleNames()
	Info("Compiling keymap: %s", names)
	keymap, err := xkb.NewKeymapFromNames(ctx, names, xkb.KeymapCompileNoFlags)
	if err != nil {
		return nil, err
	}
	return keymap, nil
}

// LoadKeymap compiles from a keymap file when path is set, otherwise from
// the configured RMLVO names
func LoadKeymap(ctx *xkb.Context, config Configuration, path string) (*xkb.Keymap, error) {
	if path == "" {
		return CompileKeymap(ctx, config)
	}
	Info("Loading keymap from %s", path)
	return xkb.NewKeymapFromFile(ctx, path, xkb.KeymapFormatTextV1, xkb.KeymapCompileNoFlags)
}

// DumpKeymap writes the serialized keymap to w. With verify set the text is
// compiled again and compared with the original.
func DumpKeymap(w io.Writer, ctx *xkb.Context, keymap *xkb.Keymap, verify bool) error {
	text, err := keymap.AsString(xkb.KeymapFormatTextV1)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write keymap: %w", err)
	}
	if !verify {
		return nil
	}

	again, err := xkb.NewKeymapFromString(ctx, text, xkb.KeymapFormatTextV1, xkb.KeymapCompileNoFlags)
	if err != nil {
		return fmt.Errorf("serialized keymap does not compile: %w", err)
	}
	defer again.Unref()
	if err := CompareKeymaps(keymap, again); err != nil {
		return fmt.Errorf("round trip mismatch: %w", err)
	}
	Info("Round trip check passed")
	return nil
}

// CompareKeymaps reports the first difference in keycode range, modifiers,
// layouts, LEDs or key names
func CompareKeymaps(a, b *xkb.Keymap) error {
	if a.MinKeycode() != b.MinKeycode() || a.MaxKeycode() != b.MaxKeycode() {
		return fmt.Errorf("keycode range [%d, %d] != [%d, %d]",
			a.MinKeycode(), a.MaxKeycode(), b.MinKeycode(), b.MaxKeycode())
	}
	lists := []struct {
		what string
		a, b *xkb.NameIterator
	}{
		{"modifiers", a.Mods(), b.Mods()},
		{"layouts", a.Layouts(), b.Layouts()},
		{"leds", a.Leds(), b.Leds()},
	}
	for _, l := range lists {
		an, bn := l.a.Collect(), l.b.Collect()
		if len(an) != len(bn) {
			return fmt.Errorf("%s: %d != %d", l.what, len(an), len(bn))
		}
		for i := range an {
			if an[i] != bn[i] {
				return fmt.Errorf("%s[%d]: %q != %q", l.what, i, an[i], bn[i])
			}
		}
	}
	for _, key := range a.Keycodes() {
		an, _ := a.KeyName(key)
		bn, ok := b.KeyName(key)
		if !ok || an != bn {
			return fmt.Errorf("key %d: %q != %q", key, an, bn)
		}
	}
	return nil
}

// DescribeKeymap writes a summary of the keymap
func DescribeKeymap(w io.Writer, keymap *xkb.Keymap) {
	fmt.Fprintf(w, "keycodes: %d..%d\n", keymap.MinKeycode(), keymap.MaxKeycode())

	sections := []struct {
		title string
		it    *xkb.NameIterator
	}{
		{"modifiers", keymap.Mods()},
		{"layouts", keymap.Layouts()},
		{"leds", keymap.Leds()},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "%s:\n", s.title)
		for s.it.Next() {
			if s.it.Name() == "" {
				continue
			}
			fmt.Fprintf(w, "  %2d %s\n", s.it.Index(), s.it.Name())
		}
	}
}
