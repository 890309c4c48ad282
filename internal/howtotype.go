package internal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tuxx/goxkb/xkb"
)

// ParseKeysym accepts a keysym name ("Shift_L"), a single character ("á"),
// a code point ("U+00E1") or a raw keysym value ("0xe1")
func ParseKeysym(arg string) (xkb.Keysym, error) {
	if arg == "" {
		return xkb.KeyNoSymbol, fmt.Errorf("empty keysym")
	}
	if ks := xkb.KeysymFromName(arg, xkb.KeysymNoFlags); ks != xkb.KeyNoSymbol {
		return ks, nil
	}
	if r, size := utf8.DecodeRuneInString(arg); size == len(arg) && r != utf8.RuneError {
		if ks := xkb.UTF32ToKeysym(r); ks != xkb.KeyNoSymbol {
			return ks, nil
		}
	}
	if hex, ok := strings.CutPrefix(strings.ToUpper(arg), "U+"); ok {
		cp, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return xkb.KeyNoSymbol, fmt.Errorf("bad code point %q: %w", arg, err)
		}
		if ks := xkb.UTF32ToKeysym(rune(cp)); ks != xkb.KeyNoSymbol {
			return ks, nil
		}
		return xkb.KeyNoSymbol, fmt.Errorf("no keysym for %s", arg)
	}
	if strings.HasPrefix(arg, "0x") || strings.HasPrefix(arg, "0X") {
		v, err := strconv.ParseUint(arg[2:], 16, 32)
		if err != nil {
			return xkb.KeyNoSymbol, fmt.Errorf("bad keysym value %q: %w", arg, err)
		}
		return xkb.Keysym(v), nil
	}
	if ks := xkb.KeysymFromName(arg, xkb.KeysymCaseInsensitive); ks != xkb.KeyNoSymbol {
		Warn("Keysym %q matched case-insensitively as %s", arg, ks)
		return ks, nil
	}
	return xkb.KeyNoSymbol, fmt.Errorf("unknown keysym %q", arg)
}

// HowToType lists every key, layout and level that produces target, with
// the modifier masks that select the level
func HowToType(keymap *xkb.Keymap, target xkb.Keysym) []KeyCombo {
	var combos []KeyCombo
	keymap.KeyForEach(func(km *xkb.Keymap, key xkb.Keycode) {
		name, ok := km.KeyName(key)
		if !ok {
			return
		}
		layouts := km.NumLayoutsForKey(key)
		for layout := xkb.LayoutIndex(0); uint32(layout) < layouts; layout++ {
			levels := km.NumLevelsForKey(key, layout)
			for level := xkb.LevelIndex(0); uint32(level) < levels; level++ {
				// Levels producing several keysyms do not type target alone.
				syms := km.KeySymsByLevel(key, layout, level)
				if len(syms) != 1 || syms[0] != target {
					continue
				}
				combos = append(combos, KeyCombo{
					Keycode: key,
					KeyName: name,
					Layout:  layout,
					Level:   level,
					Mods:    km.KeyModsForLevel(key, layout, level),
				})
			}
		}
	})
	return combos
}

// WriteCombos prints combos in a table
func WriteCombos(w io.Writer, keymap *xkb.Keymap, target xkb.Keysym, combos []KeyCombo) {
	fmt.Fprintf(w, "keysym: %s (0x%04x)", target, uint32(target))
	if text := xkb.KeysymToUTF8(target); text != "" {
		fmt.Fprintf(w, " %q", text)
	}
	fmt.Fprintln(w)
	if len(combos) == 0 {
		fmt.Fprintln(w, "not found in keymap")
		return
	}

	fmt.Fprintf(w, "%-8s %-6s %-20s %-6s %s\n", "KEYCODE", "KEY", "LAYOUT", "LEVEL", "MODIFIERS")
	for _, c := range combos {
		layout := fmt.Sprintf("%s (%d)", keymap.LayoutName(c.Layout), c.Layout)
		mods := make([]string, 0, len(c.Mods))
		for _, m := range c.Mods {
			mods = append(mods, ModMaskString(keymap, m))
		}
		if len(mods) == 0 {
			mods = append(mods, "?")
		}
		fmt.Fprintf(w, "%-8d %-6s %-20s %-6d %s\n", c.Keycode, c.KeyName, layout, c.Level+1, strings.Join(mods, ", "))
	}
}

// ModMaskString names the modifiers in mask, joined with "+"
func ModMaskString(keymap *xkb.Keymap, mask xkb.ModMask) string {
	if mask == 0 {
		return "[ ]"
	}
	var names []string
	it := keymap.Mods()
	for it.Next() {
		if mask&(1<<it.Index()) != 0 {
			names = append(names, it.Name())
		}
	}
	return "[ " + strings.Join(names, " + ") + " ]"
}
