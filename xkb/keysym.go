package xkb

import (
	"fmt"

	"github.com/tuxx/goxkb/internal/native"
)

const (
	keysymNameBufSize = 64
	keysymUTF8BufSize = 8
)

// KeysymName returns the name of a keysym, e.g. "Shift_L" or "U00E1" for
// unnamed Unicode keysyms. It returns "" if the library is unavailable.
func KeysymName(ks Keysym) string {
	if native.Load() != nil {
		return ""
	}
	var buf [keysymNameBufSize]byte
	n := native.XkbKeysymGetName(uint32(ks), &buf[0], uintptr(len(buf)))
	if n <= 0 {
		return ""
	}
	if int(n) >= len(buf) {
		n = int32(len(buf) - 1)
	}
	return string(buf[:n])
}

// KeysymFromName looks up a keysym by name. It returns KeyNoSymbol on a miss.
//
// With KeysymCaseInsensitive, a name matching keysyms that differ only by
// case resolves to the lower-case one. Try a case-sensitive lookup first.
func KeysymFromName(name string, flags KeysymFlags) Keysym {
	if native.Load() != nil {
		return KeyNoSymbol
	}
	return Keysym(native.XkbKeysymFromName(native.CString(name), uint32(flags)))
}

// KeysymToUTF8 returns the text a keysym produces, or "" if it has no
// Unicode representation. For keys pressed under a State, prefer
// State.KeyUTF8, which applies control and caps transformations.
func KeysymToUTF8(ks Keysym) string {
	if native.Load() != nil {
		return ""
	}
	var buf [keysymUTF8BufSize]byte
	n := native.XkbKeysymToUtf8(uint32(ks), &buf[0], uintptr(len(buf)))
	// n counts the terminating NUL.
	if n <= 1 {
		return ""
	}
	return string(buf[:n-1])
}

// KeysymToUTF32 returns the Unicode code point of a keysym, or 0.
func KeysymToUTF32(ks Keysym) rune {
	if native.Load() != nil {
		return 0
	}
	return rune(native.XkbKeysymToUtf32(uint32(ks)))
}

// UTF32ToKeysym is the inverse of KeysymToUTF32. When several keysyms map to
// the same code point the lowest one wins. Code points without a legacy
// keysym use the direct 0x01000000 encoding.
func UTF32ToKeysym(r rune) Keysym {
	if native.Load() != nil {
		return KeyNoSymbol
	}
	if native.XkbUtf32ToKeysym == nil {
		return utf32ToKeysymFallback(r)
	}
	return Keysym(native.XkbUtf32ToKeysym(uint32(r)))
}

// utf32ToKeysymFallback covers libraries older than 1.0 for the Latin-1 and
// direct-encoding ranges only.
func utf32ToKeysymFallback(r rune) Keysym {
	switch {
	case (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff):
		return Keysym(r)
	case r >= 0x100 && r <= 0x10ffff:
		return Keysym(0x01000000 | uint32(r))
	}
	return KeyNoSymbol
}

// KeysymToUpper returns the upper-case form of a keysym, or ks itself.
func KeysymToUpper(ks Keysym) Keysym {
	if native.Load() != nil || native.XkbKeysymToUpper == nil {
		return ks
	}
	return Keysym(native.XkbKeysymToUpper(uint32(ks)))
}

// KeysymToLower returns the lower-case form of a keysym, or ks itself.
func KeysymToLower(ks Keysym) Keysym {
	if native.Load() != nil || native.XkbKeysymToLower == nil {
		return ks
	}
	return Keysym(native.XkbKeysymToLower(uint32(ks)))
}

func (ks Keysym) String() string {
	if name := KeysymName(ks); name != "" {
		return name
	}
	return fmt.Sprintf("0x%08x", uint32(ks))
}
