package xkb

import (
	"errors"

	"github.com/tuxx/goxkb/internal/native"
)

var (
	// ErrLibrary is returned when libxkbcommon cannot be loaded.
	ErrLibrary = errors.New("xkb: libxkbcommon unavailable")
	// ErrCreate is returned when the library fails to allocate an object.
	ErrCreate = errors.New("xkb: object creation failed")
	// ErrCompile is returned when a keymap or compose table does not
	// compile. The library logs the reason itself.
	ErrCompile = errors.New("xkb: compilation failed")
	// ErrSerialize is returned when a keymap cannot be rendered as text.
	ErrSerialize = errors.New("xkb: serialization failed")
)

// Load makes sure libxkbcommon is loaded. Constructors call it; use it
// directly to probe for the library.
func Load() error {
	if err := native.Load(); err != nil {
		return errors.Join(ErrLibrary, err)
	}
	return nil
}
