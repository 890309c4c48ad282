// Package xkb binds libxkbcommon, the keymap compiler and keyboard state
// machine used by Wayland compositors, toolkits and X11 clients.
//
// The library is loaded at runtime; no cgo is involved. Every constructor
// reports ErrLibrary when libxkbcommon.so cannot be found.
//
// A typical client compiles a keymap once, creates a State from it and feeds
// key events through it:
//
//	ctx, err := xkb.NewContext(xkb.ContextNoFlags)
//	if err != nil {
//		return err
//	}
//	defer ctx.Unref()
//	km, err := xkb.NewKeymapFromNames(ctx, xkb.RuleNames{Layout: "us"}, xkb.KeymapCompileNoFlags)
//	if err != nil {
//		return err
//	}
//	defer km.Unref()
//	st, err := xkb.NewState(km)
//	if err != nil {
//		return err
//	}
//	defer st.Unref()
//	st.UpdateKey(xkb.KeycodeFromEvdev(evdevCode), xkb.DirectionDown)
//	fmt.Println(st.KeyUTF8(xkb.KeycodeFromEvdev(evdevCode)))
//
// Context, Keymap and State are reference counted by the library. Each Go
// wrapper owns one reference: Ref returns a new wrapper with a reference of
// its own and Unref gives it back. Wrappers that are dropped without Unref
// are released by a finalizer.
//
// Strings passed in must not contain NUL bytes; doing so panics.
package xkb
