// Package x11 builds keymaps and states from the keyboard of a running X
// server through libxkbcommon-x11.
//
// The calls need a libxcb connection. Connect opens one; ConnFromRaw wraps a
// connection owned elsewhere, for example by a toolkit.
package x11

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/tuxx/goxkb/internal/native"
	"github.com/tuxx/goxkb/xkb"
)

// Minimum XKB extension version libxkbcommon-x11 works with.
const (
	MinMajorXkbVersion = 1
	MinMinorXkbVersion = 0
)

// SetupFlags are passed to SetupXkbExtension.
type SetupFlags uint32

const SetupNoFlags SetupFlags = 0

var (
	// ErrExtension is returned when the server lacks a usable XKB extension.
	ErrExtension = errors.New("x11: XKB extension unavailable")
	// ErrDevice is returned for an unknown or unusable input device.
	ErrDevice = errors.New("x11: no such keyboard device")
	// ErrConnection is returned when the X server cannot be reached.
	ErrConnection = errors.New("x11: connection failed")
)

// Load binds libxkbcommon-x11 and libxcb.
func Load() error {
	if err := native.LoadX11(); err != nil {
		return errors.Join(xkb.ErrLibrary, err)
	}
	return nil
}

// Conn is an xcb_connection_t.
type Conn struct {
	ptr    uintptr
	owned  bool
	screen int
}

// Connect opens a connection to display, or to $DISPLAY when display is "".
func Connect(display string) (*Conn, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	var name *byte
	if display != "" {
		name = native.CString(display)
	}
	var screen int32
	ptr := native.XcbConnect(name, &screen)
	if ptr == 0 {
		return nil, fmt.Errorf("connect to %q: %w", display, ErrConnection)
	}
	// xcb_connect never returns NULL; failures come back as an error
	// connection that still has to be freed.
	if code := native.XcbConnectionHasError(ptr); code != 0 {
		native.XcbDisconnect(ptr)
		return nil, fmt.Errorf("connect to %q: xcb error %d: %w", display, code, ErrConnection)
	}
	return &Conn{ptr: ptr, owned: true, screen: int(screen)}, nil
}

// ConnFromRaw wraps a connection the caller owns. Close does not
// disconnect it.
func ConnFromRaw(ptr uintptr) *Conn {
	return &Conn{ptr: ptr}
}

// Raw returns the xcb_connection_t pointer.
func (c *Conn) Raw() uintptr {
	return c.ptr
}

// Screen returns the preferred screen number reported by Connect.
func (c *Conn) Screen() int {
	return c.screen
}

// Close disconnects a connection opened with Connect.
func (c *Conn) Close() {
	if c.owned && c.ptr != 0 {
		native.XcbDisconnect(c.ptr)
	}
	c.ptr = 0
}

// Extension describes the negotiated XKB extension.
type Extension struct {
	Major, Minor uint16
	BaseEvent    uint8
	BaseError    uint8
}

// SetupXkbExtension negotiates the XKB extension on conn. It must succeed
// before any other call in this package. The returned version is the one
// the server supports, which may be newer than requested.
func SetupXkbExtension(conn *Conn, major, minor uint16, flags SetupFlags) (Extension, error) {
	if err := Load(); err != nil {
		return Extension{}, err
	}
	var ext Extension
	ok := native.XkbX11SetupXkbExtension(conn.ptr, major, minor, uint32(flags),
		&ext.Major, &ext.Minor, &ext.BaseEvent, &ext.BaseError)
	if ok != 1 {
		return ext, fmt.Errorf("setup XKB %d.%d (server has %d.%d): %w",
			major, minor, ext.Major, ext.Minor, ErrExtension)
	}
	return ext, nil
}

// CoreKeyboardDeviceID returns the device id of the core keyboard.
func CoreKeyboardDeviceID(conn *Conn) (int32, error) {
	id := native.XkbX11GetCoreKeyboardDeviceID(conn.ptr)
	if id < 0 {
		return -1, ErrDevice
	}
	return id, nil
}

// KeymapNewFromDevice fetches the keymap of deviceID from the server.
func KeymapNewFromDevice(ctx *xkb.Context, conn *Conn, deviceID int32, flags xkb.KeymapCompileFlags) (*xkb.Keymap, error) {
	defer runtime.KeepAlive(ctx)
	ptr := native.XkbX11KeymapNewFromDevice(ctx.Raw(), conn.ptr, deviceID, uint32(flags))
	if ptr == 0 {
		return nil, fmt.Errorf("keymap for device %d: %w", deviceID, xkb.ErrCompile)
	}
	return xkb.KeymapFromRaw(ptr), nil
}

// StateNewFromDevice creates a state for km initialized from the server's
// current state of deviceID.
func StateNewFromDevice(km *xkb.Keymap, conn *Conn, deviceID int32) (*xkb.State, error) {
	defer runtime.KeepAlive(km)
	ptr := native.XkbX11StateNewFromDevice(km.Raw(), conn.ptr, deviceID)
	if ptr == 0 {
		return nil, fmt.Errorf("state for device %d: %w", deviceID, xkb.ErrCreate)
	}
	return xkb.StateFromRaw(ptr), nil
}
