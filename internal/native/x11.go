package native

import (
	"sync"
)

var (
	libxkbcommonX11 uintptr
	libxcb          uintptr

	loadX11Once sync.Once
	loadX11Err  error
)

// libxkbcommon-x11.
var (
	XkbX11SetupXkbExtension       func(connection uintptr, major, minor uint16, flags uint32, majorOut, minorOut *uint16, baseEventOut, baseErrorOut *uint8) int32
	XkbX11GetCoreKeyboardDeviceID func(connection uintptr) int32
	XkbX11KeymapNewFromDevice     func(context uintptr, connection uintptr, deviceID int32, flags uint32) uintptr
	XkbX11StateNewFromDevice      func(keymap uintptr, connection uintptr, deviceID int32) uintptr
)

// libxcb.
var (
	XcbConnect            func(displayName *byte, screenOut *int32) uintptr
	XcbDisconnect         func(connection uintptr)
	XcbConnectionHasError func(connection uintptr) int32
)

// LoadX11 binds libxkbcommon-x11 and the few libxcb calls needed to own a
// connection. It loads the core library first.
func LoadX11() error {
	if err := Load(); err != nil {
		return err
	}
	loadX11Once.Do(func() {
		loadX11Err = loadX11()
	})
	return loadX11Err
}

func loadX11() error {
	var err error
	libxcb, err = dlopen("libxcb.so", "libxcb.so.1")
	if err != nil {
		return err
	}
	libxkbcommonX11, err = dlopen("libxkbcommon-x11.so", "libxkbcommon-x11.so.0")
	if err != nil {
		return err
	}
	xcb := []symbol{
		{&XcbConnect, "xcb_connect", false},
		{&XcbDisconnect, "xcb_disconnect", false},
		{&XcbConnectionHasError, "xcb_connection_has_error", false},
	}
	for _, sym := range xcb {
		if err := register(libxcb, sym); err != nil {
			return err
		}
	}
	x11 := []symbol{
		{&XkbX11SetupXkbExtension, "xkb_x11_setup_xkb_extension", false},
		{&XkbX11GetCoreKeyboardDeviceID, "xkb_x11_get_core_keyboard_device_id", false},
		{&XkbX11KeymapNewFromDevice, "xkb_x11_keymap_new_from_device", false},
		{&XkbX11StateNewFromDevice, "xkb_x11_state_new_from_device", false},
	}
	for _, sym := range x11 {
		if err := register(libxkbcommonX11, sym); err != nil {
			return err
		}
	}
	return nil
}
