package internal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/tuxx/goxkb/xkb"
	"github.com/tuxx/goxkb/xkb/compose"
	"github.com/tuxx/goxkb/xkb/x11"
)

// X11Tracer traces keys typed into a small window. The keymap and state
// come from the server through libxkbcommon-x11; the window and its events
// use a separate xgb connection.
type X11Tracer struct {
	ctx      *xkb.Context
	xcb      *x11.Conn
	deviceID int32
	conn     *xgb.Conn
	closer   sync.Once
	closed   atomic.Bool
	screen   *xproto.ScreenInfo
	window   xproto.Window

	grab    bool
	compose *compose.State
	mode    xkb.ConsumedMode
	out     io.Writer

	keymap *xkb.Keymap
	state  *xkb.State
	tracer *Tracer
}

// NewX11Tracer creates a tracer for the X server named by $DISPLAY
func NewX11Tracer(ctx *xkb.Context, config Configuration, composeState *compose.State, out io.Writer) (*X11Tracer, error) {
	mode, err := ParseConsumedMode(config.ConsumedMode)
	if err != nil {
		return nil, err
	}
	return &X11Tracer{
		ctx:     ctx,
		grab:    config.Grab,
		compose: composeState,
		mode:    mode,
		out:     out,
	}, nil
}

// Init connects to the X server and creates the window
func (x *X11Tracer) Init() error {
	if err := x11.Load(); err != nil {
		return err
	}

	Info("Connecting to X server through libxcb")
	var err error
	x.xcb, err = x11.Connect("")
	if err != nil {
		Error("Failed to connect to X server: %v", err)
		return err
	}

	ext, err := x11.SetupXkbExtension(x.xcb, x11.MinMajorXkbVersion, x11.MinMinorXkbVersion, x11.SetupNoFlags)
	if err != nil {
		Error("Failed to set up XKB extension: %v", err)
		return err
	}
	Info("XKB extension %d.%d (event base %d, error base %d)", ext.Major, ext.Minor, ext.BaseEvent, ext.BaseError)

	x.deviceID, err = x11.CoreKeyboardDeviceID(x.xcb)
	if err != nil {
		Error("Failed to find core keyboard: %v", err)
		return err
	}
	Info("Core keyboard device ID: %d", x.deviceID)

	if err := x.loadKeymap(); err != nil {
		return err
	}

	Info("Connecting to X server for window events")
	x.conn, err = xgb.NewConn()
	if err != nil {
		Error("Failed to connect to X server: %v", err)
		return fmt.Errorf("failed to connect to X server: %v", err)
	}

	setup := xproto.Setup(x.conn)
	x.screen = setup.DefaultScreen(x.conn)

	wid, err := xproto.NewWindowId(x.conn)
	if err != nil {
		Error("Failed to allocate window ID: %v", err)
		return fmt.Errorf("failed to allocate window ID: %v", err)
	}
	x.window = wid

	err = xproto.CreateWindowChecked(
		x.conn,
		x.screen.RootDepth,
		x.window,
		x.screen.Root,
		0, 0, 480, 120,
		0,
		xproto.WindowClassInputOutput,
		x.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			x.screen.BlackPixel,
			uint32(xproto.EventMaskKeyPress |
				xproto.EventMaskKeyRelease |
				xproto.EventMaskFocusChange |
				xproto.EventMaskStructureNotify),
		},
	).Check()
	if err != nil {
		Error("Failed to create window: %v", err)
		return fmt.Errorf("failed to create window: %v", err)
	}

	wmName := "goxkb"
	xproto.ChangeProperty(x.conn, xproto.PropModeReplace, x.window,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(wmName)), []byte(wmName))

	if err := xproto.MapWindowChecked(x.conn, x.window).Check(); err != nil {
		Error("Failed to map window: %v", err)
		return fmt.Errorf("failed to map window: %v", err)
	}
	Info("Window %d mapped; focus it and type", x.window)
	return nil
}

// loadKeymap fetches the device keymap and state and replaces the tracer
func (x *X11Tracer) loadKeymap() error {
	keymap, err := x11.KeymapNewFromDevice(x.ctx, x.xcb, x.deviceID, xkb.KeymapCompileNoFlags)
	if err != nil {
		Error("Failed to get keymap from device: %v", err)
		return err
	}
	state, err := x11.StateNewFromDevice(keymap, x.xcb, x.deviceID)
	if err != nil {
		keymap.Unref()
		Error("Failed to get state from device: %v", err)
		return err
	}

	x.release()
	x.keymap, x.state = keymap, state
	x.tracer = NewTracer(state, x.compose, x.mode, x.out)
	Info("Keymap has %d layouts and %d modifiers", keymap.NumLayouts(), keymap.NumMods())
	return nil
}

func (x *X11Tracer) release() {
	if x.tracer != nil {
		x.tracer.Close()
		x.tracer = nil
	}
	if x.state != nil {
		x.state.Unref()
		x.state = nil
	}
	if x.keymap != nil {
		x.keymap.Unref()
		x.keymap = nil
	}
}

// Tracer returns the current tracer. It changes when the keyboard mapping
// changes.
func (x *X11Tracer) Tracer() *Tracer {
	return x.tracer
}

// Run processes window events until the window is destroyed or ctx is
// cancelled
func (x *X11Tracer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, x.closeConn)
	defer stop()

	for {
		ev, err := x.conn.WaitForEvent()
		if err != nil {
			if strings.Contains(err.Error(), "BadRequest") {
				Info("Ignoring X11 BadRequest error")
			} else {
				Error("Error waiting for event: %v", err)
			}
			continue
		}
		if ev == nil {
			// The connection is closed.
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("X server connection closed")
		}

		Debug("Received event: %T", ev)
		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			x.handleKey(xkb.Keycode(e.Detail), e.State, true)

		case xproto.KeyReleaseEvent:
			x.handleKey(xkb.Keycode(e.Detail), e.State, false)

		case xproto.FocusInEvent:
			if x.grab {
				x.grabKeyboard()
			}

		case xproto.MappingNotifyEvent:
			Info("Keyboard mapping changed, reloading keymap")
			if err := x.loadKeymap(); err != nil {
				return err
			}

		case xproto.DestroyNotifyEvent:
			if e.Window == x.window {
				return nil
			}
		}
	}
}

// handleKey mirrors the core state carried by the event, which is the
// state before the key was pressed or released
func (x *X11Tracer) handleKey(key xkb.Keycode, state uint16, down bool) {
	mods := xkb.ModMask(state & 0xff)
	group := xkb.LayoutIndex((state >> 13) & 0x3)
	x.tracer.UpdateMask(mods, 0, 0, group)
	x.tracer.HandleKey(KeyEvent{Keycode: key, Down: down})
}

func (x *X11Tracer) grabKeyboard() {
	reply, err := xproto.GrabKeyboard(
		x.conn,
		true,
		x.window,
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply()
	if err != nil {
		Warn("Failed to grab keyboard: %v", err)
		return
	}
	if reply.Status != xproto.GrabStatusSuccess {
		Warn("Failed to grab keyboard: status %d", reply.Status)
		return
	}
	Info("Keyboard grabbed, close the window to stop")
}

// closeConn closes the xgb connection once; Close panics when repeated
func (x *X11Tracer) closeConn() {
	x.closer.Do(func() {
		x.closed.Store(true)
		x.conn.Close()
	})
}

// Close releases the keymap, the window and both connections
func (x *X11Tracer) Close() {
	x.release()
	if x.conn != nil {
		if x.window != 0 && !x.closed.Load() {
			xproto.DestroyWindow(x.conn, x.window)
		}
		x.closeConn()
	}
	if x.xcb != nil {
		x.xcb.Close()
	}
}
