package internal

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/neurlang/wayland/wl"
	"github.com/neurlang/wayland/wlclient"
	"golang.org/x/sys/unix"

	"github.com/tuxx/goxkb/xkb"
	"github.com/tuxx/goxkb/xkb/compose"
)

// wl_keyboard.keymap_format.xkb_v1
const keymapFormatXkbV1 = 1

var _ wl.RegistryGlobalHandler = (*WaylandTracer)(nil)
var _ wl.SeatCapabilitiesHandler = (*WaylandTracer)(nil)
var _ wl.KeyboardKeyHandler = (*WaylandTracer)(nil)
var _ wl.KeyboardEnterHandler = (*WaylandTracer)(nil)
var _ wl.KeyboardLeaveHandler = (*WaylandTracer)(nil)
var _ wl.KeyboardKeymapHandler = (*WaylandTracer)(nil)
var _ wl.KeyboardModifiersHandler = (*WaylandTracer)(nil)

// WaylandTracer follows the keymap and modifiers a compositor sends to the
// seat's keyboard. Key events only arrive while one of our surfaces has
// focus, so without one it reports keymaps and modifier changes.
type WaylandTracer struct {
	mu sync.Mutex

	ctx      *xkb.Context
	display  *wl.Display
	registry *wl.Registry
	seat     *wl.Seat
	keyboard *wl.Keyboard

	compose *compose.State
	mode    xkb.ConsumedMode
	out     io.Writer

	keymap *xkb.Keymap
	state  *xkb.State
	tracer *Tracer
}

// NewWaylandTracer creates a tracer for the compositor named by
// $WAYLAND_DISPLAY
func NewWaylandTracer(ctx *xkb.Context, config Configuration, composeState *compose.State, out io.Writer) (*WaylandTracer, error) {
	mode, err := ParseConsumedMode(config.ConsumedMode)
	if err != nil {
		return nil, err
	}
	return &WaylandTracer{
		ctx:     ctx,
		compose: composeState,
		mode:    mode,
		out:     out,
	}, nil
}

// Init connects to the compositor and binds the first seat
func (w *WaylandTracer) Init() error {
	conn, err := wlclient.DisplayConnect(nil)
	if err != nil {
		return fmt.Errorf("failed to connect to Wayland display: %w", err)
	}
	w.display = conn

	registry, err := conn.GetRegistry()
	if err != nil {
		return fmt.Errorf("failed to get registry: %w", err)
	}
	w.registry = registry
	registry.AddGlobalHandler(w)

	if err := wlclient.DisplayRoundtrip(conn); err != nil {
		return fmt.Errorf("failed to process registry events: %w", err)
	}
	if w.seat == nil {
		return fmt.Errorf("compositor has no wl_seat")
	}

	// Capabilities, then the keyboard's keymap.
	for i := 0; i < 2; i++ {
		if err := wlclient.DisplayRoundtrip(conn); err != nil {
			return fmt.Errorf("failed to process seat events: %w", err)
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.keyboard == nil {
		return fmt.Errorf("seat has no keyboard")
	}
	return nil
}

// Run dispatches events until ctx is cancelled or the connection fails
func (w *WaylandTracer) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		for {
			if err := wlclient.DisplayDispatch(w.display); err != nil {
				errc <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		Error("Failed to dispatch Wayland events: %v", err)
		return err
	}
}

// Close releases the keymap and state
func (w *WaylandTracer) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.release()
}

func (w *WaylandTracer) release() {
	if w.tracer != nil {
		w.tracer.Close()
		w.tracer = nil
	}
	if w.state != nil {
		w.state.Unref()
		w.state = nil
	}
	if w.keymap != nil {
		w.keymap.Unref()
		w.keymap = nil
	}
}

func (w *WaylandTracer) HandleRegistryGlobal(ev wl.RegistryGlobalEvent) {
	Debug("Registry global event: name=%d interface=%s version=%d", ev.Name, ev.Interface, ev.Version)

	if ev.Interface != "wl_seat" || w.seat != nil {
		return
	}
	version := ev.Version
	if version > 7 {
		version = 7
	}
	w.seat = wlclient.RegistryBindSeatInterface(w.registry, ev.Name, version)
	w.seat.AddCapabilitiesHandler(w)
	Debug("Bound wl_seat version %d", version)
}

func (w *WaylandTracer) HandleSeatCapabilities(ev wl.SeatCapabilitiesEvent) {
	Debug("Seat capabilities: %d", ev.Capabilities)

	w.mu.Lock()
	defer w.mu.Unlock()

	if ev.Capabilities&wl.SeatCapabilityKeyboard == 0 {
		if w.keyboard != nil {
			Info("Keyboard capability removed")
			w.keyboard = nil
		}
		return
	}
	if w.keyboard != nil {
		return
	}

	keyboard, err := w.seat.GetKeyboard()
	if err != nil {
		Error("Failed to get keyboard: %v", err)
		return
	}
	w.keyboard = keyboard
	w.keyboard.AddKeymapHandler(w)
	w.keyboard.AddModifiersHandler(w)
	w.keyboard.AddKeyHandler(w)
	w.keyboard.AddEnterHandler(w)
	w.keyboard.AddLeaveHandler(w)
	Debug("Keyboard handlers added")
}

func (w *WaylandTracer) HandleKeyboardKeymap(ev wl.KeyboardKeymapEvent) {
	fd := int(ev.Fd)
	defer unix.Close(fd)

	if ev.Format != keymapFormatXkbV1 {
		Warn("Ignoring keymap in format %d", ev.Format)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.setKeymap(fd, int(ev.Size)); err != nil {
		Error("Failed to compile keymap from compositor: %v", err)
	}
}

// setKeymap compiles the keymap in fd and replaces the current state
func (w *WaylandTracer) setKeymap(fd, size int) error {
	keymap, err := xkb.NewKeymapFromFD(w.ctx, fd, size, xkb.KeymapFormatTextV1, xkb.KeymapCompileNoFlags)
	if err != nil {
		return err
	}
	state, err := xkb.NewState(keymap)
	if err != nil {
		keymap.Unref()
		return err
	}

	w.release()
	w.keymap, w.state = keymap, state
	w.tracer = NewTracer(state, w.compose, w.mode, w.out)

	fmt.Fprintf(w.out, "keymap: %d bytes\n", size)
	DescribeKeymap(w.out, keymap)
	return nil
}

func (w *WaylandTracer) HandleKeyboardModifiers(ev wl.KeyboardModifiersEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tracer == nil {
		return
	}
	w.tracer.UpdateMask(xkb.ModMask(ev.ModsDepressed), xkb.ModMask(ev.ModsLatched),
		xkb.ModMask(ev.ModsLocked), xkb.LayoutIndex(ev.Group))
}

func (w *WaylandTracer) HandleKeyboardKey(ev wl.KeyboardKeyEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tracer == nil {
		return
	}
	w.tracer.HandleKey(KeyEvent{
		Keycode: xkb.Keycode(ev.Key + xkb.EvdevOffset),
		Down:    ev.State == 1,
	})
}

func (w *WaylandTracer) HandleKeyboardEnter(ev wl.KeyboardEnterEvent) {
	Debug("Keyboard enter: keys=%v", ev.Keys)
}

func (w *WaylandTracer) HandleKeyboardLeave(ev wl.KeyboardLeaveEvent) {
	Debug("Keyboard leave")
}
