package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/tuxx/goxkb/xkb"
)

const devInputPath = "/dev/input"

// EvdevTracer feeds a Linux input device through a Tracer. When the device
// goes away it waits for it to reappear.
type EvdevTracer struct {
	path   string
	grab   bool
	tracer *Tracer
}

// NewEvdevTracer traces the configured device, or the first device that
// looks like a keyboard
func NewEvdevTracer(config Configuration, tracer *Tracer) (*EvdevTracer, error) {
	path := config.EvdevDevice
	if path == "" {
		var err error
		if path, err = FindKeyboard(); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(devInputPath, path)
	}
	return &EvdevTracer{path: path, grab: config.Grab, tracer: tracer}, nil
}

// FindKeyboard returns the device node of the first input device whose
// name mentions a keyboard
func FindKeyboard() (string, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return "", fmt.Errorf("failed to list input devices: %w", err)
	}
	for _, dev := range devices {
		Debug("Input device %s: %s", dev.Fn, dev.Name)
		if strings.Contains(strings.ToLower(dev.Name), "keyboard") {
			Info("Using keyboard %s (%s)", dev.Fn, dev.Name)
			return dev.Fn, nil
		}
	}
	return "", errors.New("no keyboard found in " + devInputPath + "; set evdev_device")
}

// RunLoop traces until ctx is cancelled, reattaching on hotplug. Until the
// device has been attached once, a node that exists but cannot be opened
// is an error.
func (e *EvdevTracer) RunLoop(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch before the first open so no creation is missed.
	if err := watcher.Add(filepath.Dir(e.path)); err != nil {
		return err
	}

	attached := false
	for {
		if ctx.Err() != nil {
			return nil
		}
		kbd, err := e.open()
		missing := errors.Is(err, fs.ErrNotExist)
		switch {
		case err == nil:
			attached = true
			err = e.trace(ctx, kbd)
			if ctx.Err() != nil {
				return nil
			}
			Warn("Lost device %s: %v", e.path, err)
			// Reopen at once; the node may still be there.
			continue
		case missing:
			Info("Waiting for %s", e.path)
		case !attached:
			return err
		default:
			Debug("Device %s not ready: %v", e.path, err)
		}

		if err := e.waitForDevice(ctx, watcher, missing); err != nil {
			return err
		}
	}
}

// waitForDevice blocks until something happens to e.path. With created set
// it returns as soon as the node exists.
func (e *EvdevTracer) waitForDevice(ctx context.Context, watcher *fsnotify.Watcher, created bool) error {
	for {
		if created {
			if _, err := os.Stat(e.path); err == nil {
				Info("Device %s is back", e.path)
				return nil
			} else if !os.IsNotExist(err) {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case ev := <-watcher.Events:
			if !created && ev.Name == e.path {
				return nil
			}
		case err := <-watcher.Errors:
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				return err
			}
			if !created {
				return nil
			}
		}
	}
}

// Run traces the device until it fails or ctx is cancelled
func (e *EvdevTracer) Run(ctx context.Context) error {
	kbd, err := e.open()
	if err != nil {
		return err
	}
	return e.trace(ctx, kbd)
}

func (e *EvdevTracer) open() (*evdev.InputDevice, error) {
	kbd, err := evdev.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", e.path, err)
	}
	return kbd, nil
}

// trace reads kbd until it fails or ctx is cancelled, then closes it
func (e *EvdevTracer) trace(ctx context.Context, kbd *evdev.InputDevice) error {
	defer kbd.File.Close()
	Info("Attached %s (%s)", e.path, kbd.Name)

	if e.grab {
		if err := kbd.Grab(); err != nil {
			Warn("Failed to grab %s: %v", e.path, err)
		} else {
			defer kbd.Release()
		}
	}

	// Closing the file unblocks ReadOne.
	stop := context.AfterFunc(ctx, func() { kbd.File.Close() })
	defer stop()

	for {
		ev, err := kbd.ReadOne()
		if err != nil {
			return err
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		keyev := evdev.NewKeyEvent(ev)
		e.tracer.HandleKey(KeyEvent{
			Keycode: xkb.KeycodeFromEvdev(uint16(keyev.Scancode)),
			Down:    keyev.State == evdev.KeyDown || keyev.State == evdev.KeyHold,
			Repeat:  keyev.State == evdev.KeyHold,
		})
	}
}
