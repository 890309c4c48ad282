package internal

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	localedName = "org.freedesktop.locale1"
	localedPath = dbus.ObjectPath("/org/freedesktop/locale1")
)

// LocaledKeymap is the X11 keyboard configuration stored by systemd-localed
type LocaledKeymap struct {
	Layout  string
	Model   string
	Variant string
	Options string
}

// propertyGetter is the subset of dbus.BusObject used here
type propertyGetter interface {
	GetProperty(p string) (dbus.Variant, error)
}

// QueryLocaled reads the X11 keyboard settings from org.freedesktop.locale1
// on the system bus
func QueryLocaled() (LocaledKeymap, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return LocaledKeymap{}, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer conn.Close()

	return readLocaled(conn.Object(localedName, localedPath))
}

func readLocaled(obj propertyGetter) (LocaledKeymap, error) {
	var km LocaledKeymap
	fields := []struct {
		prop string
		dst  *string
	}{
		{"X11Layout", &km.Layout},
		{"X11Model", &km.Model},
		{"X11Variant", &km.Variant},
		{"X11Options", &km.Options},
	}
	for _, f := range fields {
		v, err := obj.GetProperty(localedName + "." + f.prop)
		if err != nil {
			return km, fmt.Errorf("failed to read %s: %w", f.prop, err)
		}
		s, ok := v.Value().(string)
		if !ok {
			return km, fmt.Errorf("unexpected type for %s: %s", f.prop, v.Signature())
		}
		*f.dst = s
	}
	Debug("localed keymap: layout=%q model=%q variant=%q options=%q", km.Layout, km.Model, km.Variant, km.Options)
	return km, nil
}

// ApplyLocaled fills RMLVO fields the configuration leaves empty. Options
// are only taken when the configuration does not set them at all.
func ApplyLocaled(config *Configuration, km LocaledKeymap) {
	if config.Layout == "" {
		config.Layout = km.Layout
		// A variant only makes sense for the layout it came with.
		if config.Variant == "" {
			config.Variant = km.Variant
		}
	}
	if config.Model == "" {
		config.Model = km.Model
	}
	if config.Options == nil && km.Options != "" {
		opts := km.Options
		config.Options = &opts
	}
}
