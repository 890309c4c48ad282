//go:build linux || freebsd

package xkb

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// NewKeymapFromFD compiles a keymap shared through a file descriptor, as
// Wayland compositors do with wl_keyboard.keymap. size includes the
// terminating NUL. The fd is mapped read-only and private and is not
// closed.
func NewKeymapFromFD(ctx *Context, fd int, size int, format KeymapFormat, flags KeymapCompileFlags) (*Keymap, error) {
	if size <= 1 {
		return nil, fmt.Errorf("keymap fd: invalid size %d", size)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap keymap fd: %w", err)
	}
	defer unix.Munmap(data)
	return NewKeymapFromBuffer(ctx, data[:size-1], format, flags)
}
