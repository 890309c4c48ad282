// Package compose wraps the libxkbcommon Compose implementation: a table of
// keysym sequences loaded from a Compose file, and a state machine that is
// fed one keysym at a time.
package compose

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/tuxx/goxkb/internal/native"
	"github.com/tuxx/goxkb/xkb"
)

// CompileFlags are passed to the table constructors.
type CompileFlags uint32

const CompileNoFlags CompileFlags = 0

// Format is the format of a Compose file.
type Format uint32

const FormatTextV1 Format = 1

// StateFlags are passed to NewState.
type StateFlags uint32

const StateNoFlags StateFlags = 0

// Status is the state of a sequence in progress.
type Status uint32

const (
	StatusNothing Status = iota
	StatusComposing
	StatusComposed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusNothing:
		return "nothing"
	case StatusComposing:
		return "composing"
	case StatusComposed:
		return "composed"
	case StatusCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("status(%d)", uint32(s))
}

// FeedResult tells whether a fed keysym took part in composition.
type FeedResult uint32

const (
	// FeedIgnored is returned for modifier keysyms, which never affect
	// the sequence.
	FeedIgnored FeedResult = iota
	FeedAccepted
)

func (r FeedResult) String() string {
	if r == FeedAccepted {
		return "accepted"
	}
	return "ignored"
}

const utf8BufSize = 256

// Table is a compiled Compose table. It is immutable once built.
type Table struct {
	ptr uintptr
}

func wrapTable(ptr uintptr) *Table {
	t := &Table{ptr: ptr}
	runtime.SetFinalizer(t, (*Table).Unref)
	return t
}

func checkTable(ptr uintptr, what string) (*Table, error) {
	if ptr == 0 {
		return nil, fmt.Errorf("%s: %w", what, xkb.ErrCompile)
	}
	return wrapTable(ptr), nil
}

// NewTableFromLocale loads the Compose file for locale, honouring
// XCOMPOSEFILE and ~/.XCompose the way X11 clients do.
func NewTableFromLocale(ctx *xkb.Context, locale string, flags CompileFlags) (*Table, error) {
	if err := xkb.Load(); err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(ctx)
	ptr := native.XkbComposeTableNewFromLocale(ctx.Raw(), native.CString(locale), uint32(flags))
	return checkTable(ptr, fmt.Sprintf("compose table for locale %q", locale))
}

// NewTableFromBuffer compiles a Compose file held in memory. locale is
// used to resolve %L style includes.
func NewTableFromBuffer(ctx *xkb.Context, buf []byte, locale string, format Format, flags CompileFlags) (*Table, error) {
	if err := xkb.Load(); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.Join(xkb.ErrCompile, errors.New("compose table from buffer: empty buffer"))
	}
	defer runtime.KeepAlive(ctx)
	ptr := native.XkbComposeTableNewFromBuffer(ctx.Raw(), &buf[0], uintptr(len(buf)),
		native.CString(locale), uint32(format), uint32(flags))
	runtime.KeepAlive(buf)
	return checkTable(ptr, "compose table from buffer")
}

// NewTableFromFile reads a Compose file and compiles it.
func NewTableFromFile(ctx *xkb.Context, path, locale string, format Format, flags CompileFlags) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compose file: %w", err)
	}
	t, err := NewTableFromBuffer(ctx, data, locale, format, flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Raw returns the underlying xkb_compose_table pointer.
func (t *Table) Raw() uintptr {
	return t.ptr
}

// Ref takes a new reference and returns it as a separate wrapper.
func (t *Table) Ref() *Table {
	defer runtime.KeepAlive(t)
	return wrapTable(native.XkbComposeTableRef(t.ptr))
}

// Unref releases this wrapper's reference. Calling it twice is a no-op.
func (t *Table) Unref() {
	if t.ptr == 0 {
		return
	}
	native.XkbComposeTableUnref(t.ptr)
	t.ptr = 0
	runtime.SetFinalizer(t, nil)
}

// State tracks one sequence in progress against a Table. It is not safe for
// concurrent use.
type State struct {
	ptr uintptr
}

func wrapState(ptr uintptr) *State {
	s := &State{ptr: ptr}
	runtime.SetFinalizer(s, (*State).Unref)
	return s
}

// NewState creates a compose state for table. The state holds its own
// reference on the table.
func NewState(table *Table, flags StateFlags) (*State, error) {
	defer runtime.KeepAlive(table)
	ptr := native.XkbComposeStateNew(table.ptr, uint32(flags))
	if ptr == 0 {
		return nil, fmt.Errorf("xkb_compose_state_new: %w", xkb.ErrCreate)
	}
	return wrapState(ptr), nil
}

// Raw returns the underlying xkb_compose_state pointer.
func (s *State) Raw() uintptr {
	return s.ptr
}

// Ref takes a new reference and returns it as a separate wrapper.
func (s *State) Ref() *State {
	defer runtime.KeepAlive(s)
	return wrapState(native.XkbComposeStateRef(s.ptr))
}

// Unref releases this wrapper's reference. Calling it twice is a no-op.
func (s *State) Unref() {
	if s.ptr == 0 {
		return
	}
	native.XkbComposeStateUnref(s.ptr)
	s.ptr = 0
	runtime.SetFinalizer(s, nil)
}

// Table returns the table the state was created for, with a reference of
// its own.
func (s *State) Table() *Table {
	defer runtime.KeepAlive(s)
	return wrapTable(native.XkbComposeTableRef(native.XkbComposeStateGetTable(s.ptr)))
}

// Feed advances the sequence with one keysym. After StatusComposed or
// StatusCancelled the next accepted keysym starts a new sequence.
func (s *State) Feed(ks xkb.Keysym) FeedResult {
	defer runtime.KeepAlive(s)
	return FeedResult(native.XkbComposeStateFeed(s.ptr, uint32(ks)))
}

// Reset drops any sequence in progress.
func (s *State) Reset() {
	defer runtime.KeepAlive(s)
	native.XkbComposeStateReset(s.ptr)
}

// Status returns the status of the current sequence.
func (s *State) Status() Status {
	defer runtime.KeepAlive(s)
	return Status(native.XkbComposeStateGetStatus(s.ptr))
}

// UTF8 returns the text of a composed sequence. It reports false unless the
// status is StatusComposed and the sequence produces text.
func (s *State) UTF8() (string, bool) {
	defer runtime.KeepAlive(s)
	var buf [utf8BufSize]byte
	n := native.XkbComposeStateGetUtf8(s.ptr, &buf[0], uintptr(len(buf)))
	if n <= 0 {
		return "", false
	}
	if int(n) >= len(buf) {
		n = int32(len(buf) - 1)
	}
	return string(buf[:n]), true
}

// Keysym returns the keysym of a composed sequence. It reports false unless
// the status is StatusComposed and the sequence has a keysym.
func (s *State) Keysym() (xkb.Keysym, bool) {
	defer runtime.KeepAlive(s)
	ks := xkb.Keysym(native.XkbComposeStateGetOneSym(s.ptr))
	return ks, ks != xkb.KeyNoSymbol
}
