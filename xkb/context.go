package xkb

import (
	"fmt"
	"runtime"

	"github.com/tuxx/goxkb/internal/native"
)

// Context holds library-wide settings: the include path list used to find
// XKB data files, and the log level and verbosity. Keymaps and compose
// tables are compiled in a context.
//
// A Context owns one native reference. Ref takes another; Unref drops the
// one held by this wrapper. None of the methods are safe for concurrent use.
type Context struct {
	ptr uintptr
}

// NewContext creates a context.
func NewContext(flags ContextFlags) (*Context, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	ptr := native.XkbContextNew(uint32(flags))
	if ptr == 0 {
		return nil, fmt.Errorf("xkb_context_new: %w", ErrCreate)
	}
	return wrapContext(ptr), nil
}

// ContextFromRaw wraps a raw xkb_context pointer and takes over one
// reference to it.
func ContextFromRaw(ptr uintptr) *Context {
	if ptr == 0 {
		return nil
	}
	return wrapContext(ptr)
}

func wrapContext(ptr uintptr) *Context {
	c := &Context{ptr: ptr}
	runtime.SetFinalizer(c, (*Context).Unref)
	return c
}

// Raw returns the underlying xkb_context pointer. The wrapper keeps
// ownership.
func (c *Context) Raw() uintptr {
	return c.ptr
}

// Ref takes a new reference and returns it as a separate wrapper.
func (c *Context) Ref() *Context {
	defer runtime.KeepAlive(c)
	return wrapContext(native.XkbContextRef(c.ptr))
}

// Unref releases this wrapper's reference. Calling it twice is a no-op.
func (c *Context) Unref() {
	if c.ptr == 0 {
		return
	}
	native.XkbContextUnref(c.ptr)
	c.ptr = 0
	runtime.SetFinalizer(c, nil)
}

// IncludePathAppend adds a directory to the include path list. It returns
// false if the directory is not accessible.
func (c *Context) IncludePathAppend(path string) bool {
	defer runtime.KeepAlive(c)
	return native.XkbContextIncludePathAppend(c.ptr, native.CString(path)) == 1
}

// IncludePathAppendDefault appends the library's default include paths.
func (c *Context) IncludePathAppendDefault() bool {
	defer runtime.KeepAlive(c)
	return native.XkbContextIncludePathAppendDef(c.ptr) == 1
}

// IncludePathResetDefaults clears the list and appends the defaults.
func (c *Context) IncludePathResetDefaults() bool {
	defer runtime.KeepAlive(c)
	return native.XkbContextIncludePathResetDefs(c.ptr) == 1
}

// IncludePathClear empties the include path list.
func (c *Context) IncludePathClear() {
	defer runtime.KeepAlive(c)
	native.XkbContextIncludePathClear(c.ptr)
}

// NumIncludePaths returns the length of the include path list.
func (c *Context) NumIncludePaths() uint32 {
	defer runtime.KeepAlive(c)
	return native.XkbContextNumIncludePaths(c.ptr)
}

// IncludePath returns the include path at index i, or "" if out of range.
func (c *Context) IncludePath(i uint32) string {
	defer runtime.KeepAlive(c)
	return native.GoString(native.XkbContextIncludePathGet(c.ptr, i))
}

// IncludePaths iterates the include path list as it is now. Changing the
// list while iterating gives unspecified results.
func (c *Context) IncludePaths() *NameIterator {
	return newNameIterator(c.NumIncludePaths(), c.IncludePath)
}

// SetLogLevel sets the level of messages the library logs to stderr.
func (c *Context) SetLogLevel(level LogLevel) {
	defer runtime.KeepAlive(c)
	native.XkbContextSetLogLevel(c.ptr, uint32(level))
}

// LogLevel returns the current log level.
func (c *Context) LogLevel() LogLevel {
	defer runtime.KeepAlive(c)
	return LogLevel(native.XkbContextGetLogLevel(c.ptr))
}

// SetLogVerbosity sets how verbose compiler warnings are, 0 to 10.
func (c *Context) SetLogVerbosity(verbosity int) {
	defer runtime.KeepAlive(c)
	native.XkbContextSetLogVerbosity(c.ptr, int32(verbosity))
}

// LogVerbosity returns the current log verbosity.
func (c *Context) LogVerbosity() int {
	defer runtime.KeepAlive(c)
	return int(native.XkbContextGetLogVerbosity(c.ptr))
}
