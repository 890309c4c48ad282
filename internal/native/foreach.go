package native

import "sync"

// purego callbacks are never released, so a single trampoline serves every
// xkb_keymap_key_for_each call and dispatches on the data pointer.
var (
	keyForEachTrampoline uintptr

	iterMu   sync.Mutex
	iterNext uintptr
	iterFns  = make(map[uintptr]func(key uint32))
)

func keyForEachCallback(keymap uintptr, key uint32, data uintptr) {
	iterMu.Lock()
	fn := iterFns[data]
	iterMu.Unlock()
	if fn != nil {
		fn(key)
	}
}

// XkbKeymapKeyForEach calls fn for every key in the keymap, in ascending
// keycode order. fn may call back into the library.
func XkbKeymapKeyForEach(keymap uintptr, fn func(key uint32)) {
	iterMu.Lock()
	iterNext++
	id := iterNext
	iterFns[id] = fn
	iterMu.Unlock()

	defer func() {
		iterMu.Lock()
		delete(iterFns, id)
		iterMu.Unlock()
	}()

	xkbKeymapKeyForEach(keymap, keyForEachTrampoline, id)
}
