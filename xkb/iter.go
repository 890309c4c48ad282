package xkb

// NameIterator walks an indexed list of names (modifiers, layouts, LEDs or
// include paths). The length is read once when the iterator is created;
// create a new iterator to start over.
//
//	it := keymap.Mods()
//	for it.Next() {
//		fmt.Println(it.Index(), it.Name())
//	}
type NameIterator struct {
	get  func(idx uint32) string
	next uint32
	n    uint32
	cur  string
}

func newNameIterator(n uint32, get func(idx uint32) string) *NameIterator {
	return &NameIterator{get: get, n: n}
}

// Next advances to the next name and reports whether there is one.
func (it *NameIterator) Next() bool {
	if it.next >= it.n {
		return false
	}
	it.cur = it.get(it.next)
	it.next++
	return true
}

// Name returns the current name.
func (it *NameIterator) Name() string {
	return it.cur
}

// Index returns the index of the current name.
func (it *NameIterator) Index() uint32 {
	if it.next == 0 {
		return 0
	}
	return it.next - 1
}

// Remaining returns how many names Next has yet to produce.
func (it *NameIterator) Remaining() int {
	return int(it.n - it.next)
}

// Collect drains the iterator into a slice.
func (it *NameIterator) Collect() []string {
	out := make([]string, 0, it.Remaining())
	for it.Next() {
		out = append(out, it.cur)
	}
	return out
}
