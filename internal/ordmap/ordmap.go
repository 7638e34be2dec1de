// Package ordmap provides an order-preserving map used by the reshape
// replay in the alias analysis.
//
// Unlike Go's built-in map, iteration follows insertion order, and
// Erase reports the position of the element that followed the erased
// one so a caller can splice replacements in place.
package ordmap

// Node is one entry of a Map. A nil Node denotes the end position.
type Node[K comparable, V any] struct {
	key   K
	value V
	prev  *Node[K, V]
	next  *Node[K, V]
}

// Key returns the entry's key.
func (n *Node[K, V]) Key() K { return n.key }

// Value returns the entry's value.
func (n *Node[K, V]) Value() V { return n.value }

// Next returns the following entry, or nil at the end.
func (n *Node[K, V]) Next() *Node[K, V] { return n.next }

// Map is a doubly-linked list of key/value pairs with a hash index for
// O(1) lookup by key. Keys are unique.
type Map[K comparable, V any] struct {
	head  *Node[K, V]
	tail  *Node[K, V]
	index map[K]*Node[K, V]
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]*Node[K, V])}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.index) }

// Front returns the first entry, or nil if the map is empty.
func (m *Map[K, V]) Front() *Node[K, V] { return m.head }

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.index[key]
	return ok
}

// PushBack appends a new entry at the end. It panics if the key is
// already present; callers are expected to keep keys unique.
func (m *Map[K, V]) PushBack(key K, value V) {
	m.InsertBefore(nil, key, value)
}

// InsertBefore inserts a new entry immediately before pos. A nil pos
// appends at the end. It panics if the key is already present.
func (m *Map[K, V]) InsertBefore(pos *Node[K, V], key K, value V) {
	if _, ok := m.index[key]; ok {
		panic("ordmap: duplicate key")
	}
	n := &Node[K, V]{key: key, value: value}
	if pos == nil {
		n.prev = m.tail
		if m.tail != nil {
			m.tail.next = n
		} else {
			m.head = n
		}
		m.tail = n
	} else {
		n.prev = pos.prev
		n.next = pos
		if pos.prev != nil {
			pos.prev.next = n
		} else {
			m.head = n
		}
		pos.prev = n
	}
	m.index[key] = n
}

// Erase removes the entry with the given key. It returns the removed
// value, the position of the entry that followed it (nil if it was
// last), and whether the key was present.
func (m *Map[K, V]) Erase(key K) (V, *Node[K, V], bool) {
	n, ok := m.index[key]
	if !ok {
		var zero V
		return zero, nil, false
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	delete(m.index, key)
	return n.value, n.next, true
}

// Keys returns the keys in iteration order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.index))
	for n := m.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}
