package capture

// DefaultSeenCapacity is the number of addresses remembered for deduplication.
const DefaultSeenCapacity = 100

// SeenSet is a fixed-capacity ring of recently logged addresses. Once full,
// each insert overwrites the oldest entry, so an address may be reported as
// new again after capacity further distinct inserts.
//
// A SeenSet is owned by a single capture goroutine and is not synchronized.
type SeenSet struct {
	entries []NetworkAddress
	next    int
	full    bool
}

// NewSeenSet returns an empty set. A non-positive capacity selects
// DefaultSeenCapacity.
func NewSeenSet(capacity int) *SeenSet {
	if capacity <= 0 {
		capacity = DefaultSeenCapacity
	}
	return &SeenSet{entries: make([]NetworkAddress, capacity)}
}

// Contains reports whether addr is currently held in the ring.
func (s *SeenSet) Contains(addr NetworkAddress) bool {
	for i := 0; i < s.Len(); i++ {
		if s.entries[i] == addr {
			return true
		}
	}
	return false
}

// Insert stores addr at the write position, overwriting the oldest entry when
// the ring is full.
func (s *SeenSet) Insert(addr NetworkAddress) {
	s.entries[s.next] = addr
	s.next++
	if s.next == len(s.entries) {
		s.next = 0
		s.full = true
	}
}

// Len returns the number of occupied slots.
func (s *SeenSet) Len() int {
	if s.full {
		return len(s.entries)
	}
	return s.next
}

// Cap returns the ring capacity.
func (s *SeenSet) Cap() int {
	return len(s.entries)
}
