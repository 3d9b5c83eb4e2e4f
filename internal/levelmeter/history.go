package levelmeter

// levelHistory is a bounded buffer of measurements, stored oldest first.
// It is not safe for concurrent use on its own; the processor serializes
// access together with configuration changes under one mutex.
type levelHistory struct {
	entries []Measurement
}

// append inserts a measurement at the newest end and evicts the oldest
// entries until the length fits capacity. A capacity of zero retains
// nothing.
func (h *levelHistory) append(m Measurement, capacity int) {
	if capacity <= 0 {
		h.entries = h.entries[:0]
		return
	}
	h.entries = append(h.entries, m)
	h.trim(capacity)
}

// trim evicts from the oldest end until the length fits capacity.
func (h *levelHistory) trim(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if excess := len(h.entries) - capacity; excess > 0 {
		h.entries = append(h.entries[:0], h.entries[excess:]...)
	}
}

// query returns up to maxCount of the most recent measurements, newest
// first. maxCount of zero returns all entries. The result is a copy.
func (h *levelHistory) query(maxCount int) []Measurement {
	count := len(h.entries)
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}

	result := make([]Measurement, count)
	for i := 0; i < count; i++ {
		result[i] = h.entries[len(h.entries)-1-i]
	}
	return result
}

// clear empties the buffer, keeping its capacity.
func (h *levelHistory) clear() {
	h.entries = h.entries[:0]
}

// len reports the number of retained measurements.
func (h *levelHistory) len() int {
	return len(h.entries)
}
