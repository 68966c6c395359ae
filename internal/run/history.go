package run

// DefaultHistoryCap is the default bound on retained closed-run records.
const DefaultHistoryCap = 5

// History is a bounded, most-recent-first list of closed run records. The
// presentation layer owns one History; the interpreter only produces records.
type History struct {
	cap     int
	records []Record
}

// NewHistory creates a history bounded to the given capacity. Capacities
// below 1 fall back to DefaultHistoryCap.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCap
	}
	return &History{cap: capacity}
}

// Push prepends a record, evicting the oldest entry when over capacity.
func (h *History) Push(rec Record) {
	h.records = append([]Record{rec}, h.records...)
	if len(h.records) > h.cap {
		h.records = h.records[:h.cap]
	}
}

// Records returns the retained records, most recent first.
func (h *History) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of retained records.
func (h *History) Len() int {
	return len(h.records)
}
