package run

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func record(t *testing.T, name string) Record {
	t.Helper()
	wf := testWorkflow(t)
	return Record{Workflow: wf, Notes: []string{name}, Status: StatusCompleted, CompletedAt: time.Now()}
}

func TestHistory_Push(t *testing.T) {
	h := NewHistory(5)

	h.Push(record(t, "first"))
	h.Push(record(t, "second"))

	records := h.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, []string{"second"}, records[0].Notes, "most recent first")
	assert.Equal(t, []string{"first"}, records[1].Notes)
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(5)
	for i := 0; i < 8; i++ {
		h.Push(record(t, fmt.Sprintf("run-%d", i)))
	}

	assert.Equal(t, 5, h.Len())
	records := h.Records()
	assert.Equal(t, []string{"run-7"}, records[0].Notes)
	assert.Equal(t, []string{"run-3"}, records[4].Notes)
}

func TestHistory_DefaultCap(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 10; i++ {
		h.Push(record(t, "r"))
	}
	assert.Equal(t, DefaultHistoryCap, h.Len())
}
