package reindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 100, 25)
	tracker.Start()

	tracker.Update(10)
	assert.Empty(t, out.String(), "below interval, nothing reported yet")

	tracker.Update(30)
	assert.Contains(t, out.String(), "30/100")

	tracker.Finish()
	assert.Contains(t, out.String(), "100/100")
	assert.Contains(t, out.String(), "100.0%")
}

func TestProgressTracker_Increment(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 5)
	tracker.Start()

	tracker.Increment(3)
	tracker.Increment(3)
	assert.Contains(t, out.String(), "6/10")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 1)
	tracker.Start()

	tracker.Update(50)
	assert.Contains(t, out.String(), "10/10")
}

func TestProgressTracker_IgnoresUpdatesBeforeStart(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 10, 1)

	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, out.String())
	assert.Zero(t, tracker.Elapsed())
}
