package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	runDurations   int
	runOutcomes    map[RunOutcomeLabel]int
	entries        map[EntryState]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		runOutcomes:    map[RunOutcomeLabel]int{},
		entries:        map[EntryState]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveRunDuration(_ time.Duration) { t.runDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncRunOutcome(outcome RunOutcomeLabel) { t.runOutcomes[outcome]++ }
func (t *testRecorder) AddEntries(state EntryState, n int)    { t.entries[state] += n }

func TestRecorderImplementations(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)

	r := newTestRecorder()
	var rec Recorder = r
	rec.ObserveStageDuration("render", time.Millisecond)
	rec.IncStageResult("render", ResultSuccess)
	rec.AddEntries(EntryDocumented, 2)
	rec.IncRunOutcome(RunSuccess)

	assert.Equal(t, 1, r.stageDurations["render"])
	assert.Equal(t, 1, r.stageResults["render"][ResultSuccess])
	assert.Equal(t, 2, r.entries[EntryDocumented])
	assert.Equal(t, 1, r.runOutcomes[RunSuccess])
}
