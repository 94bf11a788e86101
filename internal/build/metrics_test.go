package build

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMetrics(t *testing.T) {
	bm := NewBuildMetrics()

	bm.RecordRun(&Result{
		Duration: 2 * time.Second,
		Bytes:    300,
		Pages:    []PageResult{{Bytes: 100}, {Bytes: 200}, {Err: errors.New("boom")}},
	}, 2*time.Second, errors.New("1 pages failed"))
	bm.RecordRun(&Result{Duration: time.Second, Bytes: 50, Pages: []PageResult{{Bytes: 50}}}, time.Second, nil)

	snap := bm.GetSnapshot()
	assert.Equal(t, int64(2), snap.Targets)
	assert.Equal(t, int64(1), snap.FailedTargets)
	assert.Equal(t, int64(3), snap.Pages)
	assert.Equal(t, int64(1), snap.FailedPages)
	assert.Equal(t, uint64(350), snap.Bytes)
	assert.Equal(t, 3*time.Second, snap.TotalDuration)
	assert.Equal(t, 1500*time.Millisecond, snap.AverageRunTime)
}

func TestBuildMetricsFailedValidation(t *testing.T) {
	bm := NewBuildMetrics()
	bm.RecordRun(&Result{Duration: 3 * time.Second}, 3*time.Second, nil)

	// A run that fails before producing a result still counts toward the average.
	bm.RecordRun(nil, time.Second, errors.New("missing src property"))

	snap := bm.GetSnapshot()
	assert.Equal(t, int64(2), snap.Targets)
	assert.Equal(t, int64(1), snap.FailedTargets)
	assert.Equal(t, int64(0), snap.Pages)
	assert.Equal(t, 4*time.Second, snap.TotalDuration)
	assert.Equal(t, 2*time.Second, snap.AverageRunTime)
}
