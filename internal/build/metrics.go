package build

import (
	"sync"
	"time"
)

// BuildMetrics accumulates page and target totals across runs.
type BuildMetrics struct {
	Targets        int64
	FailedTargets  int64
	Pages          int64
	FailedPages    int64
	Bytes          uint64
	TotalDuration  time.Duration
	AverageRunTime time.Duration
	mutex          sync.RWMutex
}

// NewBuildMetrics creates a new build metrics tracker
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{}
}

// RecordRun adds one target run to the totals. elapsed is the wall time of
// the whole run, including runs that failed before any page was built.
func (bm *BuildMetrics) RecordRun(result *Result, elapsed time.Duration, err error) {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	bm.Targets++
	if err != nil {
		bm.FailedTargets++
	}
	bm.TotalDuration += elapsed
	bm.AverageRunTime = bm.TotalDuration / time.Duration(bm.Targets)

	if result == nil {
		return
	}

	bm.Bytes += result.Bytes
	for _, page := range result.Pages {
		if page.Err != nil {
			bm.FailedPages++
		} else {
			bm.Pages++
		}
	}
}

// GetSnapshot returns a snapshot of current metrics
func (bm *BuildMetrics) GetSnapshot() BuildMetrics {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()
	// Return a copy without the mutex to avoid lock copying issues
	return BuildMetrics{
		Targets:        bm.Targets,
		FailedTargets:  bm.FailedTargets,
		Pages:          bm.Pages,
		FailedPages:    bm.FailedPages,
		Bytes:          bm.Bytes,
		TotalDuration:  bm.TotalDuration,
		AverageRunTime: bm.AverageRunTime,
	}
}
