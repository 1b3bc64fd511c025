package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sqlpulse/sqlpulse/pkg/models"
)

func TestCollectorEmpty(t *testing.T) {
	c := NewCollector()

	stats := c.Snapshot()
	assert.Zero(t, stats.Iterations)
	assert.Zero(t, stats.Errors)
	assert.Zero(t, stats.Mean)
}

func TestCollectorAggregates(t *testing.T) {
	c := NewCollector()

	for i := 1; i <= 100; i++ {
		c.Record(models.IterationSample{Duration: time.Duration(i) * time.Millisecond})
	}

	c.Record(models.IterationSample{Duration: 5 * time.Millisecond, Err: "timeout"})

	stats := c.Snapshot()
	assert.Equal(t, 101, stats.Iterations)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, time.Millisecond, stats.Min)
	assert.Equal(t, 100*time.Millisecond, stats.Max)
	assert.Equal(t, 50*time.Millisecond, stats.P50)
	assert.Equal(t, 95*time.Millisecond, stats.P95)
	assert.Equal(t, 99*time.Millisecond, stats.P99)
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := 0; i < 100; i++ {
				c.Record(models.IterationSample{Duration: time.Millisecond})
			}
		}()
	}

	wg.Wait()

	stats := c.Snapshot()
	assert.Equal(t, 800, stats.Iterations)
	assert.Equal(t, time.Millisecond, stats.Mean)
}
