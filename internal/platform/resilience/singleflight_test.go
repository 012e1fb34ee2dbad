package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32
	var duplicates atomic.Int32

	const callers = 24
	gate := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-gate
			v, err, shared := g.Do("evaluate:race-1", func() (any, error) {
				executions.Add(1)
				time.Sleep(15 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("do: %v", err)
				return
			}
			if got, _ := v.(int); got != 42 {
				t.Errorf("unexpected value: %v", v)
			}
			if shared {
				duplicates.Add(1)
			}
		}()
	}

	close(gate)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("function executed %d times, want 1", got)
	}
	if got := duplicates.Load(); got != callers-1 {
		t.Fatalf("duplicate callers: got=%d want=%d", got, callers-1)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	var wg sync.WaitGroup
	for _, key := range []string{"evaluate:race-1", "evaluate:race-2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err, _ := g.Do(key, func() (any, error) {
				executions.Add(1)
				return nil, nil
			}); err != nil {
				t.Errorf("do %s: %v", key, err)
			}
		}()
	}
	wg.Wait()

	if got := executions.Load(); got != 2 {
		t.Fatalf("function executed %d times, want 2", got)
	}
}
