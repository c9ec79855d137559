package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// occupy takes every slot of b until the returned func is called.
func occupy(t *testing.T, b *Bulkhead, n int) func() {
	t.Helper()
	release := make(chan struct{})
	var started sync.WaitGroup
	for i := 0; i < n; i++ {
		started.Add(1)
		go func() {
			_ = b.Execute(context.Background(), func() error {
				started.Done()
				<-release
				return nil
			})
		}()
	}
	started.Wait()
	return func() { close(release) }
}

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "crypto", MaxConcurrent: 3})

	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if b.InUse() != 0 || b.Available() != 3 {
		t.Errorf("expected all slots free, in use %d available %d", b.InUse(), b.Available())
	}
}

func TestBulkhead_ReturnsFnError(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})
	want := errors.New("bad padding")
	if err := b.Execute(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("expected fn error, got %v", err)
	}
	if b.Available() != 10 {
		t.Errorf("expected default of 10 slots, got %d", b.Available())
	}
}

func TestBulkhead_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		maxWait time.Duration
		ctx     func() (context.Context, context.CancelFunc)
		want    error
	}{
		{"full", 0, func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }, ErrBulkheadFull},
		{"wait timeout", 10 * time.Millisecond, func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }, ErrBulkheadTimeout},
		{"context deadline", time.Second, func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 10*time.Millisecond)
		}, context.DeadlineExceeded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rejected []error
			b := NewBulkhead(BulkheadConfig{
				Name:          "crypto",
				MaxConcurrent: 1,
				MaxWait:       tc.maxWait,
				OnReject:      func(name string, err error) { rejected = append(rejected, err) },
			})
			done := occupy(t, b, 1)
			defer done()

			ctx, cancel := tc.ctx()
			defer cancel()

			ran := false
			err := b.Execute(ctx, func() error { ran = true; return nil })
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if ran {
				t.Error("fn must not run when rejected")
			}
			if len(rejected) != 1 || !errors.Is(rejected[0], tc.want) {
				t.Errorf("expected one OnReject call with %v, got %v", tc.want, rejected)
			}
		})
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "crypto", MaxConcurrent: 1, MaxWait: time.Second})
	done := occupy(t, b, 1)
	time.AfterFunc(20*time.Millisecond, done)

	start := time.Now()
	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("expected to wait for the slot, waited %v", elapsed)
	}
}
