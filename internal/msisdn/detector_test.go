package msisdn_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/msisdn"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/stretchr/testify/require"
)

type recordingValidator struct {
	mu    sync.Mutex
	calls []string
	// block, when set, holds validations of this msisdn until released
	block   string
	release chan struct{}
}

func (v *recordingValidator) ValidatePhoneNumber(ctx context.Context, m string) (*billstack.PhoneValidation, error) {
	v.mu.Lock()
	v.calls = append(v.calls, m)
	v.mu.Unlock()
	if v.block != "" && m == v.block {
		<-v.release
	}
	return &billstack.PhoneValidation{Normalized: m, Operator: billstack.PhoneOperator{ID: "1", Name: "MTN"}}, nil
}

func (v *recordingValidator) Calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.calls...)
}

func TestDetectorDebounces(t *testing.T) {
	v := &recordingValidator{}
	d := msisdn.NewDetector(v, 20*time.Millisecond)

	var results atomic.Int32
	onResult := func(msisdn.Result) { results.Add(1) }

	d.Schedule(msisdn.PrimaryKey, "0803123456", onResult)
	d.Schedule(msisdn.PrimaryKey, "08031234567", onResult)

	require.Eventually(t, func() bool { return results.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"2348031234567"}, v.Calls())
}

func TestDetectorRowsAreIndependent(t *testing.T) {
	v := &recordingValidator{}
	d := msisdn.NewDetector(v, 10*time.Millisecond)

	var mu sync.Mutex
	keys := map[int]bool{}
	onResult := func(r msisdn.Result) {
		mu.Lock()
		keys[r.Key] = true
		mu.Unlock()
	}

	d.Schedule(0, "08031234567", onResult)
	d.Schedule(1, "08051234567", onResult)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return keys[0] && keys[1]
	}, time.Second, 5*time.Millisecond)
}

func TestDetectorDiscardsSupersededInFlight(t *testing.T) {
	v := &recordingValidator{block: "2348031234567", release: make(chan struct{})}
	d := msisdn.NewDetector(v, time.Millisecond)

	got := make(chan msisdn.Result, 2)
	onResult := func(r msisdn.Result) { got <- r }

	d.Schedule(msisdn.PrimaryKey, "08031234567", onResult)
	require.Eventually(t, func() bool { return len(v.Calls()) == 1 }, time.Second, time.Millisecond)

	d.Schedule(msisdn.PrimaryKey, "08051234567", onResult)
	r := <-got
	require.Equal(t, "08051234567", r.Phone)

	close(v.release)
	select {
	case late := <-got:
		t.Fatalf("superseded validation delivered: %+v", late)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDetectorCancelFrom(t *testing.T) {
	v := &recordingValidator{}
	d := msisdn.NewDetector(v, 30*time.Millisecond)

	var results atomic.Int32
	onResult := func(msisdn.Result) { results.Add(1) }

	d.Schedule(0, "08031234567", onResult)
	d.Schedule(1, "08051234567", onResult)
	d.Schedule(2, "08091234567", onResult)
	d.CancelFrom(1)

	require.Eventually(t, func() bool { return results.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), results.Load())
	require.Equal(t, []string{"2348031234567"}, v.Calls())
}
