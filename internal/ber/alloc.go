package ber

import (
	"errors"
	"sync"
)

// Allocator supplies the memory behind encode arenas and owned decode
// results. Free receives exactly the slices Alloc returned.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op.
type HeapAllocator struct{}

// Alloc returns a zeroed slice of length n.
func (HeapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errNegativeAlloc
	}
	return make([]byte, n), nil
}

// Free implements Allocator.
func (HeapAllocator) Free([]byte) {}

var errNegativeAlloc = errors.New("ber: negative allocation size")

// ErrAllocLimit is returned by TrackingAllocator when its limit is reached.
var ErrAllocLimit = errors.New("ber: allocation limit reached")

// TrackingAllocator counts live allocations and can be told to fail.
// It is safe for concurrent use so one instance can back several cursors.
type TrackingAllocator struct {
	// FailAfter makes every Alloc after the first FailAfter calls fail.
	// Zero or negative disables the limit.
	FailAfter int
	// MaxBytes caps the size of a single allocation. Zero disables the cap.
	MaxBytes int

	mu     sync.Mutex
	calls  int
	live   int
	bytes  int
	frees  int
	failed int
}

// Alloc implements Allocator.
func (a *TrackingAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errNegativeAlloc
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	if (a.FailAfter > 0 && a.calls > a.FailAfter) || (a.MaxBytes > 0 && n > a.MaxBytes) {
		a.failed++
		return nil, ErrAllocLimit
	}
	a.live++
	a.bytes += n
	return make([]byte, n), nil
}

// Free implements Allocator.
func (a *TrackingAllocator) Free(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.live--
	a.bytes -= cap(b)
	a.frees++
}

// Live returns the number of allocations not yet freed.
func (a *TrackingAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// LiveBytes returns the number of bytes not yet freed.
func (a *TrackingAllocator) LiveBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bytes
}

// Calls returns the number of Alloc calls, including failed ones.
func (a *TrackingAllocator) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// Failures returns the number of Alloc calls that failed.
func (a *TrackingAllocator) Failures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failed
}
