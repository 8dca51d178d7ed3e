package mocks

import (
	"sync"

	"github.com/mcoot/hoyorecord/internal/dependencies/random"
)

// MockRandom returns queued values in order. When a queue runs dry it
// returns the zero value, which keeps unrelated tests deterministic.
type MockRandom struct {
	mu sync.Mutex

	intnResults   []int
	stringResults []string
	sampleResults []string

	// Calls counts every draw, across all methods
	Calls int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if len(r.intnResults) == 0 {
		return 0
	}
	result := r.intnResults[0]
	r.intnResults = r.intnResults[1:]
	return result
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return pop(&r.stringResults)
}

// Sample returns the next queued result, or empty string if none remaining
func (r *MockRandom) Sample(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return pop(&r.sampleResults)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults = append(r.intnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stringResults = append(r.stringResults, values...)
}

// QueueSample adds values to the Sample result queue
func (r *MockRandom) QueueSample(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampleResults = append(r.sampleResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults = nil
	r.stringResults = nil
	r.sampleResults = nil
	r.Calls = 0
}

func pop(queue *[]string) string {
	if len(*queue) == 0 {
		return ""
	}
	v := (*queue)[0]
	*queue = (*queue)[1:]
	return v
}
