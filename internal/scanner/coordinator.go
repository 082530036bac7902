package scanner

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State is the coordinator's scan state
type State int32

const (
	// StateIdle accepts the next submitted frame
	StateIdle State = iota
	// StateDecoding has one decode in flight; new frames are dropped
	StateDecoding
	// StateSuppressed follows a successful decode until the cooldown expires
	// or the scan surface is re-entered
	StateSuppressed
)

// DecodeFunc decodes one frame, returning the code or ErrNoCode
type DecodeFunc func(Frame) (string, error)

// ResultFunc receives the outcome of one started decode: the code on a hit,
// ok=false on a miss. Invoked at most once per started decode, off the
// submitting goroutine.
type ResultFunc func(code string, ok bool)

// Coordinator converts an unbounded frame stream into at most one decode in
// flight with latest-frame-wins semantics: a frame arriving while a decode
// runs is dropped, never queued, so the pipeline always reflects the most
// recent camera view.
type Coordinator struct {
	decode   DecodeFunc
	onResult ResultFunc
	cooldown time.Duration

	mu     sync.Mutex
	state  State
	timer  *time.Timer
	closed bool
}

// NewCoordinator creates a coordinator around a decode function. After a
// hit the coordinator stays suppressed for the cooldown window so the same
// physical code does not re-trigger across consecutive frames.
func NewCoordinator(decode DecodeFunc, cooldown time.Duration, onResult ResultFunc) *Coordinator {
	return &Coordinator{
		decode:   decode,
		onResult: onResult,
		cooldown: cooldown,
	}
}

// Submit offers a frame to the decode slot. Never blocks: if a decode is
// already running, or the coordinator is suppressed or closed, the frame is
// dropped and Submit reports false.
func (c *Coordinator) Submit(frame Frame) bool {
	c.mu.Lock()
	if c.closed || c.state != StateIdle {
		c.mu.Unlock()
		return false
	}
	c.state = StateDecoding
	c.mu.Unlock()

	go c.runDecode(frame)
	return true
}

// Resume clears a suppression early, e.g. when the scan surface is
// re-entered. No-op in any other state.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state != StateSuppressed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = StateIdle
}

// Close stops accepting frames. An in-flight decode is not interrupted; its
// result is discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State returns the current scan state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) runDecode(frame Frame) {
	code, err := c.safeDecode(frame)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.onResult("", false)
		return
	}
	c.state = StateSuppressed
	c.timer = time.AfterFunc(c.cooldown, c.cooldownExpired)
	c.mu.Unlock()
	c.onResult(code, true)
}

// safeDecode treats decoder panics the same as a miss
func (c *Coordinator) safeDecode(frame Frame) (code string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Msg("Decoder panicked on frame")
			code, err = "", ErrNoCode
		}
	}()
	return c.decode(frame)
}

func (c *Coordinator) cooldownExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state != StateSuppressed {
		return
	}
	c.timer = nil
	c.state = StateIdle
}
