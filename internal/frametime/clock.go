// Package frametime measures frame deltas and frames per second.
package frametime

import "time"

// MaxDelta caps the delta a single tick reports, so a stalled frame does
// not teleport the camera.
const MaxDelta = 0.1

// Clock tracks frame timing for a render loop.
type Clock struct {
	target time.Duration
	last   time.Time

	fps         float64
	frames      int
	windowStart time.Time
}

// NewClock creates a clock aiming at fps frames per second. fps <= 0
// disables the frame cap.
func NewClock(fps int) *Clock {
	c := &Clock{}
	if fps > 0 {
		c.target = time.Second / time.Duration(fps)
	}
	return c
}

// Tick marks the start of a frame and returns the seconds since the
// previous tick, clamped to [0, MaxDelta]. The first tick returns 0.
func (c *Clock) Tick(now time.Time) float64 {
	if c.last.IsZero() {
		c.last = now
		c.windowStart = now
		return 0
	}

	dt := now.Sub(c.last).Seconds()
	c.last = now
	c.frames++
	if elapsed := now.Sub(c.windowStart); elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.windowStart = now
	}

	return min(max(dt, 0), MaxDelta)
}

// FPS returns the frame rate over the last complete one-second window.
func (c *Clock) FPS() float64 {
	return c.fps
}

// Remaining returns how long to sleep after a frame that started at the
// last tick to hold the target rate.
func (c *Clock) Remaining(now time.Time) time.Duration {
	if c.target == 0 || c.last.IsZero() {
		return 0
	}
	return max(c.target-now.Sub(c.last), 0)
}

// Target returns the frame duration the clock aims for.
func (c *Clock) Target() time.Duration {
	return c.target
}
