package frame

import "time"

// Context carries frame timing to a task step.
type Context struct {
	d      *Driver
	taskID TaskID

	// Frame is the zero-based index of the frame being ticked.
	Frame uint64
	// Now is the clock reading for this frame.
	Now time.Duration
	// Elapsed is the time since the first frame.
	Elapsed time.Duration
	// Delta is the time since the previous frame.
	Delta time.Duration
	// Since is the time since this task last ran (zero on its first run).
	Since time.Duration
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// TaskName returns the name the current task was registered with.
func (c *Context) TaskName() string {
	if c.d == nil || c.taskID >= c.d.taskCount {
		return ""
	}
	return c.d.tasks[c.taskID].name
}

// Seconds returns Elapsed in seconds, the time base of the animation formulas.
func (c *Context) Seconds() float32 {
	return float32(c.Elapsed.Seconds())
}
