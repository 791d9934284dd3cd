// Package frame runs per-frame tasks at independent cadences.
package frame

import "time"

const maxTasks = 32

type TaskID uint8

// Task is a cooperative unit of per-frame work.
type Task interface {
	Step(*Context)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(*Context)

func (f TaskFunc) Step(c *Context) { f(c) }

// Clock is a monotonic frame clock.
type Clock interface {
	Now() time.Duration
}

type taskState struct {
	task  Task
	name  string
	every uint64
	last  time.Duration
	ran   bool
}

// Driver ticks registered tasks once per display frame. A task registered with
// cadence N runs on frames 0, N, 2N, ... in registration order.
type Driver struct {
	clock Clock

	tasks     [maxTasks]taskState
	taskCount TaskID

	frame uint64
	start time.Duration
	last  time.Duration
	began bool
}

// New creates a driver reading time from clock.
func New(clock Clock) *Driver {
	return &Driver{clock: clock}
}

// AddTask registers a task that runs every N frames and returns its ID. A zero
// cadence is treated as 1. The second return is false when the table is full.
func (d *Driver) AddTask(name string, every uint64, t Task) (TaskID, bool) {
	if d.taskCount >= maxTasks || t == nil {
		return 0, false
	}
	if every == 0 {
		every = 1
	}
	id := d.taskCount
	d.taskCount++
	d.tasks[id] = taskState{task: t, name: name, every: every}
	return id, true
}

// Frame returns the number of completed ticks.
func (d *Driver) Frame() uint64 { return d.frame }

// Tick runs one display frame.
func (d *Driver) Tick() {
	now := d.clock.Now()
	if !d.began {
		d.start = now
		d.last = now
		d.began = true
	}
	ctx := &Context{
		d:       d,
		Frame:   d.frame,
		Now:     now,
		Elapsed: now - d.start,
		Delta:   now - d.last,
	}
	for id := TaskID(0); id < d.taskCount; id++ {
		st := &d.tasks[id]
		if d.frame%st.every != 0 {
			continue
		}
		ctx.taskID = id
		ctx.Since = now - st.last
		if !st.ran {
			ctx.Since = 0
		}
		st.task.Step(ctx)
		st.last = now
		st.ran = true
	}
	d.last = now
	d.frame++
}
