package frame

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Duration }

func (c *fakeClock) Now() time.Duration { return c.t }

func TestCadence(t *testing.T) {
	clk := &fakeClock{}
	d := New(clk)

	var runs [4][]uint64
	for i, every := range []uint64{1, 2, 3, 10} {
		i := i
		if _, ok := d.AddTask("t", every, TaskFunc(func(c *Context) {
			runs[i] = append(runs[i], c.Frame)
		})); !ok {
			t.Fatal("AddTask failed")
		}
	}

	for i := 0; i < 21; i++ {
		d.Tick()
		clk.t += 16 * time.Millisecond
	}

	wantCounts := []int{21, 11, 7, 3}
	every := []uint64{1, 2, 3, 10}
	for i := range runs {
		if len(runs[i]) != wantCounts[i] {
			t.Fatalf("task every %d ran %d times, want %d", every[i], len(runs[i]), wantCounts[i])
		}
		for _, f := range runs[i] {
			if f%every[i] != 0 {
				t.Fatalf("task every %d ran on frame %d", every[i], f)
			}
		}
	}
	if d.Frame() != 21 {
		t.Fatalf("frame = %d", d.Frame())
	}
}

func TestContextTiming(t *testing.T) {
	clk := &fakeClock{t: 5 * time.Second}
	d := New(clk)

	var got []Context
	d.AddTask("slow", 2, TaskFunc(func(c *Context) { got = append(got, *c) }))

	for i := 0; i < 3; i++ {
		d.Tick()
		clk.t += 100 * time.Millisecond
	}

	if len(got) != 2 {
		t.Fatalf("ran %d times", len(got))
	}
	if got[0].Elapsed != 0 || got[0].Since != 0 {
		t.Fatalf("first run elapsed=%v since=%v", got[0].Elapsed, got[0].Since)
	}
	if got[1].Elapsed != 200*time.Millisecond {
		t.Fatalf("second run elapsed = %v", got[1].Elapsed)
	}
	if got[1].Since != 200*time.Millisecond {
		t.Fatalf("second run since = %v", got[1].Since)
	}
	if got[1].Delta != 100*time.Millisecond {
		t.Fatalf("second run delta = %v", got[1].Delta)
	}
	if got[1].Seconds() < 0.199 || got[1].Seconds() > 0.201 {
		t.Fatalf("seconds = %v", got[1].Seconds())
	}
}

func TestZeroCadenceRunsEveryFrame(t *testing.T) {
	d := New(&fakeClock{})
	n := 0
	d.AddTask("zero", 0, TaskFunc(func(*Context) { n++ }))
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	if n != 5 {
		t.Fatalf("ran %d times, want 5", n)
	}
}

func TestTaskTableFull(t *testing.T) {
	d := New(&fakeClock{})
	for i := 0; i < maxTasks; i++ {
		if _, ok := d.AddTask("t", 1, TaskFunc(func(*Context) {})); !ok {
			t.Fatalf("AddTask %d failed", i)
		}
	}
	if _, ok := d.AddTask("overflow", 1, TaskFunc(func(*Context) {})); ok {
		t.Fatal("expected AddTask to fail when full")
	}
}
