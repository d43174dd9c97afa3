package core

import (
	"testing"
	"time"
)

func TestFixedStepPacesSteps(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(4)
	fs.now = func() time.Time { return clock }

	if !fs.ShouldStep() {
		t.Fatal("first step should fire immediately")
	}
	if fs.ShouldStep() {
		t.Fatal("no time passed, no step expected")
	}
	clock = clock.Add(200 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("200ms is below the 250ms step")
	}
	clock = clock.Add(60 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("expected a step after 260ms")
	}
}

func TestFixedStepCapsBacklog(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }
	fs.ShouldStep()

	clock = clock.Add(5 * time.Second)
	steps := 0
	for fs.ShouldStep() {
		steps++
	}
	if steps != 2 {
		t.Fatalf("expected the backlog capped at two steps, got %d", steps)
	}
}

func TestFixedStepRate(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.Rate() != 1 {
		t.Fatalf("non-positive rate should clamp to 1, got %d", fs.Rate())
	}
	fs.SetRate(8)
	if fs.Rate() != 8 {
		t.Fatalf("rate = %d", fs.Rate())
	}
	fs.Reset()
	if !fs.ShouldStep() {
		t.Fatal("reset should make the next step due")
	}
}
