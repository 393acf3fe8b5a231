package engine

import (
	"time"

	"github.com/tatianab/bufo-clicker/internal/clock"
)

// maxCatchUpSteps bounds fixed-step catch-up after a long pause (laptop lid,
// debugger). Whatever is left is delivered as one long tick.
const maxCatchUpSteps = 240

// Ticker is anything the scheduler can drive; Session implements it.
type Ticker interface {
	OnTick(elapsed time.Duration)
}

// Scheduler turns wall-clock readings into ticks. With a fixed step it
// delivers whole steps and carries the remainder to the next call; without
// one it passes the measured delta through.
type Scheduler struct {
	clk   clock.Clock
	step  time.Duration
	last  time.Time
	carry time.Duration
	ticks uint64
}

func NewScheduler(clk clock.Clock, fixedStep time.Duration) *Scheduler {
	return &Scheduler{clk: clk, step: fixedStep, last: clk.Now()}
}

// Step reads the clock and ticks t. It returns how many ticks were delivered.
func (s *Scheduler) Step(t Ticker) int {
	now := s.clk.Now()
	delta := now.Sub(s.last)
	s.last = now
	if delta < 0 {
		delta = 0
	}

	if s.step <= 0 {
		t.OnTick(delta)
		s.ticks++
		return 1
	}

	s.carry += delta
	n := 0
	for s.carry >= s.step && n < maxCatchUpSteps {
		t.OnTick(s.step)
		s.carry -= s.step
		n++
	}
	if s.carry >= s.step {
		t.OnTick(s.carry)
		s.carry = 0
		n++
	}
	s.ticks += uint64(n)
	return n
}

// Ticks counts every tick delivered so far.
func (s *Scheduler) Ticks() uint64 { return s.ticks }
