package session

import (
	"testing"
	"time"
)

func TestSchedulerFires(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := NewScheduler(clock)

	fired := 0
	s.Arm(5*time.Minute, func() { fired++ })

	clock.Advance(4 * time.Minute)
	if fired != 0 {
		t.Fatal("timer fired too early")
	}

	clock.Advance(time.Minute)
	if fired != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired)
	}
	if s.Armed() {
		t.Error("fired timer should leave the scheduler disarmed")
	}
}

func TestSchedulerRearmCancelsPrevious(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := NewScheduler(clock)

	var fired []string
	s.Arm(time.Minute, func() { fired = append(fired, "first") })
	s.Arm(2*time.Minute, func() { fired = append(fired, "second") })

	clock.Advance(10 * time.Minute)

	// 单定时器不变式：重新武装后旧定时器绝不触发
	if len(fired) != 1 || fired[0] != "second" {
		t.Errorf("expected only the second timer to fire, got %v", fired)
	}
}

func TestSchedulerDisarm(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := NewScheduler(clock)

	fired := false
	s.Arm(time.Minute, func() { fired = true })
	s.Disarm()

	clock.Advance(10 * time.Minute)
	if fired {
		t.Error("disarmed timer must not fire")
	}
	if s.Armed() {
		t.Error("scheduler should report disarmed")
	}

	// 重复撤销应当幂等
	s.Disarm()
}
