package countdown

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"countdown/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, preset model.Preset) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	engine := New(model.CountdownConfig{Initial: preset, GracePeriod: 2 * time.Second}, Options{
		Clock:  clock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(engine.Close)
	return engine, clock
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, event)
		default:
			return events
		}
	}
}

func values(events []Event) []int {
	result := make([]int, 0, len(events))
	for _, event := range events {
		result = append(result, event.Value)
	}
	return result
}

func TestNewUsesDefaults(t *testing.T) {
	engine := New(model.DefaultCountdownConfig(), Options{})
	defer engine.Close()

	assert.Equal(t, Snapshot{Seconds: 10}, engine.Snapshot())
	assert.Equal(t, StateIdle, engine.State())
}

func TestNewClampsInitialPreset(t *testing.T) {
	engine, _ := newTestEngine(t, model.Preset{Hours: 120, Minutes: -4, Seconds: 75})

	assert.Equal(t, Snapshot{Hours: 99, Minutes: 0, Seconds: 59}, engine.Snapshot())
}

func TestAdjustTimeStaysWithinBounds(t *testing.T) {
	engine, _ := newTestEngine(t, model.Preset{Seconds: 10})

	for i := 0; i < 150; i++ {
		engine.AdjustTime(UnitHour, Increase)
		engine.AdjustTime(UnitMinute, Increase)
		engine.AdjustTime(UnitSecond, Increase)
	}
	assert.Equal(t, Snapshot{Hours: 99, Minutes: 59, Seconds: 59}, engine.Snapshot())

	for i := 0; i < 150; i++ {
		engine.AdjustTime(UnitHour, Decrease)
		engine.AdjustTime(UnitMinute, Decrease)
		engine.AdjustTime(UnitSecond, Decrease)
	}
	assert.Equal(t, Snapshot{}, engine.Snapshot())
}

func TestAdjustTimeDoesNotCarry(t *testing.T) {
	engine, _ := newTestEngine(t, model.Preset{Minutes: 1, Seconds: 0})

	engine.AdjustTime(UnitSecond, Decrease)

	assert.Equal(t, Snapshot{Minutes: 1, Seconds: 0}, engine.Snapshot())
}

func TestAdjustHourRoundTrip(t *testing.T) {
	for hours := 0; hours < model.MaxHours; hours++ {
		engine, _ := newTestEngine(t, model.Preset{Hours: hours})
		engine.AdjustTime(UnitHour, Increase)
		engine.AdjustTime(UnitHour, Decrease)
		require.Equal(t, hours, engine.Snapshot().Hours, "round trip from %d", hours)
	}

	engine, _ := newTestEngine(t, model.Preset{Hours: model.MaxHours})
	engine.AdjustTime(UnitHour, Increase)
	assert.Equal(t, model.MaxHours, engine.Snapshot().Hours, "upper bound is preserved")

	engine.Preset(model.Preset{})
	engine.AdjustTime(UnitHour, Decrease)
	assert.Equal(t, 0, engine.Snapshot().Hours, "lower bound is preserved")
}

func TestAdjustTimeEmitsOnlyChanges(t *testing.T) {
	engine, _ := newTestEngine(t, model.Preset{Seconds: 58})
	events := engine.Subscribe(16)

	engine.AdjustTime(UnitSecond, Increase)
	engine.AdjustTime(UnitSecond, Increase)
	engine.AdjustTime(UnitSecond, Increase)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, FieldSeconds, got[0].Field)
	assert.Equal(t, 59, got[0].Value)
	assert.Equal(t, 59, got[0].Snapshot.Seconds)
}

func TestCountdownTicksToFinish(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	seconds := engine.Subscribe(32, FieldSeconds)
	finished := engine.Subscribe(4, FieldFinished)

	engine.Start()
	require.Equal(t, StateRunning, engine.State())

	for tick := 1; tick <= 9; tick++ {
		clock.Advance(time.Second)
		require.False(t, engine.Snapshot().Finished, "finished early at tick %d", tick)
	}
	clock.Advance(time.Second)

	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, values(drain(seconds)))
	assert.Equal(t, Snapshot{Running: true, Finished: true}, engine.Snapshot())
	assert.Equal(t, StateFinished, engine.State())

	got := drain(finished)
	require.Len(t, got, 1)
	assert.True(t, got[0].Flag)
}

func TestGracePeriodHoldsRunningForTwoSeconds(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 3})
	engine.Start()
	clock.Advance(3 * time.Second)
	require.True(t, engine.Snapshot().Finished)

	events := engine.Subscribe(8)
	clock.Advance(2*time.Second - time.Millisecond)
	assert.True(t, engine.Snapshot().Running)
	assert.True(t, engine.Snapshot().Finished)
	assert.Empty(t, drain(events))

	clock.Advance(time.Millisecond)
	got := drain(events)
	require.Len(t, got, 2)
	assert.Equal(t, FieldRunning, got[0].Field)
	assert.False(t, got[0].Flag)
	assert.Equal(t, FieldFinished, got[1].Field)
	assert.False(t, got[1].Flag)
	assert.Equal(t, StateIdle, engine.State())
	assert.Equal(t, 0, clock.Pending())
}

func TestMinutesAndHoursRollDown(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Hours: 1})
	events := engine.Subscribe(16)

	engine.Start()
	clock.Advance(time.Second)

	assert.Equal(t, Snapshot{Hours: 0, Minutes: 59, Seconds: 59, Running: true}, engine.Snapshot())
	got := drain(events)
	require.Len(t, got, 4)
	assert.Equal(t, FieldRunning, got[0].Field)
	assert.Equal(t, FieldSeconds, got[1].Field)
	assert.Equal(t, FieldMinutes, got[2].Field)
	assert.Equal(t, FieldHours, got[3].Field)
}

func TestTickEmitsOnlyChangedFields(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Minutes: 2, Seconds: 5})
	minutes := engine.Subscribe(16, FieldMinutes)

	engine.Start()
	clock.Advance(5 * time.Second)
	assert.Empty(t, drain(minutes))

	clock.Advance(time.Second)
	assert.Equal(t, []int{1}, values(drain(minutes)))
}

func TestCancelMidCountdown(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	engine.Start()
	clock.Advance(4 * time.Second)
	require.Equal(t, 6, engine.Snapshot().Seconds)

	events := engine.Subscribe(16)
	engine.Cancel()

	assert.Equal(t, Snapshot{Seconds: 6}, engine.Snapshot())
	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, FieldRunning, got[0].Field)
	assert.False(t, got[0].Flag)

	clock.Advance(30 * time.Second)
	assert.Empty(t, drain(events))
	assert.Equal(t, 0, clock.Pending())
}

func TestCancelDuringGracePeriod(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 1})
	engine.Start()
	clock.Advance(time.Second)
	require.Equal(t, StateFinished, engine.State())

	events := engine.Subscribe(16)
	engine.Cancel()
	assert.Equal(t, StateIdle, engine.State())
	assert.Len(t, drain(events), 2)

	clock.Advance(5 * time.Second)
	assert.Empty(t, drain(events))
}

func TestStartDuringGracePeriodIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 1})
	engine.Start()
	clock.Advance(time.Second)
	require.Equal(t, StateFinished, engine.State())

	events := engine.Subscribe(16)
	engine.Start()
	assert.Empty(t, drain(events))
	assert.Equal(t, StateFinished, engine.State())

	clock.Advance(2 * time.Second)
	assert.Equal(t, StateIdle, engine.State())
	assert.Equal(t, 0, clock.Pending())
}

func TestCancelWhileIdleIsNoop(t *testing.T) {
	engine, _ := newTestEngine(t, model.Preset{Seconds: 10})
	events := engine.Subscribe(4)

	engine.Cancel()

	assert.Empty(t, drain(events))
	assert.Equal(t, StateIdle, engine.State())
}

func TestStartWithZeroTotalIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{})
	events := engine.Subscribe(4)

	engine.Start()

	assert.False(t, engine.Snapshot().Running)
	assert.Empty(t, drain(events))
	assert.Equal(t, 0, clock.Pending())
}

func TestStartWhileRunningRestartsFromCurrentValues(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	engine.Start()
	clock.Advance(3*time.Second + 500*time.Millisecond)
	require.Equal(t, 7, engine.Snapshot().Seconds)

	seconds := engine.Subscribe(32, FieldSeconds)
	running := engine.Subscribe(4, FieldRunning)
	engine.Start()
	assert.Equal(t, 1, clock.Pending(), "one tick process after restart")
	assert.Empty(t, drain(running), "running stays true across a restart")

	clock.Advance(7 * time.Second)
	assert.Equal(t, []int{6, 5, 4, 3, 2, 1, 0}, values(drain(seconds)))
	assert.Equal(t, StateFinished, engine.State())
}

func TestAdjustTimeIgnoredWhileRunning(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	engine.Start()
	clock.Advance(2 * time.Second)

	engine.AdjustTime(UnitSecond, Increase)
	engine.AdjustTime(UnitHour, Increase)
	engine.Preset(model.Preset{Minutes: 5})

	assert.Equal(t, Snapshot{Seconds: 8, Running: true}, engine.Snapshot())
}

func TestPresetWhileIdle(t *testing.T) {
	engine, _ := newTestEngine(t, model.Preset{Seconds: 10})
	events := engine.Subscribe(8)

	engine.Preset(model.Preset{Hours: 1, Minutes: 70, Seconds: 10})

	assert.Equal(t, Snapshot{Hours: 1, Minutes: 59, Seconds: 10}, engine.Snapshot())
	assert.Len(t, drain(events), 2)
}

func TestUpdateConfigChangesGracePeriod(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	engine.UpdateConfig(model.CountdownConfig{Initial: model.Preset{Seconds: 2}, GracePeriod: 5 * time.Second})
	require.Equal(t, Snapshot{Seconds: 2}, engine.Snapshot())

	engine.Start()
	clock.Advance(2 * time.Second)
	require.Equal(t, StateFinished, engine.State())

	clock.Advance(4 * time.Second)
	assert.Equal(t, StateFinished, engine.State())
	clock.Advance(time.Second)
	assert.Equal(t, StateIdle, engine.State())
}

func TestUpdateConfigWhileRunningKeepsDisplay(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	engine.Start()
	clock.Advance(time.Second)

	engine.UpdateConfig(model.CountdownConfig{Initial: model.Preset{Minutes: 3}})

	assert.Equal(t, Snapshot{Seconds: 9, Running: true}, engine.Snapshot())
}

func TestSubscribeFiltersFields(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 2})
	flags := engine.Subscribe(16, FieldRunning, FieldFinished)

	engine.Start()
	clock.Advance(4 * time.Second)

	got := drain(flags)
	require.Len(t, got, 4)
	fields := []Field{got[0].Field, got[1].Field, got[2].Field, got[3].Field}
	assert.Equal(t, []Field{FieldRunning, FieldFinished, FieldRunning, FieldFinished}, fields)
}

func TestFullBufferDropsEvents(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 5})
	events := engine.Subscribe(1, FieldSeconds)

	engine.Start()
	clock.Advance(3 * time.Second)

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Value)
	assert.Equal(t, 2, engine.Snapshot().Seconds)
}

func TestCloseStopsTicksAndClosesObservers(t *testing.T) {
	engine, clock := newTestEngine(t, model.Preset{Seconds: 10})
	events := engine.Subscribe(16)
	engine.Start()
	drain(events)

	engine.Close()
	clock.Advance(20 * time.Second)

	_, ok := <-events
	assert.False(t, ok)
	assert.Equal(t, 0, clock.Pending())

	engine.Start()
	engine.AdjustTime(UnitSecond, Increase)
	assert.Equal(t, Snapshot{Seconds: 10, Running: true}, engine.Snapshot())

	late := engine.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestSystemClockCountdown(t *testing.T) {
	engine := New(model.CountdownConfig{
		Initial:     model.Preset{Seconds: 1},
		GracePeriod: 20 * time.Millisecond,
	}, Options{
		TickInterval: 100 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer engine.Close()
	flags := engine.Subscribe(8, FieldFinished)

	engine.Start()

	require.Eventually(t, func() bool {
		return engine.State() == StateIdle
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, time.Duration(0), engine.Snapshot().Total())

	got := drain(flags)
	require.Len(t, got, 2)
	assert.True(t, got[0].Flag)
	assert.False(t, got[1].Flag)
}

func TestSnapshotFormatting(t *testing.T) {
	snapshot := Snapshot{Hours: 1, Minutes: 2, Seconds: 3}

	assert.Equal(t, "01:02:03", snapshot.String())
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, snapshot.Total())
	assert.Equal(t, StateIdle, snapshot.State())
}

func TestSecondsUrgentOnlyWhileCounting(t *testing.T) {
	assert.True(t, Snapshot{Seconds: 5, Running: true}.SecondsUrgent())
	assert.True(t, Snapshot{Minutes: 3, Seconds: 0, Running: true}.SecondsUrgent())
	assert.False(t, Snapshot{Seconds: 6, Running: true}.SecondsUrgent())
	assert.False(t, Snapshot{Seconds: 5}.SecondsUrgent())
	assert.False(t, Snapshot{Running: true, Finished: true}.SecondsUrgent())
}
