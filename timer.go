package greenmoon

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// timerCommand is the decoded method of a message sent to a timer family
// object.
type timerCommand uint8

const (
	timerUnknown timerCommand = iota
	timerPause
	timerResume
	timerRestart
	timerIsFinished
	timerGetElapsed
	timerGetIndex
	timerSetIndex
)

var timerCommands = map[string]timerCommand{
	"pause":       timerPause,
	"resume":      timerResume,
	"restart":     timerRestart,
	"is_finished": timerIsFinished,
	"get_elapsed": timerGetElapsed,
	"get_index":   timerGetIndex,
	"set_index":   timerSetIndex,
}

// Timer measures frame time against a duration. Elapsed time is summed as a
// time.Duration. Frame deltas such as time.Second/60 are truncated to the
// nanosecond, so each tick is allowed one nanosecond of slack.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration
	ticks    int64
	finished bool
	paused   bool
}

// NewTimer creates a running timer.
func NewTimer(d time.Duration) *Timer {
	t := &Timer{duration: d}
	t.Restart()
	return t
}

// Tick advances the timer by dt and reports whether it elapsed on this tick.
// A finished or paused timer does not advance.
func (t *Timer) Tick(dt time.Duration) bool {
	if t.finished || t.paused {
		return false
	}
	t.elapsed += dt
	t.ticks++
	t.finished = t.elapsed+time.Duration(t.ticks) >= t.duration
	return t.finished
}

// Restart sets elapsed time back to zero. The paused state is kept.
func (t *Timer) Restart() {
	t.elapsed = 0
	t.ticks = 0
	t.finished = false
}

func (t *Timer) Pause()           { t.paused = true }
func (t *Timer) Resume()          { t.paused = false }
func (t *Timer) Paused() bool     { return t.paused }
func (t *Timer) IsFinished() bool { return t.finished }

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration { return t.duration }

// Elapsed returns the time measured so far, capped at the duration.
func (t *Timer) Elapsed() time.Duration {
	if t.finished {
		return t.duration
	}
	return min(t.elapsed, t.duration)
}

func (t *Timer) clone() *Timer {
	c := NewTimer(t.duration)
	c.paused = t.paused
	return c
}

// handle applies the commands shared by every timer family object.
func (t *Timer) handle(cmd timerCommand) (Value, bool) {
	switch cmd {
	case timerPause:
		t.Pause()
	case timerResume:
		t.Resume()
	case timerRestart:
		t.Restart()
	case timerIsFinished:
		return Bool(t.finished), true
	case timerGetElapsed:
		return Float64(t.Elapsed().Seconds()), true
	default:
		return None(), false
	}
	return None(), true
}

// SendMessage handles pause, resume, restart, is_finished and get_elapsed.
func (t *Timer) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	v, _ := t.handle(timerCommands[msg.Method])
	return v, nil
}

// Update ticks the timer by the frame delta.
func (t *Timer) Update(om *ObjectManager) error {
	t.Tick(om.Delta())
	return nil
}

func (t *Timer) Draw(*DrawContext) {}

func (t *Timer) Clone() Object { return t.clone() }

// --- Timed senders ---

// TimedMessage is one (timer, target, message) entry of a timed sender.
type TimedMessage struct {
	After   time.Duration
	Target  Target
	Message Message
}

type timedEntry struct {
	timer  *Timer
	target Target
	msg    Message
}

func newTimedEntry(tm TimedMessage) timedEntry {
	return timedEntry{timer: NewTimer(tm.After), target: tm.Target, msg: tm.Message}
}

func (e timedEntry) clone() timedEntry {
	return timedEntry{timer: e.timer.clone(), target: e.target, msg: e.msg}
}

func (e timedEntry) fire(om *ObjectManager) error {
	if _, err := om.SendMessage(e.target, e.msg); err != nil {
		return fmt.Errorf("timed send to %s: %w", e.target, err)
	}
	return nil
}

// TimedSender sends one message when its timer elapses. A repeating sender
// restarts its timer after every send.
type TimedSender struct {
	entry  timedEntry
	repeat bool
}

// NewTimedSender creates a sender that fires msg at target after d.
func NewTimedSender(d time.Duration, target Target, msg Message, repeat bool) *TimedSender {
	return &TimedSender{entry: newTimedEntry(TimedMessage{d, target, msg}), repeat: repeat}
}

func (s *TimedSender) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	v, _ := s.entry.timer.handle(timerCommands[msg.Method])
	return v, nil
}

func (s *TimedSender) Update(om *ObjectManager) error {
	if !s.entry.timer.Tick(om.Delta()) {
		return nil
	}
	if s.repeat {
		s.entry.timer.Restart()
	}
	return s.entry.fire(om)
}

func (s *TimedSender) Draw(*DrawContext) {}

func (s *TimedSender) Clone() Object {
	return &TimedSender{entry: s.entry.clone(), repeat: s.repeat}
}

// MultiTimedSender runs several independent timed messages at once.
type MultiTimedSender struct {
	entries []timedEntry
	repeat  bool
}

// NewMultiTimedSender creates a sender for every entry in msgs.
func NewMultiTimedSender(repeat bool, msgs ...TimedMessage) *MultiTimedSender {
	s := &MultiTimedSender{repeat: repeat}
	for _, tm := range msgs {
		s.entries = append(s.entries, newTimedEntry(tm))
	}
	return s
}

// SendMessage applies timer commands to every entry. is_finished is true when
// all entries are finished.
func (s *MultiTimedSender) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	cmd := timerCommands[msg.Method]
	if cmd == timerIsFinished {
		for _, e := range s.entries {
			if !e.timer.IsFinished() {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	}
	for _, e := range s.entries {
		e.timer.handle(cmd)
	}
	return None(), nil
}

func (s *MultiTimedSender) Update(om *ObjectManager) error {
	var errs error
	for _, e := range s.entries {
		if !e.timer.Tick(om.Delta()) {
			continue
		}
		if s.repeat {
			e.timer.Restart()
		}
		errs = multierr.Append(errs, e.fire(om))
	}
	return errs
}

func (s *MultiTimedSender) Draw(*DrawContext) {}

func (s *MultiTimedSender) Clone() Object {
	c := &MultiTimedSender{repeat: s.repeat, entries: make([]timedEntry, len(s.entries))}
	for i, e := range s.entries {
		c.entries[i] = e.clone()
	}
	return c
}

// SequenceSender fires its entries one after another: only the current
// entry's timer runs, and each send moves to the next entry. With wrap set
// the sequence starts over after the last entry; otherwise it finishes.
type SequenceSender struct {
	entries  []timedEntry
	index    int
	wrap     bool
	finished bool
}

// NewSequenceSender creates a sequence over msgs.
func NewSequenceSender(wrap bool, msgs ...TimedMessage) *SequenceSender {
	s := &SequenceSender{wrap: wrap}
	for _, tm := range msgs {
		s.entries = append(s.entries, newTimedEntry(tm))
	}
	s.finished = len(s.entries) == 0
	return s
}

// Index returns the position of the entry whose timer is running.
func (s *SequenceSender) Index() int { return s.index }

// SetIndex jumps to entry i and restarts its timer.
func (s *SequenceSender) SetIndex(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("%w: sequence index %d out of range [0, %d)", ErrInvalidCommand, i, len(s.entries))
	}
	s.index = i
	s.finished = false
	s.entries[i].timer.Restart()
	return nil
}

func (s *SequenceSender) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	switch cmd := timerCommands[msg.Method]; cmd {
	case timerIsFinished:
		return Bool(s.finished), nil
	case timerGetIndex:
		return Int(s.index), nil
	case timerSetIndex:
		i, err := msg.Value.AsInt()
		if err != nil {
			return None(), err
		}
		return None(), s.SetIndex(i)
	case timerRestart:
		for _, e := range s.entries {
			e.timer.Restart()
		}
		s.index = 0
		s.finished = len(s.entries) == 0
	case timerPause, timerResume:
		for _, e := range s.entries {
			e.timer.handle(cmd)
		}
	}
	return None(), nil
}

func (s *SequenceSender) Update(om *ObjectManager) error {
	if s.finished {
		return nil
	}
	cur := s.entries[s.index]
	if !cur.timer.Tick(om.Delta()) {
		return nil
	}
	s.index++
	if s.index == len(s.entries) {
		if s.wrap {
			s.index = 0
		} else {
			s.index = len(s.entries) - 1
			s.finished = true
		}
	}
	if !s.finished {
		s.entries[s.index].timer.Restart()
	}
	return cur.fire(om)
}

func (s *SequenceSender) Draw(*DrawContext) {}

func (s *SequenceSender) Clone() Object {
	c := &SequenceSender{wrap: s.wrap, finished: len(s.entries) == 0, entries: make([]timedEntry, len(s.entries))}
	for i, e := range s.entries {
		c.entries[i] = e.clone()
	}
	return c
}
