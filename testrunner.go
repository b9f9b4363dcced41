package greenmoon

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

// ErrExpectationFailed is returned by ScriptRunner.Run when an expect step
// did not match.
var ErrExpectationFailed = errors.New("script expectation failed")

// scriptStep is one parsed action of a script.
type scriptStep struct {
	action string
	frames int
	scene  string
	target Target
	msg    Message
	want   Value
}

// StepResult records the outcome of a send or expect step.
type StepResult struct {
	Step   int
	Action string
	Value  Value
	Err    error
}

// ScriptFailure describes an expect step whose result did not match.
type ScriptFailure struct {
	Step    int
	Message string
	Got     string
	Want    string
	Err     error
}

func (f ScriptFailure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("step %d %s: %v", f.Step, f.Message, f.Err)
	}
	return fmt.Sprintf("step %d %s: got %s, want %s", f.Step, f.Message, f.Got, f.Want)
}

// ScriptRunner plays a JSON script against a SceneManager, one step per
// frame:
//
//	{"steps": [
//	  {"action": "send", "target": "hero", "method": "set_position", "value": {"x": 1, "y": 2}},
//	  {"action": "update", "frames": 10},
//	  {"action": "expect", "target": "hero", "method": "get_position", "want": {"x": 1, "y": 2}},
//	  {"action": "change_scene", "scene": "menu"},
//	  {"action": "wait", "frames": 2}
//	]}
//
// send and expect address the current scene's objects, or the scene named
// by "scene". "tags" is a dotted path or a string array.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	results  []StepResult
	failures []ScriptFailure
}

// LoadScript parses a JSON script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse script: malformed JSON")
	}
	raw := gjson.GetBytes(data, "steps")
	if !raw.IsArray() || len(raw.Array()) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	r := &ScriptRunner{}
	for i, st := range raw.Array() {
		step, err := parseStep(st)
		if err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
		r.steps = append(r.steps, step)
	}
	return r, nil
}

func parseStep(st gjson.Result) (scriptStep, error) {
	step := scriptStep{
		action: st.Get("action").String(),
		frames: int(st.Get("frames").Int()),
		scene:  st.Get("scene").String(),
	}
	switch step.action {
	case "update":
		if step.frames <= 0 {
			step.frames = 1
		}
	case "wait", "pop_scene":
	case "change_scene", "push_scene":
		if step.scene == "" {
			return step, fmt.Errorf("%s without scene", step.action)
		}
	case "send", "expect":
		t, err := TargetFromJSON(st.Get("target"))
		if err != nil {
			return step, err
		}
		step.target = t
		if step.msg, err = MessageFromJSON(st); err != nil {
			return step, err
		}
		if step.action == "expect" {
			if step.want, err = ValueFromJSON(st.Get("want")); err != nil {
				return step, fmt.Errorf("want: %w", err)
			}
		}
	default:
		return step, fmt.Errorf("unknown action %q", step.action)
	}
	return step, nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Results returns the outcomes of send and expect steps, in order.
func (r *ScriptRunner) Results() []StepResult { return r.results }

// Failures returns the expect steps that did not match.
func (r *ScriptRunner) Failures() []ScriptFailure { return r.failures }

// Step executes the next step, or counts down a wait. Call it once per frame
// before the scene update pass.
func (r *ScriptRunner) Step(sm *SceneManager) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	i := r.cursor
	st := r.steps[i]
	r.cursor++

	switch st.action {
	case "update", "wait":
		if st.frames > 0 {
			r.waitCount = st.frames - 1 // this frame counts as one
		}
	case "change_scene":
		r.record(i, st, None(), sm.ChangeScene(st.scene))
	case "push_scene":
		r.record(i, st, None(), sm.PushScene(st.scene))
	case "pop_scene":
		r.record(i, st, None(), sm.PopScene())
	case "send", "expect":
		v, err := r.send(sm, st)
		r.record(i, st, v, err)
		if st.action == "expect" {
			r.check(i, st, v, err)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) send(sm *SceneManager, st scriptStep) (Value, error) {
	// Each send gets a fresh tag cursor.
	msg := st.msg
	msg.tags = append([]string(nil), st.msg.tags...)
	if st.scene == "" {
		return sm.Dispatch(st.target, msg)
	}
	s, err := sm.Scene(st.scene)
	if err != nil {
		return None(), err
	}
	return s.Objects().SendMessage(st.target, msg)
}

func (r *ScriptRunner) record(i int, st scriptStep, v Value, err error) {
	r.results = append(r.results, StepResult{Step: i, Action: st.action, Value: v, Err: err})
	if err != nil {
		logger.Warn("script step failed", "step", i, "action", st.action, "err", err)
	}
}

func (r *ScriptRunner) check(i int, st scriptStep, got Value, err error) {
	f := ScriptFailure{Step: i, Message: st.target.String() + " " + st.msg.String()}
	if err != nil {
		f.Err = err
		r.failures = append(r.failures, f)
		return
	}
	gotJSON, gerr := json.Marshal(got)
	wantJSON, werr := json.Marshal(st.want)
	if gerr != nil || werr != nil {
		f.Err = multierr.Append(gerr, werr)
		r.failures = append(r.failures, f)
		return
	}
	if string(gotJSON) != string(wantJSON) {
		f.Got, f.Want = string(gotJSON), string(wantJSON)
		r.failures = append(r.failures, f)
	}
}

// Run steps the script to the end, running one sm update pass per frame
// starting at fc. Update errors are collected; failed expectations are
// reported as ErrExpectationFailed.
func (r *ScriptRunner) Run(sm *SceneManager, fc FrameContext) error {
	var errs error
	for frame := fc.Frame; !r.done; frame++ {
		r.Step(sm)
		fc.Frame = frame
		errs = multierr.Append(errs, sm.Update(fc))
	}
	if n := len(r.failures); n > 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d of %d", ErrExpectationFailed, n, r.expectCount()))
	}
	return errs
}

func (r *ScriptRunner) expectCount() int {
	n := 0
	for _, st := range r.steps {
		if st.action == "expect" {
			n++
		}
	}
	return n
}
