package greenmoon

import (
	"errors"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "send", "target": "hero", "tags": "target", "method": "set_position", "value": {"x": 1, "y": 2}},
			{"action": "update", "frames": 3},
			{"action": "expect", "target": {"group": "g"}, "method": "count", "want": [1]},
			{"action": "wait"},
			{"action": "push_scene", "scene": "menu"},
			{"action": "pop_scene"}
		]
	}`)

	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(runner.steps))
	}
	st := runner.steps[0]
	if !st.target.Equal(To("hero")) || st.msg.String() != `target:set_position({1 2})` {
		t.Errorf("step 0 = %v %v", st.target, st.msg)
	}
	if runner.steps[1].frames != 3 {
		t.Errorf("step 1 frames = %d, want 3", runner.steps[1].frames)
	}
	if !runner.steps[2].want.Equal(Multiple(Int64(1))) {
		t.Errorf("step 2 want = %v", runner.steps[2].want)
	}
	if runner.steps[4].scene != "menu" {
		t.Error("step 4 scene mismatch")
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	for _, js := range []string{
		`not json`,
		`{"steps": []}`,
		`{"steps": [{"action": "dance"}]}`,
		`{"steps": [{"action": "change_scene"}]}`,
		`{"steps": [{"action": "send", "method": "x"}]}`,
		`{"steps": [{"action": "send", "target": "a"}]}`,
		`{"steps": [{"action": "expect", "target": "a", "method": "m", "want": {"bogus": 1}}]}`,
	} {
		if _, err := LoadScript([]byte(js)); err == nil {
			t.Errorf("LoadScript(%s) succeeded, want error", js)
		}
	}
}

func TestScriptRun(t *testing.T) {
	play, _ := sceneWith("hero", nil)
	play.Objects().AddNormalObject("mover", NewVelocityMover(SubjectNamed("hero"), Vec2{1, 0}))
	other := NewScene("other", nil)
	sm := newTestSceneManager(t, play, other)

	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "expect", "target": "hero", "method": "get_position", "want": {"x": 0, "y": 0}},
		{"action": "update", "frames": 3},
		{"action": "expect", "target": "hero", "method": "get_position", "want": {"x": 4, "y": 0}},
		{"action": "send", "target": "mover", "method": "set_velocity", "value": {"x": 0, "y": 2}},
		{"action": "expect", "target": "hero", "method": "get_position", "want": {"x": 100, "y": 0}},
		{"action": "send", "target": "ghost", "method": "name"},
		{"action": "change_scene", "scene": "other"},
		{"action": "expect", "target": {"manager": true}, "tags": "scene", "method": "current_scene", "want": "other"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	err = runner.Run(sm, FrameContext{Frame: 1, Delta: quarter})
	if !errors.Is(err, ErrExpectationFailed) {
		t.Fatalf("Run = %v, want ErrExpectationFailed", err)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
	if sm.Current() != other {
		t.Errorf("current scene = %q, want other", sm.Current().Name())
	}

	fails := runner.Failures()
	if len(fails) != 1 {
		t.Fatalf("failures = %v, want 1", fails)
	}
	if fails[0].Step != 4 || fails[0].Got != `{"x":5,"y":2}` || fails[0].Want != `{"x":100,"y":0}` {
		t.Errorf("failure = %s", fails[0])
	}

	results := runner.Results()
	if len(results) != 7 {
		t.Fatalf("results = %d, want 7", len(results))
	}
	if r := results[4]; r.Step != 5 || !IsNotFound(r.Err) {
		t.Errorf("ghost send = %+v, want NotFound", r)
	}
}

func TestScriptStepWaits(t *testing.T) {
	s, r := sceneWith("hero", nil)
	sm := newTestSceneManager(t, s)
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 2},
		{"action": "send", "target": "hero", "method": "echo", "value": 1}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	for frame := 1; frame <= 2; frame++ {
		runner.Step(sm)
		if len(r.got) != 0 {
			t.Fatalf("frame %d: send ran during wait", frame)
		}
	}
	runner.Step(sm)
	if len(r.got) != 1 {
		t.Errorf("received %d messages, want 1", len(r.got))
	}
	if !runner.Done() {
		t.Error("runner should be done after the last step")
	}
	runner.Step(sm)
	if len(r.got) != 1 {
		t.Error("Step after done should do nothing")
	}
}

func TestScriptSendToNamedScene(t *testing.T) {
	a, _ := sceneWith("a", nil)
	b, rb := sceneWith("b", nil)
	sm := newTestSceneManager(t, a, b)
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "expect", "scene": "b", "target": "b", "method": "echo", "value": "hi", "want": "hi"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := runner.Run(sm, FrameContext{}); err != nil {
		t.Fatal(err)
	}
	if len(rb.got) != 1 {
		t.Errorf("scene b received %d messages, want 1", len(rb.got))
	}
}
