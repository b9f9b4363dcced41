package greenmoon

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/stacks/arraystack"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/multierr"
)

// SceneState is the lifecycle state of a scene.
type SceneState uint8

const (
	// SceneEnter is the state of a scene that was switched in and has not run
	// its enter hook yet.
	SceneEnter SceneState = iota
	// SceneRun is the steady state: the scene is updated and drawn.
	SceneRun
	// SceneLeave is the state of a scene that was switched out.
	SceneLeave
)

var sceneStateNames = [...]string{"enter", "run", "leave"}

func (s SceneState) String() string {
	if int(s) < len(sceneStateNames) {
		return sceneStateNames[s]
	}
	return fmt.Sprintf("SceneState(%d)", s)
}

// Scene is a named object graph. It may wrap one child scene, which is
// updated and drawn before the scene's own objects.
type Scene struct {
	// OnEnter runs at the start of the first update after the scene becomes
	// current. OnLeave runs when another scene replaces it.
	OnEnter func(s *Scene) error
	OnLeave func(s *Scene) error

	name       string
	objects    *ObjectManager
	child      *Scene
	properties map[string]struct{}
	state      SceneState
}

// NewScene creates a scene. A nil objects gets a fresh ObjectManager.
func NewScene(name string, objects *ObjectManager) *Scene {
	if objects == nil {
		objects = NewObjectManager()
	}
	return &Scene{name: name, objects: objects, properties: map[string]struct{}{}, state: SceneLeave}
}

func (s *Scene) Name() string            { return s.name }
func (s *Scene) Objects() *ObjectManager { return s.objects }
func (s *Scene) State() SceneState       { return s.state }
func (s *Scene) Child() *Scene           { return s.child }

// SetChild wraps child. It shares this scene's scene manager.
func (s *Scene) SetChild(child *Scene) {
	s.child = child
	if child != nil {
		child.setHost(s.objects.host)
	}
}

func (s *Scene) HasProperty(p string) bool {
	_, ok := s.properties[p]
	return ok
}

// AddProperty tags the scene. Group targets address scenes by property.
func (s *Scene) AddProperty(props ...string) {
	for _, p := range props {
		s.properties[p] = struct{}{}
	}
}

func (s *Scene) RemoveProperty(p string) { delete(s.properties, p) }

// Properties returns the scene's properties, sorted.
func (s *Scene) Properties() []string {
	out := make([]string, 0, len(s.properties))
	for p := range s.properties {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (s *Scene) setHost(h Host) {
	s.objects.SetHost(h)
	if s.child != nil {
		s.child.setHost(h)
	}
}

func (s *Scene) enter() error {
	s.state = SceneEnter
	var err error
	if s.OnEnter != nil {
		err = s.OnEnter(s)
	}
	s.state = SceneRun
	if err != nil {
		return fmt.Errorf("enter scene %q: %w", s.name, err)
	}
	return nil
}

func (s *Scene) leave() error {
	s.state = SceneLeave
	if s.OnLeave != nil {
		if err := s.OnLeave(s); err != nil {
			return fmt.Errorf("leave scene %q: %w", s.name, err)
		}
	}
	return nil
}

// Update runs the child scene's update pass, then the scene's own.
func (s *Scene) Update(fc FrameContext) error {
	var errs error
	if s.child != nil {
		errs = s.child.Update(fc)
	}
	return multierr.Append(errs, s.objects.Update(fc))
}

// Draw draws the child scene, then the scene's own objects.
func (s *Scene) Draw(dc *DrawContext) {
	if s.child != nil {
		s.child.Draw(dc)
	}
	s.objects.Draw(dc)
}

// Clone deep-clones the object graph and the child scene. Hooks are shared.
// The clone starts switched out.
func (s *Scene) Clone(name string) *Scene {
	c := NewScene(name, s.objects.Clone())
	c.OnEnter, c.OnLeave = s.OnEnter, s.OnLeave
	if s.child != nil {
		c.child = s.child.Clone(s.child.name)
	}
	for p := range s.properties {
		c.properties[p] = struct{}{}
	}
	return c
}

// sceneMessage handles a message addressed to one scene.
func (sm *SceneManager) sceneMessage(s *Scene, msg Message) (Value, error) {
	switch msg.Method {
	case "change_scene":
		return None(), sm.ChangeScene(s.name)
	case "push_scene":
		return None(), sm.PushScene(s.name)
	case "pop_scene":
		return None(), sm.PopScene()
	case "send":
		tv, mv, err := msg.Value.Unpack2()
		if err != nil {
			return None(), err
		}
		target, err := tv.AsTarget()
		if err != nil {
			return None(), err
		}
		inner, err := mv.AsMessage()
		if err != nil {
			return None(), err
		}
		return s.objects.SendMessage(target, inner)
	case "get_state":
		return String(s.state.String()), nil
	case "has_property":
		p, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		return Bool(s.HasProperty(p)), nil
	case "add_property", "remove_property":
		p, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		if msg.Method == "add_property" {
			s.AddProperty(p)
		} else {
			s.RemoveProperty(p)
		}
	case "object_count":
		return Int(s.objects.Len()), nil
	}
	return None(), nil
}

type transitionKind uint8

const (
	transitionChange transitionKind = iota
	transitionPush
	transitionPop
)

type transition struct {
	kind transitionKind
	name string
}

// SceneManager owns the scenes and selects the current one. Scene switches
// requested during a frame take effect at the start of the next Update, so a
// scene switched in mid-frame never runs in that frame.
type SceneManager struct {
	scenes  *orderedmap.OrderedMap[string, *Scene]
	current *Scene
	stack   *arraystack.Stack
	pending []transition
}

// NewSceneManager creates an empty manager.
func NewSceneManager() *SceneManager {
	return &SceneManager{
		scenes: orderedmap.New[string, *Scene](),
		stack:  arraystack.New(),
	}
}

func sceneNotFound(name string) error { return &NotFoundError{Kind: "scene", Name: name} }

// AddScene registers s. The first scene added becomes current; its enter
// hook runs on the first Update.
func (sm *SceneManager) AddScene(s *Scene) error {
	if _, ok := sm.scenes.Get(s.name); ok {
		return fmt.Errorf("add %q: %w", s.name, ErrSceneExists)
	}
	sm.scenes.Set(s.name, s)
	s.setHost(sm)
	if sm.current == nil {
		sm.current = s
		s.state = SceneEnter
	}
	return nil
}

// RemoveScene unregisters a scene. The current scene, scenes on the push
// stack and scenes named by a queued change or push cannot be removed.
func (sm *SceneManager) RemoveScene(name string) error {
	s, ok := sm.scenes.Get(name)
	if !ok {
		return sceneNotFound(name)
	}
	if s == sm.current || sm.stacked(name) || sm.queued(name) {
		return fmt.Errorf("remove %q: %w", name, ErrSceneActive)
	}
	sm.scenes.Delete(name)
	s.setHost(nil)
	return nil
}

func (sm *SceneManager) queued(name string) bool {
	for _, t := range sm.pending {
		if t.kind != transitionPop && t.name == name {
			return true
		}
	}
	return false
}

func (sm *SceneManager) stacked(name string) bool {
	for _, v := range sm.stack.Values() {
		if v.(string) == name {
			return true
		}
	}
	return false
}

// Scene returns the named scene.
func (sm *SceneManager) Scene(name string) (*Scene, error) {
	s, ok := sm.scenes.Get(name)
	if !ok {
		return nil, sceneNotFound(name)
	}
	return s, nil
}

// Current returns the current scene, or nil when no scene was added.
func (sm *SceneManager) Current() *Scene { return sm.current }

// Len returns the number of registered scenes.
func (sm *SceneManager) Len() int { return sm.scenes.Len() }

// Names returns scene names in insertion order.
func (sm *SceneManager) Names() []string {
	out := make([]string, 0, sm.scenes.Len())
	for p := sm.scenes.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// ScenesWithProperty returns the scenes tagged with p, in insertion order.
func (sm *SceneManager) ScenesWithProperty(p string) []*Scene {
	var out []*Scene
	for e := sm.scenes.Oldest(); e != nil; e = e.Next() {
		if e.Value.HasProperty(p) {
			out = append(out, e.Value)
		}
	}
	return out
}

// StackDepth returns the number of scenes waiting to be popped back to.
func (sm *SceneManager) StackDepth() int { return sm.stack.Size() }

// ChangeScene switches to the named scene at the start of the next Update.
func (sm *SceneManager) ChangeScene(name string) error {
	if _, ok := sm.scenes.Get(name); !ok {
		return sceneNotFound(name)
	}
	sm.pending = append(sm.pending, transition{kind: transitionChange, name: name})
	return nil
}

// PushScene remembers the current scene and switches to the named one at the
// start of the next Update.
func (sm *SceneManager) PushScene(name string) error {
	if _, ok := sm.scenes.Get(name); !ok {
		return sceneNotFound(name)
	}
	sm.pending = append(sm.pending, transition{kind: transitionPush, name: name})
	return nil
}

// PopScene returns to the most recently pushed-over scene at the start of
// the next Update.
func (sm *SceneManager) PopScene() error {
	depth := sm.stack.Size()
	for _, t := range sm.pending {
		switch t.kind {
		case transitionPush:
			depth++
		case transitionPop:
			depth--
		}
	}
	if depth <= 0 {
		return ErrSceneStackEmpty
	}
	sm.pending = append(sm.pending, transition{kind: transitionPop})
	return nil
}

// switchTo leaves the current scene and makes s current.
func (sm *SceneManager) switchTo(s *Scene) error {
	var err error
	if sm.current != nil && sm.current != s {
		err = sm.current.leave()
	}
	sm.current = s
	s.state = SceneEnter
	return err
}

func (sm *SceneManager) apply(t transition) error {
	switch t.kind {
	case transitionPop:
		v, ok := sm.stack.Pop()
		if !ok {
			return ErrSceneStackEmpty
		}
		s, err := sm.Scene(v.(string))
		if err != nil {
			return err
		}
		return sm.switchTo(s)
	default:
		s, err := sm.Scene(t.name)
		if err != nil {
			return err
		}
		if t.kind == transitionPush && sm.current != nil {
			sm.stack.Push(sm.current.name)
		}
		return sm.switchTo(s)
	}
}

// Update applies queued scene switches, runs the current scene's enter hook
// when it was just switched in, then runs its update pass.
func (sm *SceneManager) Update(fc FrameContext) error {
	var errs error
	pending := sm.pending
	sm.pending = nil
	for _, t := range pending {
		errs = multierr.Append(errs, sm.apply(t))
	}
	if sm.current == nil {
		return errs
	}
	if sm.current.state == SceneEnter {
		errs = multierr.Append(errs, sm.current.enter())
	}
	return multierr.Append(errs, sm.current.Update(fc))
}

// Draw draws the current scene.
func (sm *SceneManager) Draw(dc *DrawContext) {
	if sm.current != nil {
		sm.current.Draw(dc)
	}
}

// HostMessage answers manager messages tagged "scene" from any scene's
// objects.
func (sm *SceneManager) HostMessage(msg Message) (Value, error) {
	switch msg.Method {
	case "change_scene", "push_scene":
		name, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		if msg.Method == "change_scene" {
			return None(), sm.ChangeScene(name)
		}
		return None(), sm.PushScene(name)
	case "pop_scene":
		return None(), sm.PopScene()
	case "current_scene":
		if sm.current == nil {
			return None(), nil
		}
		return String(sm.current.name), nil
	case "has_scene":
		name, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		_, ok := sm.scenes.Get(name)
		return Bool(ok), nil
	case "scene_names":
		return stringValues(sm.Names()), nil
	}
	return None(), nil
}

// SendMessage routes msg to scenes. Single and Names address scenes by
// name, Group and Groups by property, Manager goes to HostMessage.
func (sm *SceneManager) SendMessage(target Target, msg Message) (Value, error) {
	switch target.Kind {
	case TargetSingle:
		s, err := sm.Scene(target.Name())
		if err != nil {
			return None(), err
		}
		return sm.sceneMessage(s, msg)
	case TargetNames:
		var errs error
		results := make([]Value, 0, len(target.Names))
		for _, name := range target.Names {
			s, err := sm.Scene(name)
			if err == nil {
				var v Value
				if v, err = sm.sceneMessage(s, msg); err == nil {
					results = append(results, v)
					continue
				}
			}
			errs = multierr.Append(errs, err)
		}
		return Multiple(results...), errs
	case TargetGroup, TargetGroups:
		var errs error
		var results []Value
		for _, p := range target.Names {
			scenes := sm.ScenesWithProperty(p)
			if len(scenes) == 0 {
				errs = multierr.Append(errs, &NotFoundError{Kind: "scene property", Name: p})
				continue
			}
			for _, s := range scenes {
				v, err := sm.sceneMessage(s, msg)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%q: %w", s.name, err))
					continue
				}
				results = append(results, v)
			}
		}
		return Multiple(results...), errs
	case TargetManager:
		return sm.HostMessage(msg)
	case TargetComposite:
		var errs error
		out := Multiple()
		for _, t := range target.Targets {
			v, err := sm.SendMessage(t, msg)
			errs = multierr.Append(errs, err)
			if t.Kind == TargetSingle || t.Kind == TargetManager {
				out = Chain(out, Multiple(v))
			} else {
				out = Chain(out, v)
			}
		}
		return out, errs
	}
	return None(), fmt.Errorf("greenmoon: unknown target kind %d", target.Kind)
}

// Dispatch sends msg to target inside the current scene's object graph.
func (sm *SceneManager) Dispatch(target Target, msg Message) (Value, error) {
	if sm.current == nil {
		return None(), sceneNotFound("<current>")
	}
	return sm.current.objects.SendMessage(target, msg)
}

// Clone deep-clones every scene into a new manager with the same current
// scene. Queued switches and the push stack are not copied.
func (sm *SceneManager) Clone() *SceneManager {
	c := NewSceneManager()
	for p := sm.scenes.Oldest(); p != nil; p = p.Next() {
		s := p.Value.Clone(p.Key)
		c.scenes.Set(p.Key, s)
		s.setHost(c)
		if p.Value == sm.current {
			c.current = s
			s.state = p.Value.state
		}
	}
	return c
}
