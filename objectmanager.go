package greenmoon

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/multierr"
)

// Host receives manager-directed messages tagged "scene". The SceneManager
// installs itself as the host of every scene's ObjectManager.
type Host interface {
	HostMessage(msg Message) (Value, error)
}

type initMessage struct {
	name string
	msg  Message
}

type entry struct {
	name string
	info *ObjectInfo
}

// ObjectManager owns every live object of a scene, keyed by unique name.
//
// Each frame Update delivers queued initialize messages, updates active
// objects in ascending UpdateIndex order and then applies the structural
// commands posted during the pass. Draw visits visible objects in ascending
// DrawIndex order. Ties keep insertion order.
//
// An ObjectManager is not safe for concurrent use; it belongs to the game
// loop goroutine.
type ObjectManager struct {
	objects *orderedmap.OrderedMap[string, *ObjectInfo]

	pending  []Command
	inits    []initMessage
	updating bool
	frame    FrameContext

	host  Host
	sink  EventSink
	debug bool

	updateBuf []entry
	drawBuf   []entry
}

// NewObjectManager creates an empty manager.
func NewObjectManager() *ObjectManager {
	return &ObjectManager{
		objects: orderedmap.New[string, *ObjectInfo](),
	}
}

// --- Adding and removing ---

// AddNormalObject adds a logic-only object: active, not visible. A name that
// is already taken is replaced (with a warning), not rejected.
func (om *ObjectManager) AddNormalObject(name string, obj Object, opts ...ObjectOption) {
	om.post(AddObjectCommand{Name: name, Object: obj, Options: opts})
}

// AddDrawObject adds an object that is both updated and drawn. A name that
// is already taken is replaced (with a warning), not rejected.
func (om *ObjectManager) AddDrawObject(name string, obj Object, opts ...ObjectOption) {
	om.post(AddObjectCommand{Name: name, Object: obj, Visible: true, Options: opts})
}

// RemoveObject removes the named object. It returns a *NotFoundError when
// the name is absent. During an update pass the removal is queued and nil is
// returned.
func (om *ObjectManager) RemoveObject(name string) error {
	return om.post(RemoveObjectCommand{Name: name})
}

// ReplaceObject swaps the object stored under name, keeping its flags,
// indices, groups and state. Queued during an update pass.
func (om *ObjectManager) ReplaceObject(name string, obj Object) error {
	return om.post(ReplaceObjectCommand{Name: name, Object: obj})
}

// Clear removes every object. Queued during an update pass.
func (om *ObjectManager) Clear() {
	om.post(ClearCommand{})
}

// Post applies a command now, or queues it when an update pass is running.
func (om *ObjectManager) Post(cmd Command) error {
	return om.post(cmd)
}

func (om *ObjectManager) post(cmd Command) error {
	if om.updating {
		om.pending = append(om.pending, cmd)
		return nil
	}
	return cmd.Apply(om)
}

// Pending returns the number of queued commands.
func (om *ObjectManager) Pending() int { return len(om.pending) }

func (om *ObjectManager) insert(name string, info *ObjectInfo) {
	if _, present := om.objects.Set(name, info); present {
		logger.Warn("object name already in use, replacing", "name", name)
		om.emit(ObjectReplaced, name)
		return
	}
	if om.debug {
		debugCheckObjectCount(om)
	}
	om.emit(ObjectAdded, name)
}

func (om *ObjectManager) remove(name string) error {
	if _, ok := om.objects.Delete(name); !ok {
		return objectNotFound(name)
	}
	om.emit(ObjectRemoved, name)
	return nil
}

func (om *ObjectManager) replace(name string, obj Object) error {
	info, ok := om.objects.Get(name)
	if !ok {
		return objectNotFound(name)
	}
	info.Object = obj
	om.emit(ObjectReplaced, name)
	return nil
}

func (om *ObjectManager) clear() {
	for p := om.objects.Oldest(); p != nil; p = p.Next() {
		om.emit(ObjectRemoved, p.Key)
	}
	om.objects = orderedmap.New[string, *ObjectInfo]()
}

// InitializeObject queues msg for delivery to the named object at the start
// of the next update pass, before any object is updated.
func (om *ObjectManager) InitializeObject(name string, msg Message) {
	om.inits = append(om.inits, initMessage{name: name, msg: msg})
}

// --- Frame passes ---

// Update runs one update pass. Errors returned by objects and by queued
// commands are collected; one failing object does not stop the pass.
func (om *ObjectManager) Update(fc FrameContext) error {
	om.frame = fc
	var stats frameStats
	var t0 time.Time
	if om.debug {
		t0 = time.Now()
	}

	var errs error
	inits := om.inits
	om.inits = nil
	for _, in := range inits {
		info, ok := om.objects.Get(in.name)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("initialize: %w", objectNotFound(in.name)))
			continue
		}
		if _, err := info.Object.SendMessage(in.msg, om); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("initialize %q: %w", in.name, err))
		}
	}

	if om.debug {
		stats.initTime = time.Since(t0)
		t0 = time.Now()
	}

	om.updating = true
	om.updateBuf = om.collect(om.updateBuf, func(i *ObjectInfo) bool { return i.Active },
		func(i *ObjectInfo) int { return i.UpdateIndex })
	for _, e := range om.updateBuf {
		if err := e.info.Object.Update(om); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("update %q: %w", e.name, err))
		}
	}
	om.updating = false
	stats.updated = len(om.updateBuf)

	if om.debug {
		stats.updateTime = time.Since(t0)
		stats.deferred = len(om.pending)
		debugCheckPending(om)
		t0 = time.Now()
	}

	errs = multierr.Append(errs, om.drain())

	if om.debug {
		stats.drainTime = time.Since(t0)
		om.debugLog(stats)
	}
	return errs
}

// drain applies queued commands in FIFO order. Removing an object that is
// already gone is a no-op.
func (om *ObjectManager) drain() error {
	var errs error
	for len(om.pending) > 0 {
		cmds := om.pending
		om.pending = nil
		for _, cmd := range cmds {
			err := cmd.Apply(om)
			if err == nil {
				continue
			}
			if _, isRemove := cmd.(RemoveObjectCommand); isRemove && errors.Is(err, ErrNotFound) {
				logger.Debug("deferred removal of absent object ignored", "err", err)
				continue
			}
			logger.Error("deferred command failed", "command", fmt.Sprintf("%T", cmd), "err", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Draw calls Draw on every visible object in ascending DrawIndex order.
func (om *ObjectManager) Draw(dc *DrawContext) {
	om.drawBuf = om.collect(om.drawBuf, func(i *ObjectInfo) bool { return i.Visible },
		func(i *ObjectInfo) int { return i.DrawIndex })
	for _, e := range om.drawBuf {
		e.info.Object.Draw(dc)
	}
}

// collect gathers the objects accepted by filter in insertion order and
// stable-sorts them by key. Sorting happens on every call.
func (om *ObjectManager) collect(buf []entry, filter func(*ObjectInfo) bool, key func(*ObjectInfo) int) []entry {
	buf = buf[:0]
	for p := om.objects.Oldest(); p != nil; p = p.Next() {
		if filter(p.Value) {
			buf = append(buf, entry{name: p.Key, info: p.Value})
		}
	}
	slices.SortStableFunc(buf, func(a, b entry) int {
		return cmp.Compare(key(a.info), key(b.info))
	})
	return buf
}

// --- Messaging ---

// SendMessage routes msg to the recipients named by target. Results of
// multi-recipient targets are collected into a Multiple. Inactive objects
// are skipped without error.
func (om *ObjectManager) SendMessage(target Target, msg Message) (Value, error) {
	switch target.Kind {
	case TargetSingle:
		return om.SendMessageObject(target.Name(), msg)
	case TargetNames:
		var errs error
		results := make([]Value, 0, len(target.Names))
		for _, name := range target.Names {
			info, ok := om.objects.Get(name)
			if !ok {
				errs = multierr.Append(errs, objectNotFound(name))
				continue
			}
			if !info.Active {
				continue
			}
			v, err := info.Object.SendMessage(msg, om)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%q: %w", name, err))
				continue
			}
			results = append(results, v)
		}
		return Value{KindMultiple, results}, errs
	case TargetGroup:
		return om.SendMessageGroup(target.Name(), msg)
	case TargetGroups:
		var errs error
		out := Multiple()
		for _, g := range target.Names {
			v, err := om.SendMessageGroup(g, msg)
			errs = multierr.Append(errs, err)
			if v.Kind() == KindMultiple {
				out = Chain(out, v)
			}
		}
		return out, errs
	case TargetManager:
		return om.sendManager(msg)
	case TargetComposite:
		var errs error
		out := Multiple()
		for _, t := range target.Targets {
			v, err := om.SendMessage(t, msg)
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

// SendMessageObject delivers msg to one object. A missing name is a
// *NotFoundError; an inactive object drops the message and returns None.
func (om *ObjectManager) SendMessageObject(name string, msg Message) (Value, error) {
	info, ok := om.objects.Get(name)
	if !ok {
		return None(), objectNotFound(name)
	}
	if !info.Active {
		return None(), nil
	}
	return info.Object.SendMessage(msg, om)
}

// SendMessageGroup broadcasts msg to every active member of group, in
// insertion order, and returns their results as a Multiple. A group with no
// members at all is a *NotFoundError.
func (om *ObjectManager) SendMessageGroup(group string, msg Message) (Value, error) {
	members := om.members(group)
	if len(members) == 0 {
		return Multiple(), &NotFoundError{Kind: "group", Name: group}
	}
	var errs error
	results := make([]Value, 0, len(members))
	for _, e := range members {
		if !e.info.Active {
			continue
		}
		v, err := e.info.Object.SendMessage(msg, om)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", e.name, err))
			continue
		}
		results = append(results, v)
	}
	return Value{KindMultiple, results}, errs
}

func (om *ObjectManager) members(group string) []entry {
	var out []entry
	for p := om.objects.Oldest(); p != nil; p = p.Next() {
		if p.Value.InGroup(group) {
			out = append(out, entry{name: p.Key, info: p.Value})
		}
	}
	return out
}

// sendManager handles messages addressed to the manager itself. Queries are
// answered at once; structural methods become Commands.
func (om *ObjectManager) sendManager(msg Message) (Value, error) {
	switch tag := msg.NextTag(); tag {
	case "":
	case "scene":
		if om.host == nil {
			return None(), fmt.Errorf("greenmoon: scene message %q without a scene manager", msg.Method)
		}
		return om.host.HostMessage(msg)
	default:
		return None(), nil
	}

	switch msg.Method {
	case "has_object":
		name, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		return Bool(om.Has(name)), nil
	case "count":
		return Int(om.Len()), nil
	case "names":
		return stringValues(om.Names()), nil
	case "group_members":
		group, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		return stringValues(om.GroupMembers(group)), nil
	case "get_state_property":
		name, key, err := nameAnd(msg.Value, Value.AsString)
		if err != nil {
			return None(), err
		}
		return om.GetStateProperty(name, key)
	}

	cmd, err := decodeCommand(msg)
	if err != nil {
		return None(), err
	}
	if cmd == nil {
		logger.Debug("unknown manager method ignored", "method", msg.Method)
		return None(), nil
	}
	return None(), om.post(cmd)
}

func stringValues(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{KindMultiple, vs}
}

// --- Lookup and flags ---

// GetObject returns the named object.
func (om *ObjectManager) GetObject(name string) (Object, error) {
	info, err := om.Info(name)
	if err != nil {
		return nil, err
	}
	return info.Object, nil
}

// Info returns the manager-side record of the named object.
func (om *ObjectManager) Info(name string) (*ObjectInfo, error) {
	info, ok := om.objects.Get(name)
	if !ok {
		return nil, objectNotFound(name)
	}
	return info, nil
}

// Has reports whether an object with the given name exists.
func (om *ObjectManager) Has(name string) bool {
	_, ok := om.objects.Get(name)
	return ok
}

// Len returns the number of objects.
func (om *ObjectManager) Len() int { return om.objects.Len() }

// Names returns the object names in insertion order.
func (om *ObjectManager) Names() []string {
	names := make([]string, 0, om.objects.Len())
	for p := om.objects.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

func (om *ObjectManager) with(name string, fn func(*ObjectInfo)) error {
	info, ok := om.objects.Get(name)
	if !ok {
		return objectNotFound(name)
	}
	fn(info)
	return nil
}

// SetActive sets whether the object takes part in update passes and receives
// messages. The change is seen by the next pass.
func (om *ObjectManager) SetActive(name string, active bool) error {
	return om.with(name, func(i *ObjectInfo) { i.Active = active })
}

// IsActive reports the manager's active flag for the object.
func (om *ObjectManager) IsActive(name string) (bool, error) {
	info, err := om.Info(name)
	if err != nil {
		return false, err
	}
	return info.Active, nil
}

// SetVisible sets whether the object takes part in draw passes.
func (om *ObjectManager) SetVisible(name string, visible bool) error {
	return om.with(name, func(i *ObjectInfo) { i.Visible = visible })
}

// IsVisible reports the manager's visible flag for the object.
func (om *ObjectManager) IsVisible(name string) (bool, error) {
	info, err := om.Info(name)
	if err != nil {
		return false, err
	}
	return info.Visible, nil
}

// SetUpdateIndex changes the update sort key.
func (om *ObjectManager) SetUpdateIndex(name string, index int) error {
	return om.with(name, func(i *ObjectInfo) { i.UpdateIndex = index })
}

// SetDrawIndex changes the draw sort key.
func (om *ObjectManager) SetDrawIndex(name string, index int) error {
	return om.with(name, func(i *ObjectInfo) { i.DrawIndex = index })
}

// AddToGroup makes the object a member of group.
func (om *ObjectManager) AddToGroup(name, group string) error {
	return om.with(name, func(i *ObjectInfo) { i.groups[group] = struct{}{} })
}

// RemoveFromGroup drops the object's membership of group.
func (om *ObjectManager) RemoveFromGroup(name, group string) error {
	return om.with(name, func(i *ObjectInfo) { delete(i.groups, group) })
}

// Groups returns the sorted group names of the object.
func (om *ObjectManager) Groups(name string) ([]string, error) {
	info, err := om.Info(name)
	if err != nil {
		return nil, err
	}
	return info.Groups(), nil
}

// GroupMembers returns the names of every member of group, active or not,
// in insertion order.
func (om *ObjectManager) GroupMembers(group string) []string {
	members := om.members(group)
	names := make([]string, len(members))
	for i, e := range members {
		names[i] = e.name
	}
	return names
}

// --- Frame info ---

// Frame returns the frame number of the current (or last) update pass.
func (om *ObjectManager) Frame() uint64 { return om.frame.Frame }

// Delta returns the time step of the current (or last) update pass.
func (om *ObjectManager) Delta() time.Duration { return om.frame.Delta }

// Updating reports whether an update pass is running.
func (om *ObjectManager) Updating() bool { return om.updating }

// --- Wiring ---

// SetHost installs the receiver of manager messages tagged "scene".
func (om *ObjectManager) SetHost(h Host) { om.host = h }

// SetEventSink installs a receiver for object lifecycle events.
func (om *ObjectManager) SetEventSink(sink EventSink) { om.sink = sink }

// SetDebugMode enables per-frame timing logs and size warnings.
func (om *ObjectManager) SetDebugMode(enabled bool) { om.debug = enabled }

// Clone returns a deep copy: every object is cloned with Clone, flags,
// indices, groups and state are copied. Queued work is not copied.
func (om *ObjectManager) Clone() *ObjectManager {
	c := NewObjectManager()
	for p := om.objects.Oldest(); p != nil; p = p.Next() {
		c.objects.Set(p.Key, p.Value.clone())
	}
	c.host = om.host
	c.debug = om.debug
	return c
}
