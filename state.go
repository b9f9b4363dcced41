package greenmoon

// The state side channel is a per-object key/value store kept by the
// manager, independent of the object's own fields. It lets objects tag each
// other ("current_target" = true) without the Object interface growing a
// getter for every possible tag.

// GetStateProperty returns the value stored under key for the named object,
// or None when the key is unset.
func (om *ObjectManager) GetStateProperty(name, key string) (Value, error) {
	info, err := om.Info(name)
	if err != nil {
		return None(), err
	}
	return info.state[key], nil
}

// SetStateProperty stores v under key for the named object.
func (om *ObjectManager) SetStateProperty(name, key string, v Value) error {
	return om.with(name, func(i *ObjectInfo) {
		if i.state == nil {
			i.state = make(map[string]Value)
		}
		i.state[key] = v
	})
}

// RemoveStateProperty deletes key from the named object's state.
func (om *ObjectManager) RemoveStateProperty(name, key string) error {
	return om.with(name, func(i *ObjectInfo) { delete(i.state, key) })
}

// FindByState returns, in insertion order, the names of objects whose state
// holds a value equal to v under key.
func (om *ObjectManager) FindByState(key string, v Value) []string {
	var names []string
	for p := om.objects.Oldest(); p != nil; p = p.Next() {
		if sv, ok := p.Value.state[key]; ok && sv.Equal(v) {
			names = append(names, p.Key)
		}
	}
	return names
}
