package vango

// SetValue sets a value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValueLocal returns the value stored on this Owner only, without
// walking up the hierarchy.
func (o *Owner) GetValueLocal(key any) any {
	o.valuesMu.RLock()
	defer o.valuesMu.RUnlock()
	return o.values[key]
}

// LookupValue retrieves a value from this Owner or the nearest ancestor that
// has one. The boolean reports whether any owner in the chain set the key.
func (o *Owner) LookupValue(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// GetValue retrieves a value from this Owner or its parents.
// Returns nil if no owner in the chain has the key.
func (o *Owner) GetValue(key any) any {
	v, _ := o.LookupValue(key)
	return v
}
