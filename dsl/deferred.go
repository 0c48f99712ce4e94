package dsl

// deferred is the finalize-time queue shared by every builder. Callbacks run in
// registration order, exactly once, at the start of Build.
type deferred struct {
	callbacks []func()
}

// drain runs and clears the queue. Callbacks registered while draining run in
// the same pass.
func (d *deferred) drain() {
	for len(d.callbacks) > 0 {
		fn := d.callbacks[0]
		d.callbacks = d.callbacks[1:]
		fn()
	}
	d.callbacks = nil
}

func (d *deferred) push(fn func()) {
	if fn != nil {
		d.callbacks = append(d.callbacks, fn)
	}
}

// Pending returns the number of callbacks waiting for Build.
func (d *deferred) Pending() int { return len(d.callbacks) }
