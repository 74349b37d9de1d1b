package scheduler

// Sync runs tasks inline at Schedule time. For eager sessions, headless
// hosts and tests.
type Sync struct{}

var _ Scheduler = Sync{}

func (Sync) Schedule(task func()) *Handle {
	h := newHandle()
	h.run(task)
	return h
}
