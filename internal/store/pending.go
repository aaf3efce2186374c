package store

// Pending is the future for an optimistic mutation's remote leg. The
// local effect is already visible when a Pending is handed out; Err
// blocks until the remote store confirms or the rollback has been
// applied.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the remote outcome is known.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err blocks until the remote outcome is known and returns the remote
// error, nil on confirmation. A non-nil error means the local effect
// has already been rolled back.
func (p *Pending) Err() error {
	<-p.done
	return p.err
}
