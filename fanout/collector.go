package fanout

import "sync"

// Outcome is the result of one request. Err == nil means success.
type Outcome[Req, Res any] struct {
	// Index is the request's position in the input slice.
	Index   int
	Request Req
	Value   Res
	Err     error
}

// Ok reports whether the outcome is a success.
func (o Outcome[Req, Res]) Ok() bool { return o.Err == nil }

// Collector gathers outcomes from concurrent operations.
type Collector[Req, Res any] struct {
	mu       sync.Mutex
	ordering Ordering
	outcomes []Outcome[Req, Res]
	failed   int
	added    int
}

// NewCollector returns a collector sized for n outcomes.
func NewCollector[Req, Res any](n int, ordering Ordering) *Collector[Req, Res] {
	c := &Collector[Req, Res]{ordering: ordering}
	if ordering == Ordered {
		c.outcomes = make([]Outcome[Req, Res], n)
	} else {
		c.outcomes = make([]Outcome[Req, Res], 0, n)
	}
	return c
}

// Add records an outcome. In Ordered mode it lands at out.Index; in
// Unordered mode it is appended. Safe for concurrent use.
func (c *Collector[Req, Res]) Add(out Outcome[Req, Res]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ordering == Ordered {
		c.outcomes[out.Index] = out
	} else {
		c.outcomes = append(c.outcomes, out)
	}
	c.added++
	if out.Err != nil {
		c.failed++
	}
}

// Outcomes returns the collected outcomes. Call it after every Add returned.
func (c *Collector[Req, Res]) Outcomes() []Outcome[Req, Res] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcomes
}

// Succeeded returns the number of successful outcomes added so far.
func (c *Collector[Req, Res]) Succeeded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.added - c.failed
}

// Failed returns the number of failed outcomes added so far.
func (c *Collector[Req, Res]) Failed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// Values returns the values of the successful outcomes, in slice order.
func Values[Req, Res any](outcomes []Outcome[Req, Res]) []Res {
	vals := make([]Res, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

// Errors returns the failures keyed by request index.
func Errors[Req, Res any](outcomes []Outcome[Req, Res]) map[int]error {
	errs := make(map[int]error)
	for _, o := range outcomes {
		if o.Err != nil {
			errs[o.Index] = o.Err
		}
	}
	return errs
}
