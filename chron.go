package stitch

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/stitchlang/stitch/internal/panicerr"
)

var intervalPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

var intervalUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseInterval converts an interval spec like "5s", "10m", "2h", or "1d"
// into a duration. Anything else is an IntervalError.
func ParseInterval(spec string) (time.Duration, error) {
	m := intervalPattern.FindStringSubmatch(spec)
	if m == nil {
		return 0, IntervalError(spec)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, IntervalError(spec)
	}
	return time.Duration(n) * intervalUnits[m[2]], nil
}

// chron is a named recurring timer. Each tick emits a "chron:<name>" event
// through the runtime's event registry.
type chron struct {
	name     string
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

func (c *chron) stop() {
	c.ticker.Stop()
	close(c.done)
}

func (c *chron) run(rt *Runtime) {
	for {
		select {
		case <-c.done:
			return
		case t := <-c.ticker.C:
			// a panicking host handler must not kill the timer
			if err := panicerr.Recover("chron "+c.name, func() error {
				rt.Emit("chron:"+c.name, map[string]any{
					"name": c.name,
					"time": t,
				})
				return nil
			}); err != nil {
				rt.logf("chron %v: %v", c.name, err)
			}
		}
	}
}

// StartChron registers a repeating timer under name. Starting a name that
// is already running stops the old timer first: there is at most one live
// timer per name.
func (rt *Runtime) StartChron(name, spec string) error {
	d, err := ParseInterval(spec)
	if err != nil {
		return err
	}
	rt.startChron(name, d)
	return nil
}

func (rt *Runtime) startChron(name string, d time.Duration) {
	rt.chronMu.Lock()
	defer rt.chronMu.Unlock()
	if old, ok := rt.chrons[name]; ok {
		old.stop()
	}
	c := &chron{
		name:     name,
		interval: d,
		ticker:   time.NewTicker(d),
		done:     make(chan struct{}),
	}
	rt.chrons[name] = c
	rt.logf("chron start %v every %v", name, d)
	go c.run(rt)
}

// StopChron cancels and removes the named chron; absent names are a no-op.
func (rt *Runtime) StopChron(name string) {
	rt.chronMu.Lock()
	defer rt.chronMu.Unlock()
	if c, ok := rt.chrons[name]; ok {
		c.stop()
		delete(rt.chrons, name)
		rt.logf("chron stop %v", name)
	}
}

// StopAllChrons cancels every chron. Close calls this on disposal.
func (rt *Runtime) StopAllChrons() {
	rt.chronMu.Lock()
	defer rt.chronMu.Unlock()
	for name, c := range rt.chrons {
		c.stop()
		delete(rt.chrons, name)
	}
}

// Chrons returns the names of live chrons, sorted.
func (rt *Runtime) Chrons() []string {
	rt.chronMu.Lock()
	defer rt.chronMu.Unlock()
	names := make([]string, 0, len(rt.chrons))
	for name := range rt.chrons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
