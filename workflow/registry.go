package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultIdleTTL is how long an idle workflow stays in the registry
const DefaultIdleTTL = 30 * time.Minute

type registryKey struct {
	session string
	kind    Kind
}

type registryEntry struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry keeps one controller per user session and workflow kind
type Registry struct {
	mu            sync.Mutex
	entries       map[registryKey]*registryEntry
	newController func(kind Kind) *Controller
	idleTTL       time.Duration
	now           func() time.Time
}

func NewRegistry(newController func(kind Kind) *Controller) *Registry {
	return &Registry{
		entries:       make(map[registryKey]*registryEntry),
		newController: newController,
		idleTTL:       DefaultIdleTTL,
		now:           time.Now,
	}
}

// NewDefaultRegistry builds controllers sharing the same dependencies
func NewDefaultRegistry(deps Dependencies) *Registry {
	return NewRegistry(func(kind Kind) *Controller {
		return NewController(kind, deps)
	})
}

// WithIdleTTL sets how long a draft or finished workflow may sit untouched
// before Evict drops it. A non-positive ttl keeps the default.
func (r *Registry) WithIdleTTL(ttl time.Duration) *Registry {
	if ttl > 0 {
		r.mu.Lock()
		r.idleTTL = ttl
		r.mu.Unlock()
	}
	return r
}

// Get returns the controller for the session, creating it on first use
func (r *Registry) Get(sessionKey string, kind Kind) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{session: sessionKey, kind: kind}
	e, ok := r.entries[key]
	if !ok {
		e = &registryEntry{controller: r.newController(kind)}
		r.entries[key] = e
	}
	e.lastSeen = r.now()
	return e.controller
}

// Len returns the number of live workflows
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict closes workflows in draft or a terminal phase that have been idle
// longer than the ttl. Workflows waiting on the ledger or on the user's
// contact details are kept. It returns the number of evicted workflows.
func (r *Registry) Evict(now time.Time) int {
	r.mu.Lock()
	var evicted []*Controller
	for key, e := range r.entries {
		st := e.controller.State()
		if st.Busy() || !(st.Phase == PhaseDraft || st.Phase.Terminal()) {
			continue
		}
		last := e.lastSeen
		if st.UpdatedAt.After(last) {
			last = st.UpdatedAt
		}
		if now.Sub(last) < r.idleTTL {
			continue
		}
		delete(r.entries, key)
		evicted = append(evicted, e.controller)
	}
	r.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	return len(evicted)
}

// Run evicts idle workflows every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Evict(now); n > 0 {
				log.Debug().Int("evicted", n).Msg("dropped idle workflows")
			}
		}
	}
}

// Close abandons every workflow
func (r *Registry) Close() {
	r.mu.Lock()
	controllers := make([]*Controller, 0, len(r.entries))
	for _, e := range r.entries {
		controllers = append(controllers, e.controller)
	}
	r.entries = make(map[registryKey]*registryEntry)
	r.mu.Unlock()

	for _, c := range controllers {
		c.Close()
	}
}
