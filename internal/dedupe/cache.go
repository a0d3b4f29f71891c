// ABOUTME: TTL-bounded set of form nonces that have already been applied.
// ABOUTME: Lets the web UI ignore a form that is submitted twice.

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// DefaultMaxSize caps how many nonces a Guard remembers.
const DefaultMaxSize = 10_000

type claim struct {
	at      time.Time
	element *list.Element
}

// Guard remembers nonces for a fixed window. Claiming a nonce a second time
// inside the window fails. The oldest claims are evicted once maxSize is
// reached.
type Guard struct {
	mu      sync.Mutex
	claims  map[string]*claim
	order   *list.List // oldest at front
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	done    chan struct{}
	closed  bool
}

// New creates a Guard and starts its cleanup goroutine. A maxSize of zero or
// less uses DefaultMaxSize.
func New(ttl time.Duration, maxSize int) *Guard {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	g := &Guard{
		claims:  make(map[string]*claim),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go g.cleanup()
	return g
}

// Claim records nonce as applied. It returns false when the nonce was
// already claimed and has not expired, in which case nothing changes.
// The empty nonce is always accepted and never recorded.
func (g *Guard) Claim(nonce string) bool {
	if nonce == "" {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if c, ok := g.claims[nonce]; ok {
		if now.Sub(c.at) < g.ttl {
			return false
		}
		g.order.Remove(c.element)
		delete(g.claims, nonce)
	}

	if len(g.claims) >= g.maxSize {
		g.evictOldest()
	}

	g.claims[nonce] = &claim{at: now, element: g.order.PushBack(nonce)}
	return true
}

// Release forgets nonce so it can be claimed again. Used when the action a
// nonce guarded did not take effect.
func (g *Guard) Release(nonce string) {
	if nonce == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.claims[nonce]; ok {
		g.order.Remove(c.element)
		delete(g.claims, nonce)
	}
}

// Applied reports whether nonce is currently claimed.
func (g *Guard) Applied(nonce string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.claims[nonce]
	return ok && g.now().Sub(c.at) < g.ttl
}

// Len returns the number of remembered nonces, expired ones included until
// the next sweep.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claims)
}

// evictOldest must be called with mu held.
func (g *Guard) evictOldest() {
	front := g.order.Front()
	if front == nil {
		return
	}
	nonce, _ := front.Value.(string)
	g.order.Remove(front)
	delete(g.claims, nonce)
}

func (g *Guard) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sweep()
		case <-g.done:
			return
		}
	}
}

// sweep drops expired claims. Claims are stored in time order, so it stops
// at the first live one.
func (g *Guard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for e := g.order.Front(); e != nil; {
		nonce, _ := e.Value.(string)
		c := g.claims[nonce]
		if c != nil && now.Sub(c.at) < g.ttl {
			return
		}
		next := e.Next()
		g.order.Remove(e)
		delete(g.claims, nonce)
		e = next
	}
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.closed {
		close(g.done)
		g.closed = true
	}
}
