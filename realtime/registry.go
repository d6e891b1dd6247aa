package realtime

import "sync"

// Conn is the part of a websocket connection the registry needs.
type Conn interface {
	Close() error
}

// Registry maps user ids to their live connection. The zero value is not
// usable; create one with NewRegistry.
type Registry struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register binds userID to conn, replacing any earlier connection.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()
}

// Unregister removes the mapping only while it still points at conn, so a
// stale socket closing after a reconnect leaves the new one in place.
func (r *Registry) Unregister(userID string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[userID]; ok && current == conn {
		delete(r.conns, userID)
		return true
	}
	return false
}

// lookup returns the connection registered for userID.
func (r *Registry) lookup(userID string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Count is the number of registered users.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
