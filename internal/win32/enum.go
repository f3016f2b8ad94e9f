package win32

import "sync"

// ChildVisitor is called once per child window. Returning false stops the
// enumeration.
type ChildVisitor func(child HWND) bool

// enumRegistry hands out tokens for in-flight enumerations. The token travels
// through EnumChildWindows as lParam so one shared callback can find the
// visitor belonging to the calling query.
type enumRegistry struct {
	mu       sync.Mutex
	next     uintptr
	visitors map[uintptr]ChildVisitor
}

func newEnumRegistry() *enumRegistry {
	return &enumRegistry{visitors: make(map[uintptr]ChildVisitor)}
}

func (r *enumRegistry) register(v ChildVisitor) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	if r.next == 0 {
		r.next++
	}
	r.visitors[r.next] = v
	return r.next
}

func (r *enumRegistry) release(token uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.visitors, token)
}

// visit dispatches one child to the visitor for token. Unknown tokens stop
// the enumeration.
func (r *enumRegistry) visit(token uintptr, child HWND) bool {
	r.mu.Lock()
	v, ok := r.visitors[token]
	r.mu.Unlock()
	if !ok {
		return false
	}
	return v(child)
}

func (r *enumRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}
