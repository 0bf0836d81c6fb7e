// panel/registry.go

package panel

// Registry tracks constructed displays by small integer index so code
// elsewhere in the system can target a physical display without holding
// a direct reference. It is append-only: displays live for the life of
// the process and are never removed. Like Display it expects
// single-goroutine, cooperative use.
type Registry struct {
	displays []*Display
}

// Add appends d and returns its index.
func (r *Registry) Add(d *Display) int {
	r.displays = append(r.displays, d)
	return len(r.displays) - 1
}

// Get returns the display at index, or nil when no such display exists.
func (r *Registry) Get(index int) *Display {
	if index < 0 || index >= len(r.displays) {
		return nil
	}
	return r.displays[index]
}

// Len returns the number of registered displays.
func (r *Registry) Len() int { return len(r.displays) }

// Poll drives one render micro-step on every registered display. A
// scheduling loop with several physical displays calls this instead of
// polling each one.
func (r *Registry) Poll() {
	for _, d := range r.displays {
		d.Poll()
	}
}
