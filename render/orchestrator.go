package render

type rendererEntry struct {
	renderer Renderer
	priority Priority
}

// Orchestrator paints registered renderers in priority order each frame
type Orchestrator struct {
	term      *Terminal
	renderers []rendererEntry
}

// NewOrchestrator creates an orchestrator drawing through term
func NewOrchestrator(term *Terminal) *Orchestrator {
	return &Orchestrator{
		term:      term,
		renderers: make([]rendererEntry, 0, 16),
	}
}

// Register adds a renderer at the specified priority. Maintains sorted order via insertion sort,
// equal priorities render in registration order
func (o *Orchestrator) Register(r Renderer, priority Priority) {
	entry := rendererEntry{renderer: r, priority: priority}

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Len returns the number of registered renderers
func (o *Orchestrator) Len() int {
	return len(o.renderers)
}

// Terminal returns the render surface
func (o *Orchestrator) Terminal() *Terminal {
	return o.term
}

// RenderFrame runs one draw cycle over all visible renderers
func (o *Orchestrator) RenderFrame() error {
	return o.term.Draw(func(f *Frame) error {
		for _, entry := range o.renderers {
			// Skip if renderer implements VisibilityToggle and is not visible
			if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
				continue
			}
			entry.renderer.Render(f)
		}
		return nil
	})
}
