package stoplist

// Manager holds a set of tags to drop from the final list
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[s] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a tag is ignored. A nil manager ignores nothing.
func (m *Manager) IsStop(tag string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[tag]
	return ok
}

// Len returns the number of ignored tags
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.stops)
}

// Filter returns tags with every ignored entry removed, order kept.
// Membership is verbatim: no case folding or trimming.
func (m *Manager) Filter(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		if !m.IsStop(t) {
			result = append(result, t)
		}
	}
	return result
}
