package entity

// Manager allocates entities. Freed slots are reused in FIFO order with their
// generation bumped, so a stale id never aliases the new occupant.
//
// Manager is not safe for concurrent use; it is owned by the UI goroutine.
type Manager struct {
	generations []uint32
	alive       []bool
	free        []uint32
	head        int
	live        int
}

// NewManager creates an empty entity manager.
func NewManager() *Manager {
	return &Manager{}
}

// Create allocates an entity, reusing the oldest freed slot if any.
func (m *Manager) Create() Entity {
	if m.head < len(m.free) {
		index := m.free[m.head]
		m.head++
		if m.head == len(m.free) {
			m.free = m.free[:0]
			m.head = 0
		}
		m.alive[index] = true
		m.live++
		return newEntity(index, m.generations[index])
	}
	index := uint32(len(m.generations))
	m.generations = append(m.generations, 1)
	m.alive = append(m.alive, true)
	m.live++
	return newEntity(index, 1)
}

// Destroy frees e and bumps its slot generation. Destroying a dead or stale
// entity is a no-op and returns false.
func (m *Manager) Destroy(e Entity) bool {
	if !m.IsAlive(e) {
		return false
	}
	index := e.Index()
	gen := m.generations[index] + 1
	if gen == 0 {
		gen = 1
	}
	m.generations[index] = gen
	m.alive[index] = false
	m.free = append(m.free, index)
	m.live--
	return true
}

// IsAlive reports whether e refers to a live entity with a current generation.
func (m *Manager) IsAlive(e Entity) bool {
	if e.IsNull() {
		return false
	}
	index := e.Index()
	if int(index) >= len(m.generations) {
		return false
	}
	return m.alive[index] && m.generations[index] == e.Generation()
}

// Current returns the live entity occupying index, or Null.
func (m *Manager) Current(index uint32) Entity {
	if int(index) >= len(m.generations) || !m.alive[index] {
		return Null
	}
	return newEntity(index, m.generations[index])
}

// Len returns the number of live entities.
func (m *Manager) Len() int {
	return m.live
}

// Cap returns the number of allocated slots, live or free.
func (m *Manager) Cap() int {
	return len(m.generations)
}
