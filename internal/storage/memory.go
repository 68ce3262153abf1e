package storage

// Memory is a slot that lives only as long as the process. Tests use it,
// and FailWrites lets them simulate a broken disk.
type Memory struct {
	name       string
	value      []byte
	set        bool
	Writes     int
	FailWrites error
}

func NewMemory(name string) *Memory {
	return &Memory{name: name}
}

func (m *Memory) Name() string { return m.name }
func (m *Memory) Close() error { return nil }

func (m *Memory) Read() ([]byte, error) {
	if !m.set {
		return nil, ErrNoValue
	}
	out := make([]byte, len(m.value))
	copy(out, m.value)
	return out, nil
}

func (m *Memory) Write(value []byte) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.value = append(m.value[:0], value...)
	m.set = true
	m.Writes++
	return nil
}
