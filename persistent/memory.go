package persistent

// NewMemoryStore creates new in-memory store. Used for testing.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// MemoryStore defines in-memory store.
type MemoryStore struct {
	data   []byte
	synced int
}

// Write appends data to the store.
func (s *MemoryStore) Write(data []byte) error {
	s.data = append(s.data, data...)
	return nil
}

// Sync marks all the written data as synced.
func (s *MemoryStore) Sync() error {
	s.synced = len(s.data)
	return nil
}

// Bytes returns data written so far.
func (s *MemoryStore) Bytes() []byte {
	return s.data
}

// Synced returns data which has been synced.
func (s *MemoryStore) Synced() []byte {
	return s.data[:s.synced]
}
