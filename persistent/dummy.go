package persistent

// NewDummyStore creates new dummy store.
func NewDummyStore() *DummyStore {
	return &DummyStore{}
}

// DummyStore defines no-op store.
type DummyStore struct{}

// Write is a no-op implementation.
func (s *DummyStore) Write(_ []byte) error {
	return nil
}

// Sync does nothing.
func (s *DummyStore) Sync() error {
	return nil
}
