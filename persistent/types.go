package persistent

// Store is the destination of produced data.
type Store interface {
	Write(data []byte) error
	Sync() error
}
