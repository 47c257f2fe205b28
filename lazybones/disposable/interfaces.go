package disposable

// Disposable releases a registration. Dispose is idempotent.
type Disposable interface {
	Dispose()
}
