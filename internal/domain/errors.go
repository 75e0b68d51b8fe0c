package domain

// Sentinel errors shared across layers. The HTTP adapter maps these to the
// response taxonomy; adapters wrap their underlying failures with them.
var (
	ErrNotFound   = errString("not found")
	ErrDataAccess = errString("data access failure")
)

type errString string

func (e errString) Error() string { return string(e) }
