package ports

// IDGenerator hands out catalog entry identifiers.
type IDGenerator interface {
	NewID() string
}
