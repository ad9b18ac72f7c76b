package models

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

type Page struct {
	Limit  int
	Offset int
}

// Normalize fills defaults and clamps the limit
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
