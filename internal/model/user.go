package model

// Author is the public projection of a user record. Users are owned by the
// upstream auth service; only ID is guaranteed to be set.
type Author struct {
	ID       int64
	Name     string
	Avatar   string
	Location string
}

// Actor is the authenticated user performing a request.
type Actor struct {
	ID   int64
	Name string
}

func (a Actor) IsZero() bool {
	return a.ID == 0
}

// Owns reports whether the actor is the given author.
func (a Actor) Owns(author Author) bool {
	return a.ID != 0 && a.ID == author.ID
}
