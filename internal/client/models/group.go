package models

// Group is a shared transaction group. Members holds member identifiers
// (user ids or invite emails); the creator's id is always among them.
// Groups are local to the session and never synced to the server.
type Group struct {
	ID        string
	Name      string
	Members   []string
	CreatedBy string
}

// HasMember reports whether the given identifier is in the member list.
func (g Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}
