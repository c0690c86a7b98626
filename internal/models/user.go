package models

// User is the only persisted entity. Name is nil when the row was created
// without a name and is stored as NULL.
type User struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

// DisplayName returns the name, or "" for a NULL name.
func (u User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}
