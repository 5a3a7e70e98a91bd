package types

// UserData is the identity resolved for a credential key at authentication
// time. CanUpdate is a transport-only capability hint: it gates writes for
// the session that carries it and is stripped before a creator is persisted.
type UserData struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	ORCID     string `json:"orcid"`
	CanUpdate bool   `json:"canUpdate,omitempty"`
}

// Stored returns a copy suitable for persistence, with the update-capability
// flag cleared. With omitempty the flag never reaches the creator column.
func (u UserData) Stored() UserData {
	u.CanUpdate = false
	return u
}

// userDataFromMap extracts the known identity fields from a decoded JSON
// object. Unknown fields are dropped.
func userDataFromMap(m map[string]any) UserData {
	var u UserData
	if s, ok := m["name"].(string); ok {
		u.Name = s
	}
	if s, ok := m["email"].(string); ok {
		u.Email = s
	}
	if s, ok := m["orcid"].(string); ok {
		u.ORCID = s
	}
	if b, ok := m["canUpdate"].(bool); ok {
		u.CanUpdate = b
	}
	return u
}
