package models

// Session is the client-held proof of authentication.
type Session struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// Valid is false for a session that must not be attached to requests.
func (s Session) Valid() bool {
	return s.Token != "" && s.Role.Valid()
}
