package domain

// Session is the credential pair a client persists after login.
type Session struct {
	Token string
	Role  string
}

// Complete reports whether both the token and the role are present.
func (s Session) Complete() bool {
	return s.Token != "" && s.Role != ""
}
