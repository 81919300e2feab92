package models

// Session is the account triplet handed back by the core authenticator.
// It is stored as opaque strings and never validated locally; the remote
// verifier is the only judge of whether it is still good.
type Session struct {
	AccountID string `json:"account_id" yaml:"account_id"`
	Signature string `json:"signature" yaml:"signature"`
	Token     string `json:"auth_token,omitempty" yaml:"token,omitempty"`
}

// IsSignedIn reports whether the session carries an account id. An empty
// account id is how a signed out state is represented on disk.
func (s *Session) IsSignedIn() bool {
	return s != nil && len(s.AccountID) > 0
}
