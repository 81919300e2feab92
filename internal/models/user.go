package models

// AccountInfo is the display metadata returned by a sync call. It is
// rebuilt on every sync and never persisted.
type AccountInfo struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	IsDev     bool   `json:"is_dev"`
}

// MissingField is what an absent field in a lenient account payload
// renders as.
const MissingField = "null"

func (a *AccountInfo) GetName() string {
	if len(a.UserName) > 0 && a.UserName != MissingField {
		return a.UserName
	} else if len(a.UserEmail) > 0 && a.UserEmail != MissingField {
		return a.UserEmail
	}
	return "Unknown"
}
