package common

import (
	"net/url"
)

func IsValidURL(rawurl string) bool {
	u, err := url.ParseRequestURI(rawurl)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 0 && len(u.Host) > 0
}
