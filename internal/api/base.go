package api

import "time"

// DefaultBaseURL is the single source of truth for the mentions API target.
const DefaultBaseURL = "https://local.hasura.local.nhost.run:444"

// NewDefaultClient builds a client pointed at the default mentions API URL.
func NewDefaultClient(timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, timeout...)
}
