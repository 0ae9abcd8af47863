package client

import (
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/okta-tools/okta-aws/shared"
)

// legacyCookieHeader marks the on-disk cookie format written by older releases.  The
// session identifier is embedded in a sid="..." token instead of being stored raw.
const legacyCookieHeader = "#LWP-Cookies-2.0"

var legacySidPattern = regexp.MustCompile(`sid="([^"]*)"`)

// SessionCache persists the Okta session identifier between invocations so a still-valid
// session can be reused without logging in again.  The file holds a single line with the
// raw identifier, the legacy cookie format is read transparently but never written.
type SessionCache struct {
	Logger shared.Logger

	path string
}

// NewSessionCache creates a session cache at the given path ("~" expansion is applied).
func NewSessionCache(path string) (*SessionCache, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	return &SessionCache{Logger: new(shared.DefaultLogger), path: expanded}, nil
}

// Load returns the cached session identifier, or the empty string when the cache file is
// absent or its content can not be understood.
func (c *SessionCache) Load() string {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return ""
	}

	sessionId := strings.TrimRight(string(data), "\n")
	if strings.HasPrefix(sessionId, legacyCookieHeader) {
		c.Logger.Debugf("Converting old cookie file format")

		m := legacySidPattern.FindStringSubmatch(sessionId)
		if m == nil {
			c.Logger.Debugf("Didn't find session ID in old cookies")
			return ""
		}
		sessionId = m[1]
	}

	return sessionId
}

// Store overwrites the cache file with the provided session identifier.
func (c *SessionCache) Store(sessionId string) error {
	c.Logger.Debugf("Saving session cookie to %s", c.path)
	return os.WriteFile(c.path, []byte(sessionId), 0600)
}

// Clear removes the cache file.  Removing an absent file is not an error.
func (c *SessionCache) Clear() error {
	return os.RemoveAll(c.path)
}
