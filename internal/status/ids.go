package status

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const sessionIDLength = 12

// placeholderPrefix names projects whose goal has not been confirmed yet.
const placeholderPrefix = "pending-"

// NewSessionID returns a fresh 12-character lowercase hex session id.
func NewSessionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:sessionIDLength]
}

// PlaceholderName is the project name used between workflow start and
// goal confirmation.
func PlaceholderName(sessionID string) string {
	return placeholderPrefix + sessionID
}

// NormalizeName turns a caller-supplied feature name into the slug used for
// the project directory. It fails when nothing usable remains.
func NormalizeName(name string) (string, error) {
	s := slug.Make(strings.TrimSpace(name))
	if s == "" {
		return "", invalidParameters(
			"Feature name is empty after normalization",
			"Use a short name made of letters, digits and hyphens, e.g. 'user-auth'",
		)
	}
	if strings.HasPrefix(s, placeholderPrefix) {
		return "", invalidParameters(
			"Feature name uses the reserved prefix '"+placeholderPrefix+"'",
			"Pick a name that does not start with '"+placeholderPrefix+"'",
		)
	}
	return s, nil
}
