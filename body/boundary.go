package body

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

var boundaryPrefix = strings.Repeat("-", 24)

// GenerateBoundary returns a fresh multipart boundary: 24 dashes followed by 16
// random hex digits. Part content is not checked for the token.
func GenerateBoundary() string {
	id := uuid.New()
	return boundaryPrefix + hex.EncodeToString(id[:8])
}
