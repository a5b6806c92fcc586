package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is bumped whenever the engine produces different positions for
// the same input, so entries written by older builds are never served.
const keyVersion = "v1"

// hashKey builds "<kind>:<version>:<sha256(parts)>".
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = []byte(fmt.Sprint(parts...))
	}
	return kind + ":" + keyVersion + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. Documents, layouts and file
// cache entry names are all identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
