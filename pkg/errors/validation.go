package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted at the API boundary.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidDocument, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "node id %q contains invalid control characters", id).WithNode(id)
		}
	}

	return nil
}

// ValidateCluster checks that a cluster tag is 0 (unassigned) or 1..5.
func ValidateCluster(id string, cluster int) error {
	if cluster < 0 || cluster > 5 {
		return New(ErrCodeInvalidDocument, "node %q: cluster %d out of range 1..5", id, cluster).WithNode(id)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed. An empty value is
// rejected; callers that want a default must substitute it first.
func ValidateChoice(code Code, kind, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s %q (valid: %s)", kind, value, strings.Join(allowed, ", "))
}

// ValidatePath validates a file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a connection URL. It ensures the URL uses one of the
// given schemes, for example "redis" or "mongodb+srv".
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
