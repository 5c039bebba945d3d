package gl

import "strings"

// MaxNameLength is the longest attribute or uniform name WebGL accepts.
const MaxNameLength = 256

var reservedPrefixes = []string{"gl_", "webgl_", "_webgl_"}

// CheckName classifies a shader variable name the way BindAttribLocation
// validates it. It returns [NoError] for a usable name, [InvalidValue] for an
// empty, overlong or malformed name, and [InvalidOperation] for a name with a
// reserved prefix.
func CheckName(name string) Enum {
	if name == "" || len(name) > MaxNameLength {
		return InvalidValue
	}

	for i := range len(name) {
		c := name[i]

		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return InvalidValue
			}
		default:
			return InvalidValue
		}
	}

	if IsReservedName(name) {
		return InvalidOperation
	}

	return NoError
}

// IsReservedName reports whether name starts with a prefix reserved for
// built-in variables.
func IsReservedName(name string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}
