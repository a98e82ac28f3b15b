package domain

// Account status values
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Username constraints (trimmed before checking)
const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
)

// PasswordMinLen is the minimum accepted password length.
const PasswordMinLen = 6
