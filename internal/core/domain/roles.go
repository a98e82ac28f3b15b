package domain

import "regexp"

// Account roles. Role is assigned once at registration (from the PIN) and
// never changes afterwards. "pending" survives in old rows only; the
// resolver never produces it.
const (
	RoleSuperuser  = "superuser"
	RoleSupervisor = "supervisor"
	RoleCashier    = "cashier"
	RolePending    = "pending"
)

// Registration PINs. These literals are part of the client contract:
// the cashier and supervisor PINs are shared across accounts, the
// superuser PIN works exactly once system-wide.
const (
	PinCashier    = "3725"
	PinSupervisor = "2984"
	PinSuperuser  = "8101"
)

var pinFormat = regexp.MustCompile(`^\d{4}$`)

// ValidPinFormat reports whether pin is exactly 4 digits. ResolveRole
// requires this as a precondition.
func ValidPinFormat(pin string) bool {
	return pinFormat.MatchString(pin)
}

// ResolveRole maps a registration PIN to the role it grants.
// superuserExists must be re-read from the credential store at call time;
// a stale value reopens the single-superuser race.
//
// Unknown PINs fail with ErrPinNotRecognized — registration rejects them
// outright instead of parking the account in "pending".
func ResolveRole(pin string, superuserExists bool) (string, error) {
	switch pin {
	case PinCashier:
		return RoleCashier, nil
	case PinSupervisor:
		return RoleSupervisor, nil
	case PinSuperuser:
		if superuserExists {
			return "", ErrSuperuserExists
		}
		return RoleSuperuser, nil
	default:
		return "", ErrPinNotRecognized
	}
}
