package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		pin             string
		superuserExists bool
		wantRole        string
		wantErr         error
	}{
		{name: "cashier pin", pin: PinCashier, wantRole: RoleCashier},
		{name: "cashier pin ignores existing superuser", pin: PinCashier, superuserExists: true, wantRole: RoleCashier},
		{name: "supervisor pin", pin: PinSupervisor, wantRole: RoleSupervisor},
		{name: "superuser pin first time", pin: PinSuperuser, wantRole: RoleSuperuser},
		{name: "superuser pin already taken", pin: PinSuperuser, superuserExists: true, wantErr: ErrSuperuserExists},
		{name: "unknown pin", pin: "0000", wantErr: ErrPinNotRecognized},
		{name: "unknown pin close to cashier", pin: "3726", wantErr: ErrPinNotRecognized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			role, err := ResolveRole(tt.pin, tt.superuserExists)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, role)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

// The resolver must reject every PIN outside the fixed table; "pending"
// must never come out of it.
func TestResolveRole_NeverYieldsPending(t *testing.T) {
	t.Parallel()

	for _, pin := range []string{"0000", "1234", "9999", "8100", "8102"} {
		role, err := ResolveRole(pin, false)
		require.ErrorIs(t, err, ErrPinNotRecognized, "pin %s", pin)
		assert.NotEqual(t, RolePending, role)
	}
}

func TestValidPinFormat(t *testing.T) {
	t.Parallel()

	valid := []string{"0000", "3725", "9999"}
	invalid := []string{"", "372", "37255", "372a", "37 5", "-125", "37.5"}

	for _, pin := range valid {
		assert.True(t, ValidPinFormat(pin), "pin %q", pin)
	}
	for _, pin := range invalid {
		assert.False(t, ValidPinFormat(pin), "pin %q", pin)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidStatus(StatusActive))
	assert.True(t, ValidStatus(StatusInactive))
	assert.True(t, ValidStatus(StatusSuspended))
	assert.False(t, ValidStatus("deleted"))
	assert.False(t, ValidStatus(""))
}
