package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_ScopeEmployee(t *testing.T) {
	own := "emp-1"

	tests := []struct {
		name      string
		principal Principal
		requested string
		want      string
		wantErr   error
	}{
		{name: "admin acts on requested employee", principal: Principal{Role: RoleAdmin}, requested: "emp-9", want: "emp-9"},
		{name: "employee is pinned to own id", principal: Principal{Role: RoleEmployee, EmployeeID: &own}, requested: "emp-9", want: "emp-1"},
		{name: "employee without id", principal: Principal{Role: RoleEmployee}, requested: "emp-9", wantErr: ErrEmployeeIDRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.principal.ScopeEmployee(tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrincipal_CanAccess(t *testing.T) {
	own := "emp-1"
	employee := Principal{Role: RoleEmployee, EmployeeID: &own}

	assert.True(t, employee.CanAccess("emp-1"))
	assert.False(t, employee.CanAccess("emp-2"))
	assert.True(t, Principal{Role: RoleAdmin}.CanAccess("emp-2"))
	assert.False(t, Principal{Role: RoleEmployee}.CanAccess(""))
	assert.False(t, Role("owner").Valid())
}
