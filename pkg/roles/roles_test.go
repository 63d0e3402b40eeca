package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHierarchyOrdering(t *testing.T) {
	assert.True(t, Admin.HasPermission(Supervisor))
	assert.True(t, Admin.HasPermission(Employee))
	assert.True(t, Supervisor.HasPermission(Employee))
	assert.True(t, Employee.HasPermission(Employee))

	assert.False(t, Employee.HasPermission(Supervisor))
	assert.False(t, Supervisor.HasPermission(Admin))
}

func TestUnknownRoleTreatedAsLowestLevel(t *testing.T) {
	unknown := Role("intern")

	assert.False(t, unknown.IsValid())
	assert.Equal(t, EmployeeLevel, unknown.GetHierarchyLevel())
	assert.False(t, unknown.HasPermission(Supervisor))
}

func TestIsValid(t *testing.T) {
	assert.True(t, Employee.IsValid())
	assert.True(t, Supervisor.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("").IsValid())
}
