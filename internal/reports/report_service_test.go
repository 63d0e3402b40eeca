package reports

import (
	"bytes"
	"testing"

	"stocktake/pkg/models"
	"stocktake/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) GetSessionItems(sessionID int) ([]ItemRow, error) {
	args := m.Called(sessionID)
	return args.Get(0).([]ItemRow), args.Error(1)
}

func (m *MockReportStore) GetAllSessions() ([]SessionRow, error) {
	args := m.Called()
	return args.Get(0).([]SessionRow), args.Error(1)
}

type MockSessionGetter struct {
	mock.Mock
}

func (m *MockSessionGetter) GetSession(sessionID int) (*models.InventorySession, error) {
	args := m.Called(sessionID)
	if session, ok := args.Get(0).(*models.InventorySession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func str(s string) *string { return &s }

func TestSessionReportRoundTrip(t *testing.T) {
	store := new(MockReportStore)
	sessions := new(MockSessionGetter)
	service := NewReportService(store, sessions)

	sessions.On("GetSession", 42).
		Return(&models.InventorySession{ID: 42, EmployeeID: 7, Status: models.StatusCompleted}, nil).Once()
	store.On("GetSessionItems", 42).Return([]ItemRow{
		{Barcode: "BC-100", AssetCode: str("AC-100"), Description: str("Desk"), Status: "found", ScannedAt: str("2026-05-01 10:30:00")},
		{Barcode: "BC-101", Status: "missing"},
		{Barcode: "BC-999", Status: "new", AddedManually: true, Notes: str("found in corridor")},
	}, nil).Once()

	owner := models.Actor{ID: 7, Username: "worker", Role: roles.Employee}
	data, filename, err := service.SessionReport(owner, 42)

	assert.NoError(t, err)
	assert.Equal(t, "session_42_report.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Session Items")
	assert.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, sessionItemHeaders, rows[0])
	assert.Equal(t, "BC-100", rows[1][1])
	assert.Equal(t, "found", rows[1][3])
	assert.Equal(t, "BC-101", rows[2][1])
	assert.Equal(t, "missing", rows[2][3])
	assert.Equal(t, "true", rows[3][5])
	assert.Equal(t, "found in corridor", rows[3][6])
}

func TestSessionReportForbiddenForOtherEmployee(t *testing.T) {
	sessions := new(MockSessionGetter)
	service := NewReportService(new(MockReportStore), sessions)

	sessions.On("GetSession", 42).
		Return(&models.InventorySession{ID: 42, EmployeeID: 7}, nil).Once()

	stranger := models.Actor{ID: 99, Username: "other", Role: roles.Employee}
	_, _, err := service.SessionReport(stranger, 42)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSessionReportMissingSession(t *testing.T) {
	sessions := new(MockSessionGetter)
	service := NewReportService(new(MockReportStore), sessions)

	sessions.On("GetSession", 42).Return(nil, nil).Once()

	admin := models.Actor{ID: 1, Role: roles.Admin}
	_, _, err := service.SessionReport(admin, 42)

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsBackupAdminOnly(t *testing.T) {
	service := NewReportService(new(MockReportStore), new(MockSessionGetter))

	supervisor := models.Actor{ID: 20, Role: roles.Supervisor}
	_, _, err := service.SessionsBackup(supervisor)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSessionsBackupIncludesStatusCounts(t *testing.T) {
	store := new(MockReportStore)
	service := NewReportService(store, new(MockSessionGetter))

	store.On("GetAllSessions").Return([]SessionRow{
		{
			ID: 1, EmployeeID: 7, Status: "completed",
			StartTime:  "2026-05-01 09:00:00",
			RegionName: str("West"), CityName: str("Jeddah"), BuildingName: str("HQ"),
			FoundCount: 12, MissingCount: 3, NewCount: 1,
		},
	}, nil).Once()

	admin := models.Actor{ID: 1, Role: roles.Admin}
	data, filename, err := service.SessionsBackup(admin)

	assert.NoError(t, err)
	assert.Equal(t, "sessions_backup.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sessions")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "12", rows[1][8])
	assert.Equal(t, "3", rows[1][9])
	assert.Equal(t, "1", rows[1][10])
}
