package inventory

import (
	"testing"
	"time"

	"stocktake/pkg/models"
	"stocktake/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)

func newTestSessionService(sessions *MockSessionStore, items *MockItemStore, catalog *MockAssetCatalog) *SessionService {
	return &SessionService{
		sessions: sessions,
		items:    items,
		catalog:  catalog,
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
		now: func() time.Time { return fixedNow },
	}
}

func employeeActor() models.Actor {
	return models.Actor{ID: 7, Username: "worker", Role: roles.Employee}
}

func supervisorActor() models.Actor {
	return models.Actor{ID: 20, Username: "super", Role: roles.Supervisor}
}

func adminActor() models.Actor {
	return models.Actor{ID: 1, Username: "boss", Role: roles.Admin}
}

func sessionInState(status models.SessionStatus) *models.InventorySession {
	region, city, building := 1, 2, 3
	return &models.InventorySession{
		ID:         42,
		EmployeeID: 7,
		RegionID:   &region,
		CityID:     &city,
		BuildingID: &building,
		Status:     status,
	}
}

func TestStartSessionSnapshotsBuildingAssets(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestSessionService(sessions, items, catalog)

	catalog.On("ListAssetsByLocation", 1, 2, 3).Return([]models.Asset{
		{ID: 100, Barcode: "BC-100"},
		{ID: 101, Barcode: "BC-101"},
	}, nil).Once()

	sessions.On("InsertSession", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		session := args.Get(1).(*models.InventorySession)
		session.ID = 42
	}).Return(nil).Once()

	var snapshot []models.InventoryItem
	items.On("InsertItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		snapshot = args.Get(1).([]models.InventoryItem)
	}).Return(nil).Once()

	session, err := service.StartSession(employeeActor(), StartSessionRequest{RegionID: 1, CityID: 2, BuildingID: 3})

	assert.NoError(t, err)
	assert.Equal(t, 42, session.ID)
	assert.Equal(t, models.StatusInProgress, session.Status)
	assert.Len(t, snapshot, 2)
	for _, item := range snapshot {
		assert.Equal(t, 42, item.SessionID)
		assert.Equal(t, models.ItemMissing, item.Status)
		assert.False(t, item.AddedManually)
	}

	sessions.AssertExpectations(t)
	items.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestStartSessionRequiresFullLocation(t *testing.T) {
	service := newTestSessionService(new(MockSessionStore), new(MockItemStore), new(MockAssetCatalog))

	_, err := service.StartSession(employeeActor(), StartSessionRequest{RegionID: 1, CityID: 2})

	assert.ErrorIs(t, err, ErrLocationRequired)
}

func TestStartSessionForbiddenForSupervisor(t *testing.T) {
	service := newTestSessionService(new(MockSessionStore), new(MockItemStore), new(MockAssetCatalog))

	_, err := service.StartSession(supervisorActor(), StartSessionRequest{RegionID: 1, CityID: 2, BuildingID: 3})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitClosesScanningAndStampsEndTime(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	sessions.On("UpdateSession", 42, goqu.Record{
		"status":   models.StatusSubmitted,
		"end_time": fixedNow,
	}).Return(nil).Once()
	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSubmitted), nil).Once()

	session, err := service.Submit(employeeActor(), 42, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, session.Status)
	sessions.AssertExpectations(t)
}

func TestSubmitRejectedOnceAlreadySubmitted(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSubmitted), nil).Once()

	_, err := service.Submit(employeeActor(), 42, nil)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitForbiddenForOtherEmployee(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()

	stranger := models.Actor{ID: 99, Username: "other", Role: roles.Employee}
	_, err := service.Submit(stranger, 42, nil)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSupervisorApproveRecordsReviewer(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSubmitted), nil).Once()
	sessions.On("UpdateSession", 42, goqu.Record{
		"status":        models.StatusSupervisorApproved,
		"supervisor_id": 20,
	}).Return(nil).Once()
	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSupervisorApproved), nil).Once()

	session, err := service.SupervisorApprove(supervisorActor(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusSupervisorApproved, session.Status)
	sessions.AssertExpectations(t)
}

func TestSupervisorRejectRequiresComment(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSubmitted), nil).Once()

	_, err := service.SupervisorReject(supervisorActor(), 42, "   ")

	assert.ErrorIs(t, err, ErrCommentRequired)
	sessions.AssertNotCalled(t, "UpdateSession", mock.Anything, mock.Anything)
}

func TestSupervisorCannotApproveDraft(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusDraft), nil).Once()

	_, err := service.SupervisorApprove(supervisorActor(), 42)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminApproveOnlyAfterSupervisor(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSubmitted), nil).Once()

	_, err := service.AdminApprove(adminActor(), 42, nil)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteRequiresAdmin(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusAdminApproved), nil).Once()

	_, err := service.Complete(supervisorActor(), 42)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelStampsEndTimeWhenStillOpen(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	sessions.On("UpdateSession", 42, goqu.Record{
		"status":   models.StatusCancelled,
		"end_time": fixedNow,
	}).Return(nil).Once()
	sessions.On("GetSession", 42).Return(sessionInState(models.StatusCancelled), nil).Once()

	session, err := service.Cancel(employeeActor(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, session.Status)
	sessions.AssertExpectations(t)
}

func TestCancelRejectedOnTerminalSession(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusCompleted), nil).Once()

	_, err := service.Cancel(employeeActor(), 42)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReopenClearsReviewState(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSupervisorRejected), nil).Once()
	sessions.On("UpdateSession", 42, goqu.Record{
		"status":             models.StatusInProgress,
		"end_time":           nil,
		"supervisor_id":      nil,
		"supervisor_comment": nil,
	}).Return(nil).Once()
	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()

	session, err := service.Reopen(adminActor(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, session.Status)
	sessions.AssertExpectations(t)
}

func TestReopenForbiddenForEmployee(t *testing.T) {
	service := newTestSessionService(new(MockSessionStore), new(MockItemStore), new(MockAssetCatalog))

	_, err := service.Reopen(employeeActor(), 42)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteMissingSession(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("DeleteSession", 42).Return(0, nil).Once()

	err := service.Delete(adminActor(), 42)

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListPendingReviewUsesCanonicalStatus(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestSessionService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("ListSessionsByStatus", models.StatusSubmitted).
		Return([]models.InventorySession{*sessionInState(models.StatusSubmitted)}, nil).Once()

	pending, err := service.ListPendingReview(supervisorActor())

	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	sessions.AssertExpectations(t)
}

func TestDashboardAggregatesCounts(t *testing.T) {
	sessions := new(MockSessionStore)
	catalog := new(MockAssetCatalog)
	service := newTestSessionService(sessions, new(MockItemStore), catalog)

	sessions.On("CountSessionsByStatus").Return(map[models.SessionStatus]int{
		models.StatusInProgress: 3,
		models.StatusSubmitted:  2,
		models.StatusCompleted:  5,
	}, nil).Once()
	catalog.On("CountAssets").Return(120, nil).Once()

	dashboard, err := service.Dashboard(adminActor())

	assert.NoError(t, err)
	assert.Equal(t, 2, dashboard.PendingReview)
	assert.Equal(t, 120, dashboard.TotalAssets)
	assert.Equal(t, 3, dashboard.Sessions[models.StatusInProgress])
}
