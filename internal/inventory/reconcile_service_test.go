package inventory

import (
	"testing"
	"time"

	"stocktake/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestReconcileService(sessions *MockSessionStore, items *MockItemStore, catalog *MockAssetCatalog) *ReconcileService {
	return &ReconcileService{
		sessions: sessions,
		items:    items,
		catalog:  catalog,
		now:      func() time.Time { return fixedNow },
	}
}

func TestScanMarksExpectedItemFound(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, items, catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	items.On("FindItemByBarcode", 42, "BC-100").
		Return(&models.InventoryItem{ID: 9, SessionID: 42, Barcode: "BC-100", Status: models.ItemMissing}, nil).Once()
	items.On("MarkItemFound", 9, fixedNow).Return(nil).Once()

	result, err := service.Scan(employeeActor(), 42, " BC-100 ")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeFoundExpected, result.Outcome)
	assert.Equal(t, "BC-100", result.Barcode)
	assert.Equal(t, 9, result.ItemID)
	items.AssertExpectations(t)
}

func TestScanUnlistedCatalogAssetJoinsSession(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, items, catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	items.On("FindItemByBarcode", 42, "BC-200").Return(nil, nil).Once()
	catalog.On("FindAssetByBarcode", "BC-200").
		Return(&models.Asset{ID: 200, Barcode: "BC-200", Description: "Projector"}, nil).Once()

	var inserted *models.InventoryItem
	items.On("InsertItem", mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(0).(*models.InventoryItem)
		inserted.ID = 77
	}).Return(nil).Once()

	result, err := service.Scan(employeeActor(), 42, "BC-200")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeFoundUnlisted, result.Outcome)
	assert.Equal(t, "Projector", result.Description)
	assert.Equal(t, 77, result.ItemID)

	assert.Equal(t, models.ItemFound, inserted.Status)
	assert.False(t, inserted.AddedManually)
	assert.Equal(t, 200, *inserted.AssetID)
	assert.Equal(t, fixedNow, *inserted.ScannedAt)
}

func TestScanUnknownBarcodeMutatesNothing(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, items, catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	items.On("FindItemByBarcode", 42, "MYSTERY").Return(nil, nil).Once()
	catalog.On("FindAssetByBarcode", "MYSTERY").Return(nil, nil).Once()

	result, err := service.Scan(employeeActor(), 42, "MYSTERY")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeUnknownBarcode, result.Outcome)
	items.AssertNotCalled(t, "InsertItem", mock.Anything)
	items.AssertNotCalled(t, "MarkItemFound", mock.Anything, mock.Anything)
}

func TestScanRejectsEmptyBarcode(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestReconcileService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()

	_, err := service.Scan(employeeActor(), 42, "   ")

	assert.ErrorIs(t, err, ErrBarcodeRequired)
}

func TestScanRejectsSubmittedSession(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newTestReconcileService(sessions, new(MockItemStore), new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusSubmitted), nil).Once()

	_, err := service.Scan(employeeActor(), 42, "BC-100")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestManualConfirmNeverConsultsCatalog(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, items, catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	items.On("FindItemByBarcode", 42, "BC-300").Return(nil, nil).Once()

	result, err := service.ManualConfirm(employeeActor(), 42, "BC-300")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, result.Outcome)
	catalog.AssertNotCalled(t, "FindAssetByBarcode", mock.Anything)
	items.AssertNotCalled(t, "InsertItem", mock.Anything)
}

func TestManualConfirmResolvesExpectedItem(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	service := newTestReconcileService(sessions, items, new(MockAssetCatalog))

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	items.On("FindItemByBarcode", 42, "BC-100").
		Return(&models.InventoryItem{ID: 9, SessionID: 42, Barcode: "BC-100"}, nil).Once()
	items.On("MarkItemFound", 9, fixedNow).Return(nil).Once()

	result, err := service.ManualConfirm(employeeActor(), 42, "BC-100")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeFoundExpected, result.Outcome)
	items.AssertExpectations(t)
}

func TestAddNewAssetClonesDescriptiveFields(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, items, catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()

	source := &models.Asset{
		ID:           5,
		AssetCode:    "AC-5",
		Barcode:      "OLD-5",
		Description:  "Office chair",
		MainCategory: "furniture",
		Type:         "chair",
		Status:       models.AssetStatusActive,
	}
	catalog.On("FindAssetByBarcode", "OLD-5").Return(source, nil).Once()

	catalog.On("PersistAsset", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Asset).ID = 500
	}).Return(nil).Once()

	var item *models.InventoryItem
	items.On("InsertItem", mock.Anything).Run(func(args mock.Arguments) {
		item = args.Get(0).(*models.InventoryItem)
	}).Return(nil).Once()

	sourceBarcode := "OLD-5"
	custodian := "Sara"
	asset, err := service.AddNewAsset(employeeActor(), 42, AddAssetRequest{
		SourceBarcode: &sourceBarcode,
		Barcode:       "NEW-500",
		CustodianName: &custodian,
	})

	assert.NoError(t, err)
	assert.Equal(t, "AC-5", asset.AssetCode)
	assert.Equal(t, "Office chair", asset.Description)
	assert.Equal(t, "chair", asset.Type)
	assert.Equal(t, "NEW-500", asset.Barcode)
	assert.Equal(t, "Sara", *asset.CustodianName)
	assert.Equal(t, 1, *asset.RegionID)
	assert.Equal(t, 3, *asset.BuildingID)
	assert.Equal(t, "worker", asset.CreatedByUsername)

	assert.Equal(t, models.ItemNew, item.Status)
	assert.True(t, item.AddedManually)
	assert.Equal(t, "NEW-500", item.Barcode)
}

func TestAddNewAssetWithoutSourceUsesDefaults(t *testing.T) {
	sessions := new(MockSessionStore)
	items := new(MockItemStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, items, catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	catalog.On("PersistAsset", mock.Anything).Return(nil).Once()
	items.On("InsertItem", mock.Anything).Return(nil).Once()

	asset, err := service.AddNewAsset(employeeActor(), 42, AddAssetRequest{
		Barcode:     "FRESH-1",
		Description: "Unregistered printer",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.TypeUnspecified, asset.Type)
	assert.Equal(t, models.AssetStatusActive, asset.Status)
	catalog.AssertNotCalled(t, "FindAssetByBarcode", mock.Anything)
}

func TestAddNewAssetUnknownSource(t *testing.T) {
	sessions := new(MockSessionStore)
	catalog := new(MockAssetCatalog)
	service := newTestReconcileService(sessions, new(MockItemStore), catalog)

	sessions.On("GetSession", 42).Return(sessionInState(models.StatusInProgress), nil).Once()
	catalog.On("FindAssetByBarcode", "GONE").Return(nil, nil).Once()

	sourceBarcode := "GONE"
	_, err := service.AddNewAsset(employeeActor(), 42, AddAssetRequest{
		SourceBarcode: &sourceBarcode,
		Barcode:       "NEW-1",
	})

	assert.ErrorIs(t, err, ErrAssetNotFound)
}
