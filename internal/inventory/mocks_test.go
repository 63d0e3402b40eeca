package inventory

import (
	"time"

	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) InsertSession(tx *goqu.TxDatabase, session *models.InventorySession) error {
	args := m.Called(tx, session)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(id int) (*models.InventorySession, error) {
	args := m.Called(id)
	if session, ok := args.Get(0).(*models.InventorySession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) UpdateSession(id int, changes goqu.Record) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteSession(id int) (int, error) {
	args := m.Called(id)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionStore) ListSessionsByEmployee(employeeID int) ([]models.InventorySession, error) {
	args := m.Called(employeeID)
	return args.Get(0).([]models.InventorySession), args.Error(1)
}

func (m *MockSessionStore) ListSessionsByStatus(status models.SessionStatus) ([]models.InventorySession, error) {
	args := m.Called(status)
	return args.Get(0).([]models.InventorySession), args.Error(1)
}

func (m *MockSessionStore) ListAllSessions() ([]models.InventorySession, error) {
	args := m.Called()
	return args.Get(0).([]models.InventorySession), args.Error(1)
}

func (m *MockSessionStore) CountSessionsByStatus() (map[models.SessionStatus]int, error) {
	args := m.Called()
	return args.Get(0).(map[models.SessionStatus]int), args.Error(1)
}

type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) InsertItems(tx *goqu.TxDatabase, items []models.InventoryItem) error {
	args := m.Called(tx, items)
	return args.Error(0)
}

func (m *MockItemStore) InsertItem(item *models.InventoryItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockItemStore) FindItemByBarcode(sessionID int, barcode string) (*models.InventoryItem, error) {
	args := m.Called(sessionID, barcode)
	if item, ok := args.Get(0).(*models.InventoryItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemStore) MarkItemFound(itemID int, scannedAt time.Time) error {
	args := m.Called(itemID, scannedAt)
	return args.Error(0)
}

func (m *MockItemStore) ListItemsBySession(sessionID int) ([]models.InventoryItem, error) {
	args := m.Called(sessionID)
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockItemStore) GetSessionCounts(sessionID int) (models.SessionCounts, error) {
	args := m.Called(sessionID)
	return args.Get(0).(models.SessionCounts), args.Error(1)
}

type MockAssetCatalog struct {
	mock.Mock
}

func (m *MockAssetCatalog) FindAssetByBarcode(barcode string) (*models.Asset, error) {
	args := m.Called(barcode)
	if asset, ok := args.Get(0).(*models.Asset); ok {
		return asset, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssetCatalog) ListAssetsByLocation(regionID, cityID, buildingID int) ([]models.Asset, error) {
	args := m.Called(regionID, cityID, buildingID)
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetCatalog) PersistAsset(asset *models.Asset) error {
	args := m.Called(asset)
	return args.Error(0)
}

func (m *MockAssetCatalog) CountAssets() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
