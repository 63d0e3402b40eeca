package inventory

import (
	"fmt"
	"strings"
	"time"

	"stocktake/internal/repository"
	"stocktake/pkg/models"
	"stocktake/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

// SessionStore is the persistence contract of the state machine.
type SessionStore interface {
	InsertSession(tx *goqu.TxDatabase, session *models.InventorySession) error
	GetSession(id int) (*models.InventorySession, error)
	UpdateSession(id int, changes goqu.Record) error
	DeleteSession(id int) (int, error)
	ListSessionsByEmployee(employeeID int) ([]models.InventorySession, error)
	ListSessionsByStatus(status models.SessionStatus) ([]models.InventorySession, error)
	ListAllSessions() ([]models.InventorySession, error)
	CountSessionsByStatus() (map[models.SessionStatus]int, error)
}

type ItemStore interface {
	InsertItems(tx *goqu.TxDatabase, items []models.InventoryItem) error
	InsertItem(item *models.InventoryItem) error
	FindItemByBarcode(sessionID int, barcode string) (*models.InventoryItem, error)
	MarkItemFound(itemID int, scannedAt time.Time) error
	ListItemsBySession(sessionID int) ([]models.InventoryItem, error)
	GetSessionCounts(sessionID int) (models.SessionCounts, error)
}

// AssetCatalog is the slice of the reference catalog the inventory flows
// consume.
type AssetCatalog interface {
	FindAssetByBarcode(barcode string) (*models.Asset, error)
	ListAssetsByLocation(regionID, cityID, buildingID int) ([]models.Asset, error)
	PersistAsset(asset *models.Asset) error
	CountAssets() (int, error)
}

type StartSessionRequest struct {
	RegionID   int `json:"region_id" binding:"required"`
	CityID     int `json:"city_id" binding:"required"`
	BuildingID int `json:"building_id" binding:"required"`
}

type SessionDetail struct {
	Session models.InventorySession `json:"session"`
	Items   []models.InventoryItem  `json:"items"`
	Counts  models.SessionCounts    `json:"counts"`
}

type DashboardCounts struct {
	Sessions      map[models.SessionStatus]int `json:"sessions"`
	PendingReview int                          `json:"pending_review"`
	TotalAssets   int                          `json:"total_assets"`
}

// SessionService owns the session lifecycle. Guards are role checks plus
// required-field checks only; item correctness belongs to the
// reconciliation engine.
type SessionService struct {
	sessions SessionStore
	items    ItemStore
	catalog  AssetCatalog
	runInTx  func(fn func(tx *goqu.TxDatabase) error) error
	now      func() time.Time
}

func NewSessionService(repo *repository.Repository, sessions SessionStore, items ItemStore, catalog AssetCatalog) *SessionService {
	return &SessionService{
		sessions: sessions,
		items:    items,
		catalog:  catalog,
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(repo.Goqu, fn)
		},
		now: time.Now,
	}
}

// StartSession snapshots every asset assigned to the chosen building into
// missing items and opens the session in_progress.
func (s *SessionService) StartSession(actor models.Actor, req StartSessionRequest) (*models.InventorySession, error) {
	if actor.Role != roles.Employee && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.RegionID == 0 || req.CityID == 0 || req.BuildingID == 0 {
		return nil, ErrLocationRequired
	}

	assets, err := s.catalog.ListAssetsByLocation(req.RegionID, req.CityID, req.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot building assets: %w", err)
	}

	session := &models.InventorySession{
		EmployeeID: actor.ID,
		RegionID:   &req.RegionID,
		CityID:     &req.CityID,
		BuildingID: &req.BuildingID,
		Status:     models.StatusInProgress,
	}

	err = s.runInTx(func(tx *goqu.TxDatabase) error {
		if err := s.sessions.InsertSession(tx, session); err != nil {
			return err
		}

		items := make([]models.InventoryItem, 0, len(assets))
		for i := range assets {
			asset := assets[i]
			items = append(items, models.InventoryItem{
				SessionID: session.ID,
				AssetID:   &asset.ID,
				Barcode:   asset.Barcode,
				Status:    models.ItemMissing,
			})
		}

		return s.items.InsertItems(tx, items)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) GetSessionDetail(actor models.Actor, sessionID int) (*SessionDetail, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageSession(session.EmployeeID) && !actor.Role.HasPermission(roles.Supervisor) {
		return nil, ErrForbidden
	}

	items, err := s.items.ListItemsBySession(sessionID)
	if err != nil {
		return nil, err
	}
	counts, err := s.items.GetSessionCounts(sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionDetail{Session: *session, Items: items, Counts: counts}, nil
}

// SaveDraft parks a non-terminal session without submitting it.
func (s *SessionService) SaveDraft(actor models.Actor, sessionID int, employeeComment *string) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageSession(session.EmployeeID) {
		return nil, ErrForbidden
	}
	if session.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	changes := goqu.Record{"status": models.StatusDraft}
	if employeeComment != nil {
		changes["employee_comment"] = *employeeComment
	}

	return s.applyChanges(sessionID, changes)
}

// Submit closes scanning and hands the session to the supervisor queue.
func (s *SessionService) Submit(actor models.Actor, sessionID int, employeeComment *string) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageSession(session.EmployeeID) {
		return nil, ErrForbidden
	}
	if session.Status != models.StatusInProgress && session.Status != models.StatusDraft {
		return nil, ErrInvalidTransition
	}

	changes := goqu.Record{
		"status":   models.StatusSubmitted,
		"end_time": s.now(),
	}
	if employeeComment != nil {
		changes["employee_comment"] = *employeeComment
	}

	return s.applyChanges(sessionID, changes)
}

func (s *SessionService) SupervisorApprove(actor models.Actor, sessionID int) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.HasPermission(roles.Supervisor) {
		return nil, ErrForbidden
	}
	if session.Status != models.StatusSubmitted {
		return nil, ErrInvalidTransition
	}

	return s.applyChanges(sessionID, goqu.Record{
		"status":        models.StatusSupervisorApproved,
		"supervisor_id": actor.ID,
	})
}

func (s *SessionService) SupervisorReject(actor models.Actor, sessionID int, comment string) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.HasPermission(roles.Supervisor) {
		return nil, ErrForbidden
	}
	if session.Status != models.StatusSubmitted {
		return nil, ErrInvalidTransition
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	return s.applyChanges(sessionID, goqu.Record{
		"status":             models.StatusSupervisorRejected,
		"supervisor_id":      actor.ID,
		"supervisor_comment": comment,
	})
}

func (s *SessionService) AdminApprove(actor models.Actor, sessionID int, adminComment *string) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if session.Status != models.StatusSupervisorApproved {
		return nil, ErrInvalidTransition
	}

	changes := goqu.Record{"status": models.StatusAdminApproved}
	if adminComment != nil {
		changes["admin_comment"] = *adminComment
	}

	return s.applyChanges(sessionID, changes)
}

// Complete archives a finally-approved session.
func (s *SessionService) Complete(actor models.Actor, sessionID int) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if session.Status != models.StatusAdminApproved {
		return nil, ErrInvalidTransition
	}

	return s.applyChanges(sessionID, goqu.Record{"status": models.StatusCompleted})
}

func (s *SessionService) Cancel(actor models.Actor, sessionID int) (*models.InventorySession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageSession(session.EmployeeID) {
		return nil, ErrForbidden
	}
	if session.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	changes := goqu.Record{"status": models.StatusCancelled}
	if session.EndTime == nil {
		changes["end_time"] = s.now()
	}

	return s.applyChanges(sessionID, changes)
}

// Reopen is deliberately callable from any state so an administrator can
// recover from supervisor mistakes without a separate undo subsystem.
func (s *SessionService) Reopen(actor models.Actor, sessionID int) (*models.InventorySession, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if _, err := s.loadSession(sessionID); err != nil {
		return nil, err
	}

	return s.applyChanges(sessionID, goqu.Record{
		"status":             models.StatusInProgress,
		"end_time":           nil,
		"supervisor_id":      nil,
		"supervisor_comment": nil,
	})
}

func (s *SessionService) Delete(actor models.Actor, sessionID int) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	deletedID, err := s.sessions.DeleteSession(sessionID)
	if err != nil {
		return err
	}
	if deletedID == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (s *SessionService) ListOwnSessions(actor models.Actor) ([]models.InventorySession, error) {
	return s.sessions.ListSessionsByEmployee(actor.ID)
}

// ListPendingReview is the supervisor queue; it keys on the single
// canonical awaiting-review status.
func (s *SessionService) ListPendingReview(actor models.Actor) ([]models.InventorySession, error) {
	if !actor.Role.HasPermission(roles.Supervisor) {
		return nil, ErrForbidden
	}
	return s.sessions.ListSessionsByStatus(models.StatusSubmitted)
}

func (s *SessionService) ListAllSessions(actor models.Actor) ([]models.InventorySession, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.sessions.ListAllSessions()
}

func (s *SessionService) Dashboard(actor models.Actor) (*DashboardCounts, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	counts, err := s.sessions.CountSessionsByStatus()
	if err != nil {
		return nil, err
	}
	totalAssets, err := s.catalog.CountAssets()
	if err != nil {
		return nil, err
	}

	return &DashboardCounts{
		Sessions:      counts,
		PendingReview: counts[models.StatusSubmitted],
		TotalAssets:   totalAssets,
	}, nil
}

func (s *SessionService) loadSession(sessionID int) (*models.InventorySession, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) applyChanges(sessionID int, changes goqu.Record) (*models.InventorySession, error) {
	if err := s.sessions.UpdateSession(sessionID, changes); err != nil {
		return nil, err
	}
	return s.loadSession(sessionID)
}
