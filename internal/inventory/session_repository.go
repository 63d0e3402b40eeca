package inventory

import (
	"fmt"

	"stocktake/internal/repository"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var sessionColumns = []interface{}{
	"id", "employee_id", "supervisor_id",
	"region_id", "city_id", "building_id",
	"start_time", "end_time", "status",
	"employee_comment", "supervisor_comment", "admin_comment",
}

type SessionRepository struct {
	repository *repository.Repository
}

func NewSessionRepository(r *repository.Repository) *SessionRepository {
	return &SessionRepository{repository: r}
}

func (r *SessionRepository) InsertSession(tx *goqu.TxDatabase, session *models.InventorySession) error {
	query := tx.Insert("inventory_sessions").
		Rows(goqu.Record{
			"employee_id": session.EmployeeID,
			"region_id":   session.RegionID,
			"city_id":     session.CityID,
			"building_id": session.BuildingID,
			"status":      session.Status,
		}).
		Returning("id", "start_time")

	if _, err := query.Executor().ScanStruct(session); err != nil {
		return fmt.Errorf("failed to insert session record: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetSession(id int) (*models.InventorySession, error) {
	var session models.InventorySession
	query := r.repository.Goqu.Select(sessionColumns...).
		From("inventory_sessions").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&session)
	if err != nil {
		return nil, fmt.Errorf("unable to select session: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &session, nil
}

// UpdateSession applies a partial column update; the state machine owns
// which columns change on which transition.
func (r *SessionRepository) UpdateSession(id int, changes goqu.Record) error {
	query := r.repository.Goqu.
		Update("inventory_sessions").
		Set(changes).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// DeleteSession removes the session row; items cascade with it.
func (r *SessionRepository) DeleteSession(id int) (int, error) {
	var deletedID int
	query := r.repository.Goqu.
		Delete("inventory_sessions").
		Where(goqu.Ex{"id": id}).
		Returning("id")

	found, err := query.Executor().ScanVal(&deletedID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	if !found {
		return 0, nil
	}

	return deletedID, nil
}

func (r *SessionRepository) ListSessionsByEmployee(employeeID int) ([]models.InventorySession, error) {
	var sessions []models.InventorySession
	query := r.repository.Goqu.Select(sessionColumns...).
		From("inventory_sessions").
		Where(goqu.Ex{"employee_id": employeeID}).
		Order(goqu.I("start_time").Desc())

	if err := query.Executor().ScanStructs(&sessions); err != nil {
		return nil, fmt.Errorf("unable to select sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) ListSessionsByStatus(status models.SessionStatus) ([]models.InventorySession, error) {
	var sessions []models.InventorySession
	query := r.repository.Goqu.Select(sessionColumns...).
		From("inventory_sessions").
		Where(goqu.Ex{"status": status}).
		Order(goqu.I("start_time").Desc())

	if err := query.Executor().ScanStructs(&sessions); err != nil {
		return nil, fmt.Errorf("unable to select sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) ListAllSessions() ([]models.InventorySession, error) {
	var sessions []models.InventorySession
	query := r.repository.Goqu.Select(sessionColumns...).
		From("inventory_sessions").
		Order(goqu.I("start_time").Desc())

	if err := query.Executor().ScanStructs(&sessions); err != nil {
		return nil, fmt.Errorf("unable to select sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) CountSessionsByStatus() (map[models.SessionStatus]int, error) {
	var rows []struct {
		Status models.SessionStatus `db:"status"`
		Count  int                  `db:"count"`
	}

	query := r.repository.Goqu.
		Select("status", goqu.COUNT("id").As("count")).
		From("inventory_sessions").
		GroupBy("status")

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to count sessions: %w", err)
	}

	counts := make(map[models.SessionStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
