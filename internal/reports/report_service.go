package reports

import (
	"errors"
	"fmt"
	"strconv"

	"stocktake/pkg/models"
	"stocktake/pkg/roles"

	"github.com/xuri/excelize/v2"
)

var (
	ErrForbidden       = errors.New("actor lacks required capability")
	ErrSessionNotFound = errors.New("session does not exist")
)

// ReportStore is the read-side contract of the export endpoints.
type ReportStore interface {
	GetSessionItems(sessionID int) ([]ItemRow, error)
	GetAllSessions() ([]SessionRow, error)
}

type SessionGetter interface {
	GetSession(sessionID int) (*models.InventorySession, error)
}

type ReportService struct {
	store    ReportStore
	sessions SessionGetter
}

func NewReportService(store ReportStore, sessions SessionGetter) *ReportService {
	return &ReportService{store: store, sessions: sessions}
}

var sessionItemHeaders = []string{
	"Asset Code", "Barcode", "Description", "Status", "Scanned At", "Added Manually", "Notes",
}

var sessionBackupHeaders = []string{
	"ID", "Employee ID", "Status", "Start Time", "End Time",
	"Region", "City", "Building", "Found", "Missing", "New",
}

// SessionReport renders one session's item list as an xlsx workbook and
// returns the raw bytes for download.
func (s *ReportService) SessionReport(actor models.Actor, sessionID int) ([]byte, string, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, "", err
	}
	if session == nil {
		return nil, "", ErrSessionNotFound
	}
	if !actor.CanManageSession(session.EmployeeID) && !actor.Role.HasPermission(roles.Supervisor) {
		return nil, "", ErrForbidden
	}

	items, err := s.store.GetSessionItems(sessionID)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, []interface{}{
			deref(item.AssetCode),
			item.Barcode,
			deref(item.Description),
			item.Status,
			deref(item.ScannedAt),
			strconv.FormatBool(item.AddedManually),
			deref(item.Notes),
		})
	}

	data, err := writeWorkbook("Session Items", sessionItemHeaders, rows)
	if err != nil {
		return nil, "", err
	}

	return data, fmt.Sprintf("session_%d_report.xlsx", sessionID), nil
}

// SessionsBackup exports every session with its per-status item counts.
// Admin only; the handler enforces the role, the service double-checks.
func (s *ReportService) SessionsBackup(actor models.Actor) ([]byte, string, error) {
	if !actor.IsAdmin() {
		return nil, "", ErrForbidden
	}

	sessions, err := s.store.GetAllSessions()
	if err != nil {
		return nil, "", err
	}

	rows := make([][]interface{}, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []interface{}{
			session.ID,
			session.EmployeeID,
			session.Status,
			session.StartTime,
			deref(session.EndTime),
			deref(session.RegionName),
			deref(session.CityName),
			deref(session.BuildingName),
			session.FoundCount,
			session.MissingCount,
			session.NewCount,
		})
	}

	data, err := writeWorkbook("Sessions", sessionBackupHeaders, rows)
	if err != nil {
		return nil, "", err
	}

	return data, "sessions_backup.xlsx", nil
}

func writeWorkbook(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to render workbook: %w", err)
	}

	return buffer.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
