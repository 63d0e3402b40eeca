package models

import "time"

type SessionStatus string

// Session lifecycle. The single authoritative "awaiting review" status is
// StatusSubmitted; every supervisor queue and dashboard count keys on it.
const (
	StatusDraft              SessionStatus = "draft"
	StatusInProgress         SessionStatus = "in_progress"
	StatusSubmitted          SessionStatus = "submitted_to_supervisor"
	StatusSupervisorApproved SessionStatus = "supervisor_approved"
	StatusSupervisorRejected SessionStatus = "supervisor_rejected"
	StatusAdminApproved      SessionStatus = "admin_approved"
	StatusCancelled          SessionStatus = "cancelled"
	StatusCompleted          SessionStatus = "completed"
)

func (s SessionStatus) IsTerminal() bool {
	switch s {
	case StatusAdminApproved, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusSubmitted, StatusSupervisorApproved,
		StatusSupervisorRejected, StatusAdminApproved, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// InventorySession is one stock-take run over exactly one building.
type InventorySession struct {
	ID           int           `json:"id" db:"id"`
	EmployeeID   int           `json:"employee_id" db:"employee_id"`
	SupervisorID *int          `json:"supervisor_id" db:"supervisor_id"`
	RegionID     *int          `json:"region_id" db:"region_id"`
	CityID       *int          `json:"city_id" db:"city_id"`
	BuildingID   *int          `json:"building_id" db:"building_id"`
	StartTime    time.Time     `json:"start_time" db:"start_time"`
	EndTime      *time.Time    `json:"end_time" db:"end_time"`
	Status       SessionStatus `json:"status" db:"status"`

	EmployeeComment   *string `json:"employee_comment" db:"employee_comment"`
	SupervisorComment *string `json:"supervisor_comment" db:"supervisor_comment"`
	AdminComment      *string `json:"admin_comment" db:"admin_comment"`
}

type ItemStatus string

const (
	ItemFound   ItemStatus = "found"
	ItemMissing ItemStatus = "missing"
	ItemNew     ItemStatus = "new"
)

// InventoryItem is one expected-or-discovered asset row inside a session.
// Items cascade with their session but only weakly reference the asset:
// the barcode is copied at creation time so the record survives asset
// deletion or relabeling.
type InventoryItem struct {
	ID            int        `json:"id" db:"id"`
	SessionID     int        `json:"session_id" db:"session_id"`
	AssetID       *int       `json:"asset_id" db:"asset_id"`
	Barcode       string     `json:"barcode" db:"barcode"`
	Status        ItemStatus `json:"status" db:"status"`
	ScannedAt     *time.Time `json:"scanned_at" db:"scanned_at"`
	AddedManually bool       `json:"added_manually" db:"added_manually"`
	Notes         *string    `json:"notes" db:"notes"`
}

// SessionCounts are the derived completion metrics for a session.
type SessionCounts struct {
	Total     int `json:"total_items"`
	Found     int `json:"found"`
	Remaining int `json:"remaining"`
}
