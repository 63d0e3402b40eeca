package models

import "time"

const (
	ImportModeAdd     = "add"
	ImportModeReplace = "replace"

	ImportStatusSuccess = "success"
	ImportStatusPartial = "partial"
	ImportStatusFailed  = "failed"
)

// ImportLog is an append-only audit row for one import run. Immutable once
// written.
type ImportLog struct {
	ID        int       `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	TableName string    `json:"table_name" db:"table_name"`
	RowsCount int       `json:"rows_count" db:"rows_count"`
	Mode      string    `json:"mode" db:"mode"`
	Status    string    `json:"status" db:"status"`
	Message   *string   `json:"message" db:"message"`
}
