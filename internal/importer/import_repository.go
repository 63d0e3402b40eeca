package importer

import (
	"fmt"
	"strings"

	"stocktake/internal/repository"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ImportRepository struct {
	repository *repository.Repository
}

func NewImportRepository(r *repository.Repository) *ImportRepository {
	return &ImportRepository{repository: r}
}

// LoadLookup pulls the whole related table into a name-keyed map once per
// import run. Related tables (locations) are small next to the asset
// tables, so this bounds relation resolution to O(related-table-size).
func (r *ImportRepository) LoadLookup(table, column string) (map[string]int, error) {
	var rows []struct {
		ID    int    `db:"id"`
		Value string `db:"value"`
	}

	query := r.repository.Goqu.
		Select("id", goqu.I(column).As("value")).
		From(table)

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to preload %s lookup: %w", table, err)
	}

	lookup := make(map[string]int, len(rows))
	for _, row := range rows {
		lookup[strings.TrimSpace(row.Value)] = row.ID
	}

	return lookup, nil
}

func (r *ImportRepository) DeleteAll(tx *goqu.TxDatabase, table string) error {
	if _, err := tx.Delete(table).Executor().Exec(); err != nil {
		return fmt.Errorf("unable to clear table %s: %w", table, err)
	}
	return nil
}

// InsertBatch flushes one buffered batch. Rows violating a uniqueness
// constraint are skipped by the database; the difference between batch
// size and rows affected tells the caller how many.
func (r *ImportRepository) InsertBatch(tx *goqu.TxDatabase, table string, rows []goqu.Record) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	records := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		records = append(records, row)
	}

	query := tx.Insert(table).
		Rows(records...).
		OnConflict(goqu.DoNothing())

	result, err := query.Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch into %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read rows affected: %w", err)
	}

	return affected, nil
}

func (r *ImportRepository) PersistImportLog(log *models.ImportLog) error {
	query := r.repository.Goqu.Insert("import_logs").
		Rows(goqu.Record{
			"table_name": log.TableName,
			"rows_count": log.RowsCount,
			"mode":       log.Mode,
			"status":     log.Status,
			"message":    log.Message,
		}).
		Returning("id", "timestamp")

	if _, err := query.Executor().ScanStruct(log); err != nil {
		return fmt.Errorf("failed to insert import log: %w", err)
	}

	return nil
}

func (r *ImportRepository) ListRecentImportLogs(limit uint) ([]models.ImportLog, error) {
	var logs []models.ImportLog
	query := r.repository.Goqu.
		Select("id", "timestamp", "table_name", "rows_count", "mode", "status", "message").
		From("import_logs").
		Order(goqu.I("timestamp").Desc()).
		Limit(limit)

	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("unable to select import logs: %w", err)
	}

	return logs, nil
}
