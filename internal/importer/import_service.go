package importer

import (
	"fmt"
	"os"
	"strings"

	"stocktake/internal/repository"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// batchSize is the unit of atomicity for the apply stage: each flush
// commits independently.
const batchSize = 2000

// messageLimit caps the audit row's error summary.
const messageLimit = 1500

// ImportStore is the persistence contract of the apply stage.
type ImportStore interface {
	LoadLookup(table, column string) (map[string]int, error)
	DeleteAll(tx *goqu.TxDatabase, table string) error
	InsertBatch(tx *goqu.TxDatabase, table string, rows []goqu.Record) (int64, error)
	PersistImportLog(log *models.ImportLog) error
	ListRecentImportLogs(limit uint) ([]models.ImportLog, error)
}

type InspectResult struct {
	Token   string   `json:"token"`
	Columns []string `json:"columns"`
}

type ApplyResult struct {
	Table      string `json:"table"`
	Inserted   int    `json:"inserted_count"`
	Duplicates int    `json:"duplicate_count"`
	ErrorCount int    `json:"error_count"`
	Status     string `json:"status"`
	Summary    string `json:"error_summary"`
}

// ImportService drives the four-stage pipeline: inspect, select target,
// map, apply.
type ImportService struct {
	registry *Registry
	staging  *StagingStore
	store    ImportStore
	runInTx  func(fn func(tx *goqu.TxDatabase) error) error
	newToken func() string
}

func NewImportService(repo *repository.Repository, registry *Registry, staging *StagingStore, store ImportStore, newToken func() string) *ImportService {
	return &ImportService{
		registry: registry,
		staging:  staging,
		store:    store,
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(repo.Goqu, fn)
		},
		newToken: newToken,
	}
}

// Inspect reads just the header row of the saved upload and stages it for
// the operator. A malformed file aborts here; nothing is persisted.
func (s *ImportService) Inspect(actor models.Actor, filePath string) (*InspectResult, error) {
	if !actor.IsAdmin() {
		os.Remove(filePath)
		return nil, ErrForbidden
	}

	columns, err := ReadSheetHeaders(filePath)
	if err != nil {
		os.Remove(filePath)
		return nil, err
	}

	upload := &StagedUpload{
		Token:    s.newToken(),
		OwnerID:  actor.ID,
		FilePath: filePath,
		Columns:  columns,
	}
	s.staging.Put(upload)

	return &InspectResult{Token: upload.Token, Columns: columns}, nil
}

// SelectTarget binds a registered destination entity to the staged upload
// and returns its mappable fields. No field-level validation yet.
func (s *ImportService) SelectTarget(actor models.Actor, token, entityName string) ([]string, error) {
	upload := s.staging.Get(token, actor.ID)
	if upload == nil {
		return nil, ErrUploadNotFound
	}

	spec, ok := s.registry.Get(entityName)
	if !ok {
		return nil, ErrUnknownEntity
	}

	upload.Entity = spec.Name
	return spec.FieldNames(), nil
}

func (s *ImportService) EntityNames() []string {
	return s.registry.Names()
}

func (s *ImportService) EntityFields(entityName string) ([]string, error) {
	spec, ok := s.registry.Get(entityName)
	if !ok {
		return nil, ErrUnknownEntity
	}
	return spec.FieldNames(), nil
}

// Apply is the commit stage. mapping is source column -> destination
// field; any subset of destination fields may be left unmapped. Rows with
// unresolved relations are still inserted with the field left unset.
func (s *ImportService) Apply(actor models.Actor, token, mode string, mapping map[string]string) (*ApplyResult, error) {
	upload := s.staging.Get(token, actor.ID)
	if upload == nil {
		return nil, ErrUploadNotFound
	}

	// The temp file goes away regardless of outcome.
	defer func() {
		os.Remove(upload.FilePath)
		s.staging.Delete(token)
	}()

	if upload.Entity == "" {
		return nil, ErrNoTarget
	}
	spec, ok := s.registry.Get(upload.Entity)
	if !ok {
		return nil, ErrUnknownEntity
	}

	if mode != models.ImportModeAdd && mode != models.ImportModeReplace {
		return nil, ErrInvalidMode
	}

	columnIndex, err := buildColumnIndex(upload.Columns, spec, mapping)
	if err != nil {
		return nil, err
	}

	_, rows, err := ReadSheetRows(upload.FilePath)
	if err != nil {
		return nil, err
	}

	// Preload every mapped relation's table once, not per source row.
	lookups := make(map[string]map[string]int)
	for _, binding := range columnIndex {
		if binding.field.Relation == nil {
			continue
		}
		if _, loaded := lookups[binding.field.Name]; loaded {
			continue
		}
		lookup, err := s.store.LoadLookup(binding.field.Relation.Table, binding.field.Relation.LookupColumn)
		if err != nil {
			return nil, err
		}
		lookups[binding.field.Name] = lookup
	}

	result := &ApplyResult{Table: spec.Table, Status: models.ImportStatusSuccess}
	var rowErrors []string
	var batch []goqu.Record
	replaceDone := mode != models.ImportModeReplace

	flush := func() error {
		rows := batch
		batch = nil

		return s.runInTx(func(tx *goqu.TxDatabase) error {
			// Replace mode ties the table wipe to the first flush so a
			// failure cannot leave the table emptied with nothing committed.
			if !replaceDone {
				if err := s.store.DeleteAll(tx, spec.Table); err != nil {
					return err
				}
				replaceDone = true
			}

			affected, err := s.store.InsertBatch(tx, spec.Table, rows)
			if err != nil {
				return err
			}

			result.Inserted += int(affected)
			if dropped := len(rows) - int(affected); dropped > 0 {
				result.Duplicates += dropped
				rowErrors = append(rowErrors, fmt.Sprintf("%d duplicate rows skipped by unique constraint", dropped))
			}
			return nil
		})
	}

	for i, row := range rows {
		rowNumber := i + 2 // 1-based, after the header row

		record := goqu.Record{}
		empty := true
		for _, binding := range columnIndex {
			value := ""
			if binding.column < len(row) {
				value = strings.TrimSpace(row[binding.column])
			}
			if value != "" {
				empty = false
			}

			if binding.field.Relation != nil {
				if value == "" {
					record[binding.field.Name] = nil
					continue
				}
				id, ok := lookups[binding.field.Name][value]
				if !ok {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s: value %q not found in %s",
						rowNumber, binding.field.Name, value, binding.field.Relation.Table))
					record[binding.field.Name] = nil
					continue
				}
				record[binding.field.Name] = id
				continue
			}

			if value == "" {
				record[binding.field.Name] = nil
			} else {
				record[binding.field.Name] = value
			}
		}

		// Trailing all-empty spreadsheet rows carry no record.
		if empty {
			continue
		}

		batch = append(batch, record)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return s.finishFailed(result, spec, mode, rowErrors, err)
			}
		}
	}

	// Final batch; in replace mode this also covers the zero-row case so
	// the wipe still happens.
	if len(batch) > 0 || !replaceDone {
		if err := flush(); err != nil {
			return s.finishFailed(result, spec, mode, rowErrors, err)
		}
	}

	result.ErrorCount = len(rowErrors)
	if result.ErrorCount > 0 {
		result.Status = models.ImportStatusPartial
	}
	result.Summary = truncateMessage(strings.Join(rowErrors, "\n"))

	s.writeAuditRow(spec, mode, result)

	return result, nil
}

func (s *ImportService) RecentLogs() ([]models.ImportLog, error) {
	return s.store.ListRecentImportLogs(100)
}

// finishFailed records what actually got committed before the failing
// batch; batches 1..N stay durable and the audit row must say so.
func (s *ImportService) finishFailed(result *ApplyResult, spec EntitySpec, mode string, rowErrors []string, cause error) (*ApplyResult, error) {
	result.Status = models.ImportStatusFailed
	result.ErrorCount = len(rowErrors) + 1
	result.Summary = truncateMessage(strings.Join(append(rowErrors, cause.Error()), "\n"))

	s.writeAuditRow(spec, mode, result)

	return result, nil
}

func (s *ImportService) writeAuditRow(spec EntitySpec, mode string, result *ApplyResult) {
	var message *string
	if result.Summary != "" {
		message = &result.Summary
	}

	log := &models.ImportLog{
		TableName: spec.Table,
		RowsCount: result.Inserted,
		Mode:      mode,
		Status:    result.Status,
		Message:   message,
	}

	// The import itself already happened; a failed audit write must not
	// undo the operator's result.
	_ = s.store.PersistImportLog(log)
}

type columnBinding struct {
	column int
	field  FieldSpec
}

func buildColumnIndex(columns []string, spec EntitySpec, mapping map[string]string) ([]columnBinding, error) {
	position := make(map[string]int, len(columns))
	for i, col := range columns {
		position[col] = i
	}

	var bindings []columnBinding
	for sourceColumn, fieldName := range mapping {
		if fieldName == "" || fieldName == "skip" {
			continue
		}

		idx, ok := position[sourceColumn]
		if !ok {
			return nil, ErrInvalidMapping
		}
		field, ok := spec.Field(fieldName)
		if !ok {
			return nil, ErrInvalidMapping
		}

		bindings = append(bindings, columnBinding{column: idx, field: field})
	}

	return bindings, nil
}

func truncateMessage(message string) string {
	if len(message) > messageLimit {
		return message[:messageLimit]
	}
	return message
}
