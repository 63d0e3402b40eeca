package inventory

import (
	"fmt"
	"time"

	"stocktake/internal/repository"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var itemColumns = []interface{}{
	"id", "session_id", "asset_id", "barcode",
	"status", "scanned_at", "added_manually", "notes",
}

type ItemRepository struct {
	repository *repository.Repository
}

func NewItemRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

// InsertItems writes the expected-asset snapshot rows inside the session
// start transaction.
func (r *ItemRepository) InsertItems(tx *goqu.TxDatabase, items []models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(items))
	for _, item := range items {
		records = append(records, goqu.Record{
			"session_id":     item.SessionID,
			"asset_id":       item.AssetID,
			"barcode":        item.Barcode,
			"status":         item.Status,
			"added_manually": item.AddedManually,
		})
	}

	query := tx.Insert("inventory_items").Rows(records...)
	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert inventory items: %w", err)
	}

	return nil
}

func (r *ItemRepository) InsertItem(item *models.InventoryItem) error {
	query := r.repository.Goqu.Insert("inventory_items").
		Rows(goqu.Record{
			"session_id":     item.SessionID,
			"asset_id":       item.AssetID,
			"barcode":        item.Barcode,
			"status":         item.Status,
			"scanned_at":     item.ScannedAt,
			"added_manually": item.AddedManually,
			"notes":          item.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}

	return nil
}

func (r *ItemRepository) FindItemByBarcode(sessionID int, barcode string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	query := r.repository.Goqu.Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"session_id": sessionID, "barcode": barcode})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to select inventory item: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &item, nil
}

// MarkItemFound is idempotent on status; a repeat scan only refreshes
// scanned_at.
func (r *ItemRepository) MarkItemFound(itemID int, scannedAt time.Time) error {
	query := r.repository.Goqu.
		Update("inventory_items").
		Set(goqu.Record{"status": models.ItemFound, "scanned_at": scannedAt}).
		Where(goqu.Ex{"id": itemID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark item found: %w", err)
	}

	return nil
}

func (r *ItemRepository) ListItemsBySession(sessionID int) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	query := r.repository.Goqu.Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"session_id": sessionID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select inventory items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) GetSessionCounts(sessionID int) (models.SessionCounts, error) {
	var row struct {
		Total int `db:"total"`
		Found int `db:"found"`
	}

	query := r.repository.Goqu.
		Select(
			goqu.COUNT("id").As("total"),
			goqu.L("COUNT(CASE WHEN status = ? THEN 1 END)", string(models.ItemFound)).As("found"),
		).
		From("inventory_items").
		Where(goqu.Ex{"session_id": sessionID})

	if _, err := query.Executor().ScanStruct(&row); err != nil {
		return models.SessionCounts{}, fmt.Errorf("unable to count inventory items: %w", err)
	}

	return models.SessionCounts{
		Total:     row.Total,
		Found:     row.Found,
		Remaining: row.Total - row.Found,
	}, nil
}
