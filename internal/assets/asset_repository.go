package assets

import (
	"fmt"
	"time"

	"stocktake/internal/repository"
	custom_error "stocktake/pkg/errors"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

var assetColumns = []interface{}{
	"id", "asset_code", "barcode", "old_barcode", "description", "phone_number",
	"main_category", "type", "sub_category",
	"region_id", "city_id", "building_id",
	"status", "condition",
	"custodian_number", "custodian_name", "custodian_type",
	"created_at", "created_by_username",
}

type AssetRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetRepository {
	return &AssetRepository{repository: r}
}

func (r *AssetRepository) GetAsset(id int) (*models.Asset, error) {
	return r.fetchAssetByCondition(goqu.Ex{"id": id})
}

// FindAssetByBarcode returns nil without error when no asset carries the
// barcode; the reconciliation engine treats that as a first-class outcome.
func (r *AssetRepository) FindAssetByBarcode(barcode string) (*models.Asset, error) {
	return r.fetchAssetByCondition(goqu.Ex{"barcode": barcode})
}

func (r *AssetRepository) fetchAssetByCondition(condition goqu.Ex) (*models.Asset, error) {
	var asset models.Asset
	query := r.repository.Goqu.Select(assetColumns...).From("assets").Where(condition)

	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetRepository) GetAssetList() ([]models.Asset, error) {
	var assets []models.Asset
	query := r.repository.Goqu.Select(assetColumns...).From("assets").Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	return assets, nil
}

// ListAssetsByLocation returns every asset physically assigned to the
// triple; the session state machine snapshots this set at session start.
func (r *AssetRepository) ListAssetsByLocation(regionID, cityID, buildingID int) ([]models.Asset, error) {
	var assets []models.Asset
	query := r.repository.Goqu.Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{
			"region_id":   regionID,
			"city_id":     cityID,
			"building_id": buildingID,
		}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets for location: %w", err)
	}

	return assets, nil
}

// PersistAsset inserts a single asset row. Uniqueness of asset_code and
// barcode is enforced by the schema; a 23505 rejection comes back as
// UniqueViolationError for the caller to classify as a conflict.
func (r *AssetRepository) PersistAsset(asset *models.Asset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"asset_code":          asset.AssetCode,
		"barcode":             asset.Barcode,
		"old_barcode":         asset.OldBarcode,
		"description":         asset.Description,
		"phone_number":        asset.PhoneNumber,
		"main_category":       asset.MainCategory,
		"type":                asset.Type,
		"sub_category":        asset.SubCategory,
		"region_id":           asset.RegionID,
		"city_id":             asset.CityID,
		"building_id":         asset.BuildingID,
		"status":              asset.Status,
		"condition":           asset.Condition,
		"custodian_number":    asset.CustodianNumber,
		"custodian_name":      asset.CustodianName,
		"custodian_type":      asset.CustodianType,
		"created_at":          asset.CreatedAt,
		"created_by_username": asset.CreatedByUsername,
	}

	query := r.repository.Goqu.Insert("assets").Rows(record).Returning("id")

	if _, err := query.Executor().ScanVal(&asset.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate asset code or barcode", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert asset record: %w", err)
	}

	return nil
}

func (r *AssetRepository) RemoveAsset(assetID int) (int, error) {
	var id int
	query := r.repository.Goqu.
		Delete("assets").
		Where(goqu.Ex{"id": assetID}).
		Returning("id")

	found, err := query.Executor().ScanVal(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete asset: %w", err)
	}
	if !found {
		return 0, nil
	}

	return id, nil
}

func (r *AssetRepository) CountAssets() (int, error) {
	var count int
	query := r.repository.Goqu.Select(goqu.COUNT("id")).From("assets")
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to count assets: %w", err)
	}

	return count, nil
}
