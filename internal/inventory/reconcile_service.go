package inventory

import (
	"strings"
	"time"

	"stocktake/pkg/models"
)

type ScanOutcome string

const (
	// OutcomeFoundExpected: the barcode matched an item already expected in
	// this session.
	OutcomeFoundExpected ScanOutcome = "found"
	// OutcomeFoundUnlisted: the asset exists in the catalog but was not part
	// of this building's expected set (e.g. a misplaced asset).
	OutcomeFoundUnlisted ScanOutcome = "found_unlisted"
	// OutcomeUnknownBarcode: unknown to both session and catalog. Not an
	// error — the operator either discards the scan or creates the asset.
	OutcomeUnknownBarcode ScanOutcome = "unknown_barcode"
	// OutcomeNotFound: manual confirmation only resolves known expected
	// items; it never creates one.
	OutcomeNotFound ScanOutcome = "not_found"
)

type ScanResult struct {
	Outcome     ScanOutcome `json:"outcome"`
	Barcode     string      `json:"barcode"`
	Description string      `json:"description,omitempty"`
	ItemID      int         `json:"item_id,omitempty"`
}

type AddAssetRequest struct {
	SourceBarcode *string `json:"source_barcode"`
	Barcode       string  `json:"barcode" binding:"required"`
	AssetCode     string  `json:"asset_code"`
	Description   string  `json:"description"`
	MainCategory  string  `json:"main_category"`
	SubCategory   string  `json:"sub_category"`
	Condition     *string `json:"condition"`

	CustodianName   *string `json:"custodian_name"`
	CustodianNumber *string `json:"custodian_number"`
	CustodianType   *string `json:"custodian_type"`
}

// ReconcileService classifies barcode events against an open session and
// mutates the session's item set accordingly.
type ReconcileService struct {
	sessions SessionStore
	items    ItemStore
	catalog  AssetCatalog
	now      func() time.Time
}

func NewReconcileService(sessions SessionStore, items ItemStore, catalog AssetCatalog) *ReconcileService {
	return &ReconcileService{
		sessions: sessions,
		items:    items,
		catalog:  catalog,
		now:      time.Now,
	}
}

// Scan records a physical barcode read. Expected item -> found; cataloged
// but unlisted asset -> new found item; otherwise no mutation at all.
func (s *ReconcileService) Scan(actor models.Actor, sessionID int, barcode string) (*ScanResult, error) {
	session, err := s.openSessionFor(actor, sessionID)
	if err != nil {
		return nil, err
	}

	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrBarcodeRequired
	}

	item, err := s.items.FindItemByBarcode(sessionID, barcode)
	if err != nil {
		return nil, err
	}

	if item != nil {
		if err := s.items.MarkItemFound(item.ID, s.now()); err != nil {
			return nil, err
		}

		result := &ScanResult{Outcome: OutcomeFoundExpected, Barcode: barcode, ItemID: item.ID}
		if item.AssetID != nil {
			if asset, err := s.catalog.FindAssetByBarcode(barcode); err == nil && asset != nil {
				result.Description = asset.Description
			}
		}
		return result, nil
	}

	asset, err := s.catalog.FindAssetByBarcode(barcode)
	if err != nil {
		return nil, err
	}

	if asset != nil {
		scannedAt := s.now()
		newItem := models.InventoryItem{
			SessionID:     session.ID,
			AssetID:       &asset.ID,
			Barcode:       barcode,
			Status:        models.ItemFound,
			ScannedAt:     &scannedAt,
			AddedManually: false,
		}
		if err := s.items.InsertItem(&newItem); err != nil {
			return nil, err
		}

		return &ScanResult{
			Outcome:     OutcomeFoundUnlisted,
			Barcode:     barcode,
			Description: asset.Description,
			ItemID:      newItem.ID,
		}, nil
	}

	return &ScanResult{Outcome: OutcomeUnknownBarcode, Barcode: barcode}, nil
}

// ManualConfirm resolves an expected item without a physical scan event.
// Unlike Scan it never falls through to the catalog.
func (s *ReconcileService) ManualConfirm(actor models.Actor, sessionID int, barcode string) (*ScanResult, error) {
	if _, err := s.openSessionFor(actor, sessionID); err != nil {
		return nil, err
	}

	barcode = strings.TrimSpace(barcode)

	item, err := s.items.FindItemByBarcode(sessionID, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return &ScanResult{Outcome: OutcomeNotFound, Barcode: barcode}, nil
	}

	if err := s.items.MarkItemFound(item.ID, s.now()); err != nil {
		return nil, err
	}

	return &ScanResult{Outcome: OutcomeFoundExpected, Barcode: barcode, ItemID: item.ID}, nil
}

// AddNewAsset registers an asset discovered during scanning, optionally
// cloning descriptive fields from an existing one, and records it as a new
// item. Duplicate barcodes surface as a UniqueViolationError from storage.
func (s *ReconcileService) AddNewAsset(actor models.Actor, sessionID int, req AddAssetRequest) (*models.Asset, error) {
	session, err := s.openSessionFor(actor, sessionID)
	if err != nil {
		return nil, err
	}

	var asset models.Asset

	if req.SourceBarcode != nil && *req.SourceBarcode != "" {
		source, err := s.catalog.FindAssetByBarcode(*req.SourceBarcode)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return nil, ErrAssetNotFound
		}

		asset = models.Asset{
			AssetCode:         source.AssetCode,
			Barcode:           req.Barcode,
			OldBarcode:        source.OldBarcode,
			Description:       source.Description,
			MainCategory:      source.MainCategory,
			Type:              source.Type,
			SubCategory:       source.SubCategory,
			Status:            source.Status,
			Condition:         source.Condition,
			CustodianName:     req.CustodianName,
			CustodianNumber:   req.CustodianNumber,
			CustodianType:     req.CustodianType,
			CreatedByUsername: actor.Username,
		}
	} else {
		asset = models.Asset{
			AssetCode:         req.AssetCode,
			Barcode:           req.Barcode,
			Description:       req.Description,
			MainCategory:      req.MainCategory,
			Type:              models.TypeUnspecified,
			SubCategory:       req.SubCategory,
			Status:            models.AssetStatusActive,
			Condition:         req.Condition,
			CustodianName:     req.CustodianName,
			CustodianNumber:   req.CustodianNumber,
			CustodianType:     req.CustodianType,
			CreatedByUsername: actor.Username,
		}
	}

	// A discovered asset belongs to the location being counted.
	asset.RegionID = session.RegionID
	asset.CityID = session.CityID
	asset.BuildingID = session.BuildingID

	if err := s.catalog.PersistAsset(&asset); err != nil {
		return nil, err
	}

	item := models.InventoryItem{
		SessionID:     session.ID,
		AssetID:       &asset.ID,
		Barcode:       asset.Barcode,
		Status:        models.ItemNew,
		AddedManually: true,
	}
	if err := s.items.InsertItem(&item); err != nil {
		return nil, err
	}

	return &asset, nil
}

// openSessionFor loads the session and checks that the actor may scan into
// it: owner or admin, and the session still accepts scans.
func (s *ReconcileService) openSessionFor(actor models.Actor, sessionID int) (*models.InventorySession, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !actor.CanManageSession(session.EmployeeID) {
		return nil, ErrForbidden
	}
	if session.Status != models.StatusInProgress && session.Status != models.StatusDraft {
		return nil, ErrInvalidTransition
	}

	return session, nil
}
