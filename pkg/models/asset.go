package models

import "time"

// TypeUnspecified is the sentinel category type for assets created during
// scanning without an explicit type.
const TypeUnspecified = "unspecified"

const (
	AssetStatusActive  = "active"
	AssetStatusRetired = "retired"
)

type Asset struct {
	ID          int     `json:"id" db:"id"`
	AssetCode   string  `json:"asset_code" db:"asset_code"`
	Barcode     string  `json:"barcode" db:"barcode"`
	OldBarcode  *string `json:"old_barcode" db:"old_barcode"`
	Description string  `json:"description" db:"description"`
	PhoneNumber *string `json:"phone_number" db:"phone_number"`

	MainCategory string `json:"main_category" db:"main_category"`
	Type         string `json:"type" db:"type"`
	SubCategory  string `json:"sub_category" db:"sub_category"`

	RegionID   *int `json:"region_id" db:"region_id"`
	CityID     *int `json:"city_id" db:"city_id"`
	BuildingID *int `json:"building_id" db:"building_id"`

	Status    string  `json:"status" db:"status"`
	Condition *string `json:"condition" db:"condition"`

	CustodianNumber *string `json:"custodian_number" db:"custodian_number"`
	CustodianName   *string `json:"custodian_name" db:"custodian_name"`
	CustodianType   *string `json:"custodian_type" db:"custodian_type"`

	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	CreatedByUsername string    `json:"created_by" db:"created_by_username"`
}

type AssetRequest struct {
	AssetCode    string  `json:"asset_code" binding:"required"`
	Barcode      string  `json:"barcode" binding:"required"`
	OldBarcode   *string `json:"old_barcode"`
	Description  string  `json:"description"`
	PhoneNumber  *string `json:"phone_number"`
	MainCategory string  `json:"main_category"`
	Type         string  `json:"type"`
	SubCategory  string  `json:"sub_category"`
	RegionID     *int    `json:"region_id"`
	CityID       *int    `json:"city_id"`
	BuildingID   *int    `json:"building_id"`
	Status       string  `json:"status"`
	Condition    *string `json:"condition"`

	CustodianNumber *string `json:"custodian_number"`
	CustodianName   *string `json:"custodian_name"`
	CustodianType   *string `json:"custodian_type"`
}
