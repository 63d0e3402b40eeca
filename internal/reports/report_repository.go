package reports

import (
	"fmt"

	"stocktake/internal/repository"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// ItemRow is one exported line of a session report: the item snapshot
// joined with what the asset register currently says about the asset.
type ItemRow struct {
	Barcode       string  `db:"barcode"`
	AssetCode     *string `db:"asset_code"`
	Description   *string `db:"description"`
	Status        string  `db:"status"`
	ScannedAt     *string `db:"scanned_at"`
	AddedManually bool    `db:"added_manually"`
	Notes         *string `db:"notes"`
}

// SessionRow is one line of the sessions backup export.
type SessionRow struct {
	ID           int     `db:"id"`
	EmployeeID   int     `db:"employee_id"`
	Status       string  `db:"status"`
	StartTime    string  `db:"start_time"`
	EndTime      *string `db:"end_time"`
	RegionName   *string `db:"region_name"`
	CityName     *string `db:"city_name"`
	BuildingName *string `db:"building_name"`
	FoundCount   int     `db:"found_count"`
	MissingCount int     `db:"missing_count"`
	NewCount     int     `db:"new_count"`
}

type ReportRepository struct {
	repository *repository.Repository
}

func NewReportRepository(r *repository.Repository) *ReportRepository {
	return &ReportRepository{repository: r}
}

func (r *ReportRepository) GetSessionItems(sessionID int) ([]ItemRow, error) {
	var rows []ItemRow
	query := r.repository.Goqu.
		Select(
			goqu.I("i.barcode"),
			goqu.I("a.asset_code"),
			goqu.I("a.description"),
			goqu.I("i.status"),
			goqu.L("to_char(i.scanned_at, 'YYYY-MM-DD HH24:MI:SS')").As("scanned_at"),
			goqu.I("i.added_manually"),
			goqu.I("i.notes"),
		).
		From(goqu.T("inventory_items").As("i")).
		LeftJoin(goqu.T("assets").As("a"), goqu.On(goqu.I("i.asset_id").Eq(goqu.I("a.id")))).
		Where(goqu.I("i.session_id").Eq(sessionID)).
		Order(goqu.I("i.id").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to select session items for export: %w", err)
	}

	return rows, nil
}

func (r *ReportRepository) GetAllSessions() ([]SessionRow, error) {
	counter := func(status models.ItemStatus, alias string) interface{} {
		return goqu.L("COUNT(CASE WHEN i.status = ? THEN 1 END)", string(status)).As(alias)
	}

	var rows []SessionRow
	query := r.repository.Goqu.
		Select(
			goqu.I("s.id"),
			goqu.I("s.employee_id"),
			goqu.I("s.status"),
			goqu.L("to_char(s.start_time, 'YYYY-MM-DD HH24:MI:SS')").As("start_time"),
			goqu.L("to_char(s.end_time, 'YYYY-MM-DD HH24:MI:SS')").As("end_time"),
			goqu.I("r.name").As("region_name"),
			goqu.I("c.name").As("city_name"),
			goqu.I("b.name").As("building_name"),
			counter(models.ItemFound, "found_count"),
			counter(models.ItemMissing, "missing_count"),
			counter(models.ItemNew, "new_count"),
		).
		From(goqu.T("inventory_sessions").As("s")).
		LeftJoin(goqu.T("inventory_items").As("i"), goqu.On(goqu.I("i.session_id").Eq(goqu.I("s.id")))).
		LeftJoin(goqu.T("regions").As("r"), goqu.On(goqu.I("s.region_id").Eq(goqu.I("r.id")))).
		LeftJoin(goqu.T("cities").As("c"), goqu.On(goqu.I("s.city_id").Eq(goqu.I("c.id")))).
		LeftJoin(goqu.T("buildings").As("b"), goqu.On(goqu.I("s.building_id").Eq(goqu.I("b.id")))).
		GroupBy(
			goqu.I("s.id"), goqu.I("s.employee_id"), goqu.I("s.status"),
			goqu.I("s.start_time"), goqu.I("s.end_time"),
			goqu.I("r.name"), goqu.I("c.name"), goqu.I("b.name"),
		).
		Order(goqu.I("s.id").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to select sessions for export: %w", err)
	}

	return rows, nil
}
