package locations

import (
	"fmt"

	"stocktake/internal/repository"
	custom_error "stocktake/pkg/errors"
	"stocktake/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LocationRepository struct {
	repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{repository: r}
}

func (r *LocationRepository) GetRegions() ([]models.Region, error) {
	var regions []models.Region
	query := r.repository.Goqu.Select("id", "name").From("regions").Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&regions); err != nil {
		return nil, fmt.Errorf("unable to select regions: %w", err)
	}

	return regions, nil
}

func (r *LocationRepository) GetCitiesByRegion(regionID int) ([]models.City, error) {
	var cities []models.City
	query := r.repository.Goqu.Select("id", "region_id", "name").
		From("cities").
		Where(goqu.Ex{"region_id": regionID}).
		Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&cities); err != nil {
		return nil, fmt.Errorf("unable to select cities: %w", err)
	}

	return cities, nil
}

func (r *LocationRepository) GetBuildingsByCity(cityID int) ([]models.Building, error) {
	var buildings []models.Building
	query := r.repository.Goqu.Select("id", "city_id", "name", "code").
		From("buildings").
		Where(goqu.Ex{"city_id": cityID}).
		Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&buildings); err != nil {
		return nil, fmt.Errorf("unable to select buildings: %w", err)
	}

	return buildings, nil
}

func (r *LocationRepository) FindRegionByName(name string) (*models.Region, error) {
	var region models.Region
	found, err := r.repository.Goqu.Select("id", "name").
		From("regions").
		Where(goqu.Ex{"name": name}).
		Executor().ScanStruct(&region)
	if err != nil {
		return nil, fmt.Errorf("unable to look up region: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &region, nil
}

func (r *LocationRepository) FindCityByName(name string) (*models.City, error) {
	var city models.City
	found, err := r.repository.Goqu.Select("id", "region_id", "name").
		From("cities").
		Where(goqu.Ex{"name": name}).
		Executor().ScanStruct(&city)
	if err != nil {
		return nil, fmt.Errorf("unable to look up city: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &city, nil
}

func (r *LocationRepository) FindBuildingByName(name string) (*models.Building, error) {
	var building models.Building
	found, err := r.repository.Goqu.Select("id", "city_id", "name", "code").
		From("buildings").
		Where(goqu.Ex{"name": name}).
		Executor().ScanStruct(&building)
	if err != nil {
		return nil, fmt.Errorf("unable to look up building: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &building, nil
}

func (r *LocationRepository) GetBuilding(id int) (*models.Building, error) {
	var building models.Building
	found, err := r.repository.Goqu.Select("id", "city_id", "name", "code").
		From("buildings").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&building)
	if err != nil {
		return nil, fmt.Errorf("unable to look up building: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &building, nil
}

func (r *LocationRepository) PersistRegion(region *models.Region) error {
	query := r.repository.Goqu.Insert("regions").
		Rows(goqu.Record{"name": region.Name}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&region.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate region name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert region record: %w", err)
	}

	return nil
}

func (r *LocationRepository) PersistCity(city *models.City) error {
	query := r.repository.Goqu.Insert("cities").
		Rows(goqu.Record{"region_id": city.RegionID, "name": city.Name}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&city.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate city name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert city record: %w", err)
	}

	return nil
}

func (r *LocationRepository) PersistBuilding(building *models.Building) error {
	query := r.repository.Goqu.Insert("buildings").
		Rows(goqu.Record{
			"city_id": building.CityID,
			"name":    building.Name,
			"code":    building.Code,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&building.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate building name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert building record: %w", err)
	}

	return nil
}
