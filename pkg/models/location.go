package models

// Region -> City -> Building reference tree. Children cascade on delete,
// assets pointing at any level are nulled instead so history survives.
type Region struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type City struct {
	ID       int    `json:"id" db:"id"`
	RegionID int    `json:"region_id" db:"region_id"`
	Name     string `json:"name" db:"name"`
}

type Building struct {
	ID     int     `json:"id" db:"id"`
	CityID int     `json:"city_id" db:"city_id"`
	Name   string  `json:"name" db:"name"`
	Code   *string `json:"code" db:"code"`
}

// LocationRef is the denormalized region/city/building triple carried by
// sessions and assets.
type LocationRef struct {
	RegionID   *int `json:"region_id" db:"region_id"`
	CityID     *int `json:"city_id" db:"city_id"`
	BuildingID *int `json:"building_id" db:"building_id"`
}
