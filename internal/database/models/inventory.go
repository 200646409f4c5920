package models

import "time"

// Device is a monitored network element. Grouping columns feed the uptime
// report's pop_site/area/fdh rollups.
type Device struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	PopSiteID *string   `json:"pop_site_id,omitempty" db:"pop_site_id"`
	AreaID    *string   `json:"area_id,omitempty" db:"area_id"`
	FdhID     *string   `json:"fdh_id,omitempty" db:"fdh_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DeviceGroupRow is a device joined with its grouping dimension names,
// used by the uptime aggregator
type DeviceGroupRow struct {
	DeviceID    string  `json:"device_id" db:"device_id"`
	DeviceName  string  `json:"device_name" db:"device_name"`
	PopSiteID   *string `json:"pop_site_id,omitempty" db:"pop_site_id"`
	PopSiteName *string `json:"pop_site_name,omitempty" db:"pop_site_name"`
	AreaID      *string `json:"area_id,omitempty" db:"area_id"`
	AreaName    *string `json:"area_name,omitempty" db:"area_name"`
	FdhID       *string `json:"fdh_id,omitempty" db:"fdh_id"`
	FdhName     *string `json:"fdh_name,omitempty" db:"fdh_name"`
}

// PopSite is a point-of-presence site grouping devices
type PopSite struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Area is a coverage area grouping devices
type Area struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Fdh is a fiber distribution hub grouping devices
type Fdh struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
