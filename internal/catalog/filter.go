package catalog

// UnitFilter specifies criteria for listing units.
type UnitFilter struct {
	Datasource *string
	Path       *string
	Title      *string
	Year       *int
	Scraped    *bool
	NewlyAdded *bool
	SetID      *int64
	Limit      int // 0 = no limit
	Offset     int
}
