package entity

type Court struct {
	BaseNoDelete
	Name         string  `db:"name"`
	Sport        string  `db:"sport"`
	Address      string  `db:"address"`
	City         string  `db:"city"`
	Description  string  `db:"description"`
	ImageURL     string  `db:"image_url"`
	PricePerHour float64 `db:"price_per_hour"`
}
