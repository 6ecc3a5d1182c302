package domain

// Item is a tracked consumer good.
type Item struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
	ImageURL     *string `json:"image_url,omitempty"`
	SourceMethod *string `json:"source_method,omitempty"`
}

// HistoricalPrice is one yearly local-currency observation of an item's price.
// Price holds the stored value as text; nil means the row exists without a price.
type HistoricalPrice struct {
	ItemID int64
	Year   int
	Price  *string
}

// ReferenceRate is the monthly BTC quote in the local currency.
type ReferenceRate struct {
	Year  int
	Month int
	Price *string
}
