package domain

// FiatValue is a local-currency amount rounded for output.
type FiatValue struct {
	Value float64 `json:"value"`
}

// BTCAmount is a BTC amount and its sats equivalent. Both are zero when no BTC
// quote was usable, so consumers can hide BTC sections.
type BTCAmount struct {
	BTC  float64 `json:"btc"`
	Sats int64   `json:"sats"`
}

// SmallItemMetrics describes how many units a round sum buys.
type SmallItemMetrics struct {
	UnitsPer100   float64 `json:"unitsPer100"`
	Applicability string  `json:"applicability"`
}

// Snapshot is a resolved (year, price, BTC amount) observation.
type Snapshot struct {
	Date             string            `json:"date"`
	Fiat             FiatValue         `json:"fiat"`
	BTC              BTCAmount         `json:"btc"`
	BTCPriceUsed     float64           `json:"btc_price_used"`
	SmallItemMetrics *SmallItemMetrics `json:"small_item_metrics,omitempty"`

	// Year is the series year the snapshot was resolved to.
	Year int `json:"-"`
	// ExactFiat and ExactBTC are the values before output rounding.
	ExactFiat float64 `json:"-"`
	ExactBTC  float64 `json:"-"`
}

// Snapshots holds the three anchored observations.
type Snapshots struct {
	Y10 Snapshot `json:"y10"`
	Y5  Snapshot `json:"y5"`
	Y0  Snapshot `json:"y0"`
}

// Projection is an extrapolated future value.
type Projection struct {
	Fiat float64 `json:"fiat"`
	BTC  float64 `json:"btc"`
	Sats int64   `json:"sats"`
}

// Projections holds the forward projections for both horizons.
type Projections struct {
	Y5  Projection `json:"y5"`
	Y10 Projection `json:"y10"`
}

// Change is a percentage change between two snapshots.
type Change struct {
	AbsPct  float64 `json:"abs_pct"`
	CAGRPct float64 `json:"cagr_pct"`
}

// ChangeSet holds the changes across the three snapshot pairs.
type ChangeSet struct {
	Y10ToY5 Change `json:"y10_to_y5"`
	Y5ToY0  Change `json:"y5_to_y0"`
	Y10ToY0 Change `json:"y10_to_y0"`
}

// FiveYearChanges holds changes for the fiat value and the BTC amount.
type FiveYearChanges struct {
	Fiat      ChangeSet `json:"fiat"`
	BTCAmount ChangeSet `json:"btc_amount"`
}

// DeckParams records the inputs a deck was computed with.
type DeckParams struct {
	ItemID           int64 `json:"item_id"`
	AnchorYear       int   `json:"anchor_year"`
	AnchorMonth      int   `json:"anchor_month"`
	SnapOffsetsYears []int `json:"snap_offsets_years"`
}

// TrailingRates are the unrounded fiat compound growth rates behind the projections.
type TrailingRates struct {
	Y5  float64 `json:"y5"`
	Y10 float64 `json:"y10"`
}

// Assumptions exposes everything needed to recompute projections without
// re-deriving anchors.
type Assumptions struct {
	FiatCurrency string        `json:"fiat_currency"`
	BTCCAGR      float64       `json:"btc_cagr"`
	FiatCAGR     TrailingRates `json:"fiat_cagr"`
	Rounding     string        `json:"rounding"`
}

// Deck is the complete per-item response.
type Deck struct {
	Item            Item            `json:"item"`
	Snapshots       Snapshots       `json:"snapshots"`
	Projections     Projections     `json:"projections"`
	FiveYearChanges FiveYearChanges `json:"five_year_changes"`
	Params          DeckParams      `json:"params"`
	Assumptions     Assumptions     `json:"assumptions"`
}
