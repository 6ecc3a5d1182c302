package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// ErrNotFound indicates that the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// PgRepository reads items and price history from PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	var it domain.Item
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, unit, category, image_url, source_method
		 FROM item WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.Unit, &it.Category, &it.ImageURL, &it.SourceMethod)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, fmt.Errorf("getting item %d: %w", id, err)
	}
	return it, nil
}

// RandomItemID picks a random item that is not deleted.
func (r *PgRepository) RandomItemID(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM item WHERE is_deleted IS FALSE ORDER BY random() LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("picking random item: %w", err)
	}
	return id, nil
}

func (r *PgRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, unit, category, image_url, source_method
		 FROM item WHERE is_deleted IS FALSE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &it.Category, &it.ImageURL, &it.SourceMethod); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// PriceHistory returns every yearly price row of the item. Prices are read as text so
// that the engine decides what counts as numeric.
func (r *PgRepository) PriceHistory(ctx context.Context, itemID int64) ([]domain.HistoricalPrice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT item_id, year, price::text
		 FROM item_historical_price
		 WHERE item_id = $1
		 ORDER BY year`, itemID)
	if err != nil {
		return nil, fmt.Errorf("getting price history for item %d: %w", itemID, err)
	}
	defer rows.Close()

	var history []domain.HistoricalPrice
	for rows.Next() {
		var p domain.HistoricalPrice
		if err := rows.Scan(&p.ItemID, &p.Year, &p.Price); err != nil {
			return nil, fmt.Errorf("scanning price row: %w", err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price history: %w", err)
	}
	return history, nil
}

// ReferenceRates returns the monthly BTC quotes of the given years.
func (r *PgRepository) ReferenceRates(ctx context.Context, years []int) ([]domain.ReferenceRate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT year, month, price::text
		 FROM btc_monthly_price
		 WHERE year = ANY($1)
		 ORDER BY year, month`, years)
	if err != nil {
		return nil, fmt.Errorf("getting btc rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ReferenceRate
	for rows.Next() {
		var rate domain.ReferenceRate
		if err := rows.Scan(&rate.Year, &rate.Month, &rate.Price); err != nil {
			return nil, fmt.Errorf("scanning btc rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating btc rates: %w", err)
	}
	return rates, nil
}
