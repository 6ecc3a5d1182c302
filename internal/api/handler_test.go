package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/lo"

	"github.com/mtlprog/pricedeck/internal/deck"
	"github.com/mtlprog/pricedeck/internal/domain"
	"github.com/mtlprog/pricedeck/internal/store"
)

type mockRepo struct {
	items  map[int64]domain.Item
	series map[int64][]domain.HistoricalPrice
	rates  []domain.ReferenceRate
	err    error
}

func (m *mockRepo) GetItem(_ context.Context, id int64) (domain.Item, error) {
	if m.err != nil {
		return domain.Item{}, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, store.ErrNotFound
	}
	return item, nil
}

func (m *mockRepo) PriceHistory(_ context.Context, itemID int64) ([]domain.HistoricalPrice, error) {
	return m.series[itemID], nil
}

func (m *mockRepo) ReferenceRates(_ context.Context, _ []int) ([]domain.ReferenceRate, error) {
	return m.rates, nil
}

type mockCatalog struct {
	randomID  int64
	randomErr error
	items     []domain.Item
	listErr   error
}

func (m *mockCatalog) RandomItemID(_ context.Context) (int64, error) {
	return m.randomID, m.randomErr
}

func (m *mockCatalog) ListItems(_ context.Context) ([]domain.Item, error) {
	return m.items, m.listErr
}

func price(year int, p string) domain.HistoricalPrice {
	return domain.HistoricalPrice{ItemID: 1, Year: year, Price: lo.ToPtr(p)}
}

func btc(year, month int, p string) domain.ReferenceRate {
	return domain.ReferenceRate{Year: year, Month: month, Price: lo.ToPtr(p)}
}

func newTestRepo() *mockRepo {
	return &mockRepo{
		items: map[int64]domain.Item{
			1: {ID: 1, Name: "Coffee", Unit: "cup", Category: "food"},
			2: {ID: 2, Name: "Rent", Unit: "month", Category: "housing"},
		},
		series: map[int64][]domain.HistoricalPrice{
			1: {price(2015, "3.69"), price(2020, "4.68"), price(2025, "5.70")},
			2: {price(2022, "1800"), price(2025, "2100")},
		},
		rates: []domain.ReferenceRate{btc(2015, 7, "288.45"), btc(2020, 7, "11042.40"), btc(2025, 7, "115758.20")},
	}
}

func newTestHandler(repo *mockRepo, items *mockCatalog) *Handler {
	return NewHandler(deck.NewEngine(repo, deck.DefaultParams()), items)
}

func TestGetDeckSuccess(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/v1/deck/1?year=2025", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.GetDeck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var d domain.Deck
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatalf("decoding deck: %v", err)
	}
	if d.Snapshots.Y0.BTC.Sats != 4924 {
		t.Errorf("y0 sats = %d, want 4924", d.Snapshots.Y0.BTC.Sats)
	}
	if d.FiveYearChanges.Fiat.Y10ToY0.AbsPct != 54.47 {
		t.Errorf("fiat y10_to_y0 = %v, want 54.47", d.FiveYearChanges.Fiat.Y10ToY0.AbsPct)
	}
}

func TestGetDeckInvalidID(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/v1/deck/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	handler.GetDeck(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetDeckInvalidQuery(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	for _, query := range []string{"year=soon", "year=-4", "btc_cagr=lots", "btc_cagr=-1", "btc_cagr=NaN", "btc_cagr=Inf", "btc_cagr=-Inf"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/deck/1?"+query, nil)
		req.SetPathValue("id", "1")
		w := httptest.NewRecorder()
		handler.GetDeck(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, w.Code)
		}
	}
}

func TestGetDeckNotFound(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/v1/deck/99?year=2025", nil)
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	handler.GetDeck(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetDeckNoUsableData(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	// Item 2 has no row at or before 2015.
	req := httptest.NewRequest(http.MethodGet, "/v1/deck/2?year=2025", nil)
	req.SetPathValue("id", "2")
	w := httptest.NewRecorder()
	handler.GetDeck(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "item not found or no data" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGetDeckStoreError(t *testing.T) {
	repo := newTestRepo()
	repo.err = errors.New("connection refused")
	handler := newTestHandler(repo, &mockCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/v1/deck/1", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.GetDeck(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestGetDeckBTCCAGROverride(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	get := func(url string) domain.Deck {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("id", "1")
		w := httptest.NewRecorder()
		handler.GetDeck(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", url, w.Code)
		}
		var d domain.Deck
		json.NewDecoder(w.Body).Decode(&d)
		return d
	}

	base := get("/v1/deck/1?year=2025")
	flat := get("/v1/deck/1?year=2025&btc_cagr=0")

	if flat.Assumptions.BTCCAGR != 0 {
		t.Errorf("btc_cagr = %v, want 0", flat.Assumptions.BTCCAGR)
	}
	if flat.Projections.Y10.Sats <= base.Projections.Y10.Sats {
		t.Errorf("flat btc should leave more sats: %d vs %d", flat.Projections.Y10.Sats, base.Projections.Y10.Sats)
	}
	if flat.Snapshots.Y0.BTC != base.Snapshots.Y0.BTC {
		t.Error("snapshots must not change with btc_cagr")
	}
}

func TestGetRandomDeck(t *testing.T) {
	tests := []struct {
		name       string
		catalog    *mockCatalog
		wantStatus int
		wantError  string
	}{
		{"success", &mockCatalog{randomID: 1}, http.StatusOK, ""},
		{"no items", &mockCatalog{randomErr: store.ErrNotFound}, http.StatusNotFound, "no items"},
		{"no usable data", &mockCatalog{randomID: 2}, http.StatusNotFound, "random item had no usable data"},
		{"store failure", &mockCatalog{randomErr: errors.New("boom")}, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(newTestRepo(), tt.catalog)

			req := httptest.NewRequest(http.MethodGet, "/v1/deck/random?year=2025", nil)
			w := httptest.NewRecorder()
			handler.GetRandomDeck(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				var body map[string]string
				json.NewDecoder(w.Body).Decode(&body)
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestListItemsSearch(t *testing.T) {
	items := &mockCatalog{items: []domain.Item{
		{ID: 1, Name: "Coffee"},
		{ID: 2, Name: "Rent, 1 bedroom"},
	}}
	handler := newTestHandler(newTestRepo(), items)

	req := httptest.NewRequest(http.MethodGet, "/v1/items?q=cof", nil)
	w := httptest.NewRecorder()
	handler.ListItems(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got []domain.Item
	json.NewDecoder(w.Body).Decode(&got)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("items = %+v, want only Coffee", got)
	}
}

func TestListItemsNoMatchIsEmptyArray(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{items: []domain.Item{{ID: 1, Name: "Coffee"}}})

	req := httptest.NewRequest(http.MethodGet, "/v1/items?q=zzz", nil)
	w := httptest.NewRecorder()
	handler.ListItems(w, req)

	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(newTestRepo(), &mockCatalog{})

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("health = %d %q, want 200 ok", w.Code, w.Body.String())
	}
}
