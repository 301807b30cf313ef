package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"

	"MiniCart/internal/auth"
	"MiniCart/internal/catalog"
	"MiniCart/internal/events"
)

const secret = "0123456789abcdef0123456789abcdef"

var seed = []byte(`[
	{"name":"Sledgehammer","price":125.75},
	{"name":"Axe","price":190.50},
	{"name":"Bandsaw","price":562.131},
	{"name":"Chisel","price":12.9}
]`)

type fixture struct {
	ts     *httptest.Server
	store  *catalog.MemStore
	events *events.Recorder
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	list, err := catalog.ParseProductList(seed)
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}

	store := catalog.NewMemStore()
	rec := &events.Recorder{}
	s := catalog.NewServer(store, zap.NewNop(), rec)
	if err := s.Bootstrap(context.Background(), list); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	tm := auth.NewTokenMaker(secret)
	tok, err := tm.New("ops", auth.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
		Tokens:  tm,
	}))
	t.Cleanup(ts.Close)

	return &fixture{ts: ts, store: store, events: rec, token: tok}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte, admin bool) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, f.ts.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp, raw
}

type row struct {
	Name    string          `json:"name"`
	Price   json.RawMessage `json:"price"`
	AddLink string          `json:"add_link"`
}

func TestCatalog_ListKeepsInsertionOrderAndRawPrices(t *testing.T) {
	f := newFixture(t)

	resp, raw := f.do(t, http.MethodGet, "/products", nil, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}

	var rows []row
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatalf("decode: %v body=%s", err, raw)
	}
	if len(rows) != 4 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[2].Name != "Bandsaw" || string(rows[2].Price) != "562.131" {
		t.Fatalf("row[2]=%+v price=%s", rows[2], rows[2].Price)
	}
	if rows[0].AddLink != "?name=Sledgehammer" {
		t.Fatalf("add_link=%q", rows[0].AddLink)
	}
}

func TestCatalog_GetByName(t *testing.T) {
	f := newFixture(t)

	if resp, raw := f.do(t, http.MethodGet, "/products/Axe", nil, false); resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
	if resp, _ := f.do(t, http.MethodGet, "/products/Drill", nil, false); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestCatalog_GetByEscapedName(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"AC/DC", "50% Off", "Claw Hammer"} {
		body, err := json.Marshal(map[string]any{"name": name, "price": 10})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if resp, raw := f.do(t, http.MethodPost, "/products", body, true); resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %q status=%d body=%s", name, resp.StatusCode, raw)
		}

		resp, raw := f.do(t, http.MethodGet, "/products/"+url.PathEscape(name), nil, false)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get %q status=%d body=%s", name, resp.StatusCode, raw)
		}
		var got row
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Name != name {
			t.Fatalf("name=%q want=%q", got.Name, name)
		}
	}
}

func TestCatalog_WritesRequireAdmin(t *testing.T) {
	f := newFixture(t)

	if resp, _ := f.do(t, http.MethodPost, "/products", []byte(`{"name":"Hacksaw","price":18.45}`), false); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("post status=%d", resp.StatusCode)
	}
	if resp, _ := f.do(t, http.MethodPut, "/products", seed, false); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("put status=%d", resp.StatusCode)
	}
}

func TestCatalog_AddProduct(t *testing.T) {
	f := newFixture(t)

	resp, raw := f.do(t, http.MethodPost, "/products", []byte(`{"name":"Hacksaw","price":18.45}`), true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}

	resp, raw = f.do(t, http.MethodPost, "/products", []byte(`{"name":"Hacksaw","price":99}`), true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second add status=%d", resp.StatusCode)
	}
	var got row
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got.Price) != "18.45" {
		t.Fatalf("price=%s, first price must win", got.Price)
	}

	list, _ := f.store.Load(context.Background())
	if len(list) != 5 || list[4].Name != "Hacksaw" {
		t.Fatalf("store=%+v", list)
	}

	types := f.events.Types()
	if len(types) != 1 || types[0] != events.CatalogProductAdded {
		t.Fatalf("events=%v", types)
	}
}

func TestCatalog_ReplaceValidation(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{`[]`, `[{"price":1}]`, `{"name":"Axe","price":1}`} {
		resp, raw := f.do(t, http.MethodPut, "/products", []byte(body), true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: status=%d resp=%s", body, resp.StatusCode, raw)
		}
	}

	list, _ := f.store.Load(context.Background())
	if len(list) != 4 {
		t.Fatalf("store changed on invalid input: %+v", list)
	}
}

func TestCatalog_Replace(t *testing.T) {
	f := newFixture(t)

	resp, raw := f.do(t, http.MethodPut, "/products", []byte(`[{"name":"Hacksaw","price":18.45}]`), true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}

	_, raw = f.do(t, http.MethodGet, "/products", nil, false)
	var rows []row
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Hacksaw" {
		t.Fatalf("rows=%+v", rows)
	}

	types := f.events.Types()
	if len(types) != 1 || types[0] != events.CatalogUpdated {
		t.Fatalf("events=%v", types)
	}
}

func TestCatalog_BootstrapPrefersStoredCatalog(t *testing.T) {
	store := catalog.NewMemStore()
	list, _ := catalog.ParseProductList([]byte(`[{"name":"Hacksaw","price":18.45}]`))
	if err := store.Replace(context.Background(), list); err != nil {
		t.Fatalf("replace: %v", err)
	}

	s := catalog.NewServer(store, zap.NewNop(), nil)
	seedList, _ := catalog.ParseProductList(seed)
	if err := s.Bootstrap(context.Background(), seedList); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	stored, _ := store.Load(context.Background())
	if len(stored) != 1 {
		t.Fatalf("seed overwrote a non-empty store: %+v", stored)
	}
}
