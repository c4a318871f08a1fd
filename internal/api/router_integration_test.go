//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/stockdash/config"
	"github.com/guttosm/stockdash/internal/app"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/storage"
)

func startPG(t *testing.T) (dsn string, host string, port nat.Port, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "stockdash",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stockdash sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "stockdash")
	terminate = func() { _ = c.Terminate(context.Background()) }
	return dsn, h, mp, terminate
}

func seedBars(t *testing.T, dsn string) {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, storage.DialectPostgres); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := storage.NewBarsRepository(db, storage.DialectPostgres)
	err = repo.ReplaceBars(context.Background(), "E2E", models.PriceSeries{
		{Date: "2024-04-18", Open: 10.5, High: 12, Low: 10, Close: 11.75, Volume: 40},
		{Date: "2024-04-19", Open: 11.75, High: 12.5, Low: 11, Close: 12, Volume: 60},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestAPI_E2E_StaticStoreFromPostgres(t *testing.T) {
	dsn, host, port, term := startPG(t)
	defer term()
	seedBars(t, dsn)

	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })

	p, _ := nat.ParsePort(port.Port())
	config.AppConfig = config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Yahoo:  config.YahooConfig{ChartURL: "http://127.0.0.1:1/chart", QuoteURL: "http://127.0.0.1:1/quote", Timeout: time.Second},
		Store:  config.StoreConfig{Backend: config.StorePostgres},
		Postgres: config.PostgresConfig{
			Host: host, Port: p, User: "postgres", Password: "postgres", DBName: "stockdash", SSLMode: "disable",
		},
		Dashboard: config.DashboardConfig{BackendURL: "http://127.0.0.1:1", Timeout: time.Second},
	}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	cases := []struct {
		name  string
		path  string
		dates []string
	}{
		{name: "static", path: "/api/stock-data?symbol=e2e&static=true", dates: []string{"2024-04-18", "2024-04-19"}},
		// upstream unreachable, live falls back to the stored rows
		{name: "live fallback", path: "/api/stock-data?symbol=E2E", dates: []string{"2024-04-18", "2024-04-19"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
			}
			if w.Header().Get("X-Data-Source") != "static" {
				t.Fatalf("source=%q", w.Header().Get("X-Data-Source"))
			}
			var bars models.PriceSeries
			if err := json.Unmarshal(w.Body.Bytes(), &bars); err != nil {
				t.Fatalf("json: %v", err)
			}
			if len(bars) != len(tt.dates) {
				t.Fatalf("unexpected body: %+v", bars)
			}
			for i, b := range bars {
				if b.Date != tt.dates[i] || b.Demo() {
					t.Fatalf("bar %d: %+v", i, b)
				}
			}
		})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
}
