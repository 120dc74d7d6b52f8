package usecases_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/dst"
)

// --- Mock AirportSource ---

type mockAirportSource struct {
	listFn func(ctx context.Context) ([]domain.Airport, error)
}

func (m *mockAirportSource) List(ctx context.Context) ([]domain.Airport, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Fixtures ---

var testAirports = []domain.Airport{
	{ICAO: "YPPH", IATA: "PER", Name: "Perth", Location: domain.GeoPoint{Lat: -31.9403, Lon: 115.9669}, UTCOffset: 8, DST: dst.None},
	{ICAO: "EGLL", IATA: "LHR", Name: "Heathrow", Location: domain.GeoPoint{Lat: 51.4775, Lon: -0.4614}, UTCOffset: 0, DST: dst.Europe},
	{ICAO: "KJFK", IATA: "JFK", Name: "John F Kennedy Intl", Location: domain.GeoPoint{Lat: 40.6398, Lon: -73.7789}, UTCOffset: -5, DST: dst.USCanada},
	{ICAO: "YSSY", IATA: "SYD", Name: "Sydney Kingsford Smith", Location: domain.GeoPoint{Lat: -33.9461, Lon: 151.1772}, UTCOffset: 10, DST: dst.Australia},
	{ICAO: "KLAX", IATA: "LAX", Name: "Los Angeles Intl", Location: domain.GeoPoint{Lat: 33.9425, Lon: -118.4081}, UTCOffset: -8, DST: dst.USCanada},
	{ICAO: "NZAA", IATA: "AKL", Name: "Auckland", Location: domain.GeoPoint{Lat: -37.0081, Lon: 174.7917}, UTCOffset: 12, DST: dst.NewZealand},
	{ICAO: "VIDP", IATA: "DEL", Name: "Indira Gandhi Intl", Location: domain.GeoPoint{Lat: 28.5665, Lon: 77.1031}, UTCOffset: 5.5, DST: dst.None},
	{ICAO: "VNKT", IATA: "KTM", Name: "Tribhuvan Intl", Location: domain.GeoPoint{Lat: 27.6966, Lon: 85.3591}, UTCOffset: 5.75, DST: dst.Unknown},
	{ICAO: "PHNL", IATA: "HNL", Name: "Honolulu Intl", Location: domain.GeoPoint{Lat: 21.3187, Lon: -157.9225}, UTCOffset: -10, DST: dst.None},
	{ICAO: "YPAD", IATA: "ADL", Name: "Adelaide", Location: domain.GeoPoint{Lat: -34.945, Lon: 138.5306}, UTCOffset: 9.5, DST: dst.Australia},
	{ICAO: "ZZZZ", Name: "No IATA"},
	{IATA: "XXQ", Name: "No ICAO"},
}

func loadedDirectory(t *testing.T, airports ...domain.Airport) *usecases.AirportService {
	t.Helper()
	if len(airports) == 0 {
		airports = testAirports
	}
	svc := usecases.NewAirportService(&mockAirportSource{
		listFn: func(ctx context.Context) ([]domain.Airport, error) { return airports, nil },
	})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load directory: %v", err)
	}
	return svc
}

// --- Tests ---

func TestAirportService_Lookup(t *testing.T) {
	svc := loadedDirectory(t)

	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"YPPH", "YPPH", true},
		{"ypph", "YPPH", true},
		{" per ", "YPPH", true},
		{"LHR", "EGLL", true},
		{"XXQ", "", true},
		{"ZZZZ", "ZZZZ", true},
		{"EGKK", "", false},
		{"", "", false},
		{"EG", "", false},
		{"EGLLX", "", false},
	}
	for _, tc := range tests {
		a, ok := svc.Lookup(tc.code)
		if ok != tc.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tc.code, ok, tc.ok)
			continue
		}
		if ok && a.ICAO != tc.want {
			t.Errorf("Lookup(%q) = %s, want %s", tc.code, a.ICAO, tc.want)
		}
	}
}

func TestAirportService_LookupBeforeLoad(t *testing.T) {
	svc := usecases.NewAirportService(&mockAirportSource{})
	if svc.Loaded() {
		t.Error("expected not loaded")
	}
	if _, ok := svc.Lookup("EGLL"); ok {
		t.Error("expected miss before load")
	}
	if page, total := svc.List(0, 10); page != nil || total != 0 {
		t.Errorf("expected empty list, got %d/%d", len(page), total)
	}
}

func TestAirportService_Translate(t *testing.T) {
	svc := loadedDirectory(t)

	if icao, ok := svc.ToICAO("syd"); !ok || icao != "YSSY" {
		t.Errorf("ToICAO(syd) = %q, %v", icao, ok)
	}
	if iata, ok := svc.ToIATA("YSSY"); !ok || iata != "SYD" {
		t.Errorf("ToIATA(YSSY) = %q, %v", iata, ok)
	}
	if _, ok := svc.ToIATA("ZZZZ"); ok {
		t.Error("ToIATA(ZZZZ) should miss, no IATA code")
	}
	if _, ok := svc.ToICAO("XXQ"); ok {
		t.Error("ToICAO(XXQ) should miss, no ICAO code")
	}
	if p, ok := svc.Coordinates("LAX"); !ok || p.Lat != 33.9425 {
		t.Errorf("Coordinates(LAX) = %+v, %v", p, ok)
	}
}

func TestAirportService_Get_NotFound(t *testing.T) {
	svc := loadedDirectory(t)
	_, err := svc.Get("QQQQ")
	if !errors.Is(err, domain.ErrAirportNotFound) {
		t.Errorf("expected ErrAirportNotFound, got %v", err)
	}
}

func TestAirportService_SkipsInvalidProfiles(t *testing.T) {
	nan := math.NaN()
	svc := loadedDirectory(t,
		domain.Airport{ICAO: "EGLL", Location: domain.GeoPoint{Lat: 51.4775, Lon: -0.4614}},
		domain.Airport{ICAO: "XNAN", Location: domain.GeoPoint{Lat: nan, Lon: 0}},
		domain.Airport{ICAO: "XINF", Location: domain.GeoPoint{Lat: 0, Lon: math.Inf(1)}},
		domain.Airport{ICAO: "XOFF", UTCOffset: nan},
		domain.Airport{ICAO: "XLAT", Location: domain.GeoPoint{Lat: 95, Lon: 0}},
	)
	for _, code := range []string{"XNAN", "XINF", "XOFF", "XLAT"} {
		if _, ok := svc.Lookup(code); ok {
			t.Errorf("%s should have been skipped", code)
		}
	}
	if _, total := svc.List(0, 10); total != 1 {
		t.Errorf("expected 1 airport, got %d", total)
	}
}

func TestAirportService_LoadError(t *testing.T) {
	svc := loadedDirectory(t)

	boom := errors.New("db down")
	failing := usecases.NewAirportService(&mockAirportSource{
		listFn: func(ctx context.Context) ([]domain.Airport, error) { return nil, boom },
	})
	if err := failing.Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if failing.Loaded() {
		t.Error("failed load must not publish a snapshot")
	}
	if _, ok := svc.Lookup("EGLL"); !ok {
		t.Error("unrelated directory affected")
	}
}

func TestAirportService_ReloadSwapsSnapshot(t *testing.T) {
	data := []domain.Airport{{ICAO: "EGLL", IATA: "LHR"}}
	svc := usecases.NewAirportService(&mockAirportSource{
		listFn: func(ctx context.Context) ([]domain.Airport, error) { return data, nil },
	})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	data = []domain.Airport{{ICAO: "KJFK", IATA: "JFK"}}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Lookup("EGLL"); ok {
		t.Error("stale airport after reload")
	}
	if _, ok := svc.Lookup("JFK"); !ok {
		t.Error("new airport missing after reload")
	}
}

func TestAirportService_List(t *testing.T) {
	svc := loadedDirectory(t)

	page, total := svc.List(0, 3)
	if total != len(testAirports) {
		t.Errorf("total = %d, want %d", total, len(testAirports))
	}
	if len(page) != 3 {
		t.Fatalf("page size = %d", len(page))
	}
	for i := 1; i < len(page); i++ {
		if page[i-1].Code() >= page[i].Code() {
			t.Errorf("not sorted: %s >= %s", page[i-1].Code(), page[i].Code())
		}
	}

	page, _ = svc.List(total-1, 10)
	if len(page) != 1 {
		t.Errorf("last page size = %d, want 1", len(page))
	}
	page, _ = svc.List(total+5, 10)
	if len(page) != 0 {
		t.Errorf("past-end page size = %d, want 0", len(page))
	}
	page, _ = svc.List(-4, 0)
	if len(page) != total {
		t.Errorf("default limit page size = %d, want %d", len(page), total)
	}
}

func TestAirportService_ConcurrentReads(t *testing.T) {
	svc := loadedDirectory(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := svc.Lookup("SYD"); !ok {
					t.Error("lookup miss during reload")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			_ = svc.Load(context.Background())
		}()
	}
	wg.Wait()
}
