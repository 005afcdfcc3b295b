package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"slotbook/internal/models"
	"slotbook/internal/slot"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func setupMockServer(t *testing.T) (*http.ServeMux, *SheetsService) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(), option.WithEndpoint(server.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("sheets.NewService: %v", err)
	}
	return mux, newSheetsService(srv, "bookings_tid")
}

func sampleBooking(id int64) (*models.Event, *models.Booking) {
	ev := &models.Event{ID: 3, Title: "Workshop", Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)}
	b := &models.Booking{
		ID:        id,
		EventID:   3,
		Name:      "Ada",
		Email:     "ada@example.com",
		StartTime: slot.MustClock("10:00"),
		EndTime:   slot.MustClock("11:00"),
		CreatedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
	}
	return ev, b
}

func TestBookingRowValues(t *testing.T) {
	ev, b := sampleBooking(7)
	row := bookingRowValues(ev, b)
	if len(row) != len(headerRow) {
		t.Fatalf("expected %d columns, got %d", len(headerRow), len(row))
	}
	if row[2] != "Workshop" || row[3] != "2026-11-02" {
		t.Errorf("unexpected event columns: %v", row[2:4])
	}
	if row[4] != "10:00" || row[5] != "11:00" {
		t.Errorf("unexpected time columns: %v", row[4:6])
	}
	if row[8] != "2026-10-01 09:30:00" {
		t.Errorf("unexpected created at: %v", row[8])
	}

	noEvent := bookingRowValues(nil, b)
	if noEvent[2] != "" || noEvent[3] != "" {
		t.Errorf("expected blank event columns without event, got %v", noEvent[2:4])
	}
}

func TestRowFromRange(t *testing.T) {
	tests := []struct {
		in   string
		row  int
		want bool
	}{
		{"Bookings!A10:I10", 10, true},
		{"'Bookings'!A2", 2, true},
		{"garbage", 0, false},
	}
	for _, tt := range tests {
		row, ok := rowFromRange(tt.in)
		if ok != tt.want || row != tt.row {
			t.Errorf("rowFromRange(%q) = %d, %v; want %d, %v", tt.in, row, ok, tt.row, tt.want)
		}
	}
}

func TestWarmUpCache(t *testing.T) {
	mux, s := setupMockServer(t)
	mux.HandleFunc("/v4/spreadsheets/bookings_tid/values/Bookings!A:A", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{
			Values: [][]interface{}{{"ID"}, {"123"}, {}, {"456"}},
		})
	})

	if err := s.WarmUpCache(context.Background()); err != nil {
		t.Fatalf("WarmUpCache failed: %v", err)
	}
	if row, ok := s.getCachedRow(123); !ok || row != 2 {
		t.Errorf("expected row 2 for 123, got %d (ok=%v)", row, ok)
	}
	if row, ok := s.getCachedRow(456); !ok || row != 4 {
		t.Errorf("expected row 4 for 456, got %d (ok=%v)", row, ok)
	}
}

func TestAppendBooking_NewRow(t *testing.T) {
	mux, s := setupMockServer(t)
	mux.HandleFunc("GET /v4/spreadsheets/bookings_tid/values/Bookings!A:A", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"ID"}}})
	})
	var appended int32
	mux.HandleFunc("POST /v4/spreadsheets/bookings_tid/values/Bookings!A:A:append", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&appended, 1)
		_ = json.NewEncoder(w).Encode(sheets.AppendValuesResponse{
			Updates: &sheets.UpdateValuesResponse{UpdatedRange: "Bookings!A10:I10"},
		})
	})

	ev, b := sampleBooking(789)
	if err := s.AppendBooking(context.Background(), ev, b); err != nil {
		t.Fatalf("AppendBooking failed: %v", err)
	}
	if atomic.LoadInt32(&appended) != 1 {
		t.Errorf("expected one append call, got %d", appended)
	}
	if row, _ := s.getCachedRow(789); row != 10 {
		t.Errorf("expected cached row 10, got %d", row)
	}
}

func TestAppendBooking_ExistingRowIsOverwritten(t *testing.T) {
	mux, s := setupMockServer(t)
	s.setCachedRow(123, 2)

	var updated int32
	mux.HandleFunc("/v4/spreadsheets/bookings_tid/values/Bookings!A2:I2", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&updated, 1)
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})
	mux.HandleFunc("/v4/spreadsheets/bookings_tid/values/Bookings!A:A:append", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("append must not be called for an existing row")
	})

	ev, b := sampleBooking(123)
	if err := s.AppendBooking(context.Background(), ev, b); err != nil {
		t.Fatalf("AppendBooking failed: %v", err)
	}
	if atomic.LoadInt32(&updated) != 1 {
		t.Errorf("expected one update call, got %d", updated)
	}
}

func TestAppendBooking_RequiresID(t *testing.T) {
	_, s := setupMockServer(t)
	ev, b := sampleBooking(0)
	if err := s.AppendBooking(context.Background(), ev, b); err == nil {
		t.Error("expected error for booking without id")
	}
}

func TestFindBookingRow_NotFound(t *testing.T) {
	mux, s := setupMockServer(t)
	mux.HandleFunc("/v4/spreadsheets/bookings_tid/values/Bookings!A:A", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"ID"}, {float64(5)}}})
	})

	row, err := s.FindBookingRow(context.Background(), 5)
	if err != nil || row != 2 {
		t.Errorf("expected row 2, got %d (%v)", row, err)
	}
	if _, err := s.FindBookingRow(context.Background(), 6); err != ErrRowNotFound {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}
}

func TestEnsureHeaderAndConnection(t *testing.T) {
	mux, s := setupMockServer(t)
	mux.HandleFunc("/v4/spreadsheets/bookings_tid/values/Bookings!A1:I1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	})
	mux.HandleFunc("/v4/spreadsheets/bookings_tid/values/Bookings!A1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: [][]interface{}{{"ID"}}})
	})

	if err := s.EnsureHeader(context.Background()); err != nil {
		t.Errorf("EnsureHeader failed: %v", err)
	}
	if err := s.TestConnection(context.Background()); err != nil {
		t.Errorf("TestConnection failed: %v", err)
	}
}

func TestServiceAccountEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{"client_email":"bot@project.iam.gserviceaccount.com"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	email, err := ServiceAccountEmail(path)
	if err != nil {
		t.Fatalf("ServiceAccountEmail: %v", err)
	}
	if email != "bot@project.iam.gserviceaccount.com" {
		t.Errorf("unexpected email %q", email)
	}

	if _, err := ServiceAccountEmail(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
