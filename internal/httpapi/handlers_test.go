package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liammartens/isochronego/internal/timetable"
)

type fakeSource struct {
	stops []timetable.Stop
	trips []timetable.Trip
}

func (f fakeSource) Stops() []timetable.Stop         { return f.stops }
func (f fakeSource) Trips() []timetable.Trip         { return f.trips }
func (f fakeSource) Transfers() []timetable.Transfer { return nil }

func testService(t *testing.T) *Service {
	t.Helper()
	src := fakeSource{
		stops: []timetable.Stop{{ID: 1, Latitude: 46.95, Longitude: 7.45, TransferEligible: true}},
	}
	tt, err := timetable.Build(src, timetable.NewExchangeTimeTable(60))
	require.NoError(t, err)

	return &Service{
		Timetable:  tt,
		NumThreads: 2,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local),
		EndDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.Local),
	}
}

func TestHandleMetadataReturnsDates(t *testing.T) {
	s := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/metadata", nil)
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-01-01")
}

func TestHandleIsochronesRejectsNonDivisibleInterval(t *testing.T) {
	s := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/isochrones?origin_point_latitude=46.95&origin_point_longitude=7.45&departure_date=2026-06-15&departure_time=08:00:00&time_limit=45&isochrone_interval=7", nil)
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleIsochronesRejectsInvalidDisplayMode(t *testing.T) {
	s := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/isochrones?origin_point_latitude=46.95&origin_point_longitude=7.45&departure_date=2026-06-15&departure_time=08:00:00&time_limit=30&isochrone_interval=10&display_mode=bogus", nil)
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
