package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/ierr"
	"github.com/liammartens/isochronego/internal/isochrone"
)

type metadataResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Service) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metadataResponse{
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
	})
}

type isochroneMapResponse struct {
	Isochrones          []json.RawMessage `json:"isochrones"`
	Areas               []float64         `json:"areas"`
	MaxDistances        []float64         `json:"max_distances"`
	DepartureStopCoord  [2]float64        `json:"departure_stop_coord"`
	DepartureAt         string            `json:"departure_at"`
	BoundingBox         [2][2]float64     `json:"bounding_box"`
}

// handleIsochrones implements GET /isochrones exactly per spec §6's query
// parameter names, grounded on original_source/src/service.rs's
// ComputeIsochronesRequest.
func (s *Service) handleIsochrones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("origin_point_latitude"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("origin_point_longitude"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, ierr.ErrOutOfRange, "invalid origin_point_latitude/origin_point_longitude")
		return
	}

	departureDate := q.Get("departure_date")
	departureTime := q.Get("departure_time")
	departureAt, err := time.ParseInLocation("2006-01-02 15:04:05", departureDate+" "+departureTime, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, ierr.ErrOutOfRange, "invalid departure_date/departure_time")
		return
	}
	if departureAt.Before(s.StartDate) || departureAt.After(s.EndDate) {
		writeError(w, http.StatusBadRequest, ierr.ErrOutOfRange, "departure_at outside timetable validity window")
		return
	}

	timeLimitMinutes, err := strconv.Atoi(q.Get("time_limit"))
	if err != nil || timeLimitMinutes <= 0 {
		writeError(w, http.StatusBadRequest, ierr.ErrOutOfRange, "invalid time_limit")
		return
	}

	intervalMinutes, err := strconv.Atoi(q.Get("isochrone_interval"))
	if err != nil || intervalMinutes <= 0 || timeLimitMinutes%intervalMinutes != 0 {
		writeError(w, http.StatusBadRequest, ierr.ErrOutOfRange, "isochrone_interval must evenly divide time_limit")
		return
	}

	var mode isochrone.DisplayMode
	switch q.Get("display_mode") {
	case "circles", "":
		mode = isochrone.DisplayModeCircles
	case "contour_line":
		mode = isochrone.DisplayModeContourLine
	default:
		writeError(w, http.StatusBadRequest, ierr.ErrOutOfRange, "display_mode must be circles or contour_line")
		return
	}

	departure := geoutil.WallClock{Seconds: int64(departureAt.Hour()*3600 + departureAt.Minute()*60 + departureAt.Second())}

	ctx := r.Context()
	timeLimitSeconds := int64(timeLimitMinutes * 60)

	c, err := s.ComputeCloud(ctx, lat, lon, departure, timeLimitSeconds, 5)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.IsochroneRequests.WithLabelValues("error").Inc()
		}
		writeError(w, http.StatusInternalServerError, err, "computing reachability cloud")
		return
	}

	var layers []isochrone.Isochrone
	for limit := intervalMinutes; limit <= timeLimitMinutes; limit += intervalMinutes {
		iso, err := s.Synthesize(ctx, c, lat, lon, int64(limit*60), mode)
		if err != nil {
			if s.Metrics != nil {
				s.Metrics.IsochroneRequests.WithLabelValues("error").Inc()
			}
			writeError(w, http.StatusInternalServerError, err, "synthesizing isochrone layer")
			return
		}
		layers = append(layers, iso)
	}

	rings := make([]orb.Ring, len(layers))
	limits := make([]int64, len(layers))
	for i, l := range layers {
		if len(l.Polygon) > 0 {
			rings[i] = l.Polygon[0]
		}
		limits[i] = l.TimeLimitSeconds
	}
	nested := isochrone.BuildNested(rings, limits)

	if len(s.Excluded) > 0 {
		nested = subtractExcluded(nested, s.Excluded)
	}

	resp := isochroneMapResponse{
		DepartureStopCoord: [2]float64{lon, lat},
		DepartureAt:        departureAt.Format("2006-01-02 15:04:05"),
	}
	minLat, minLon, maxLat, maxLon := boundingBoxAround(lat, lon, timeLimitSeconds)
	resp.BoundingBox = [2][2]float64{{minLon, minLat}, {maxLon, maxLat}}

	for _, iso := range nested {
		raw, err := json.Marshal(iso.Polygon)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err, "encoding isochrone layer")
			return
		}
		resp.Isochrones = append(resp.Isochrones, raw)
		resp.Areas = append(resp.Areas, iso.Area())
		resp.MaxDistances = append(resp.MaxDistances, iso.MaxRadialDistance(lat, lon))
	}

	if s.Metrics != nil {
		s.Metrics.IsochroneRequests.WithLabelValues("ok").Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

// subtractExcluded realizes the set-theoretic difference between each
// isochrone and the caller-supplied excluded-regions multipolygon (spec §3,
// §4.G) by injecting every excluded polygon's exterior ring as an additional
// hole, the same technique isochrone.BuildNested already uses to nest
// smaller time bands as holes of larger ones. A point-in-polygon test
// against a ring-with-holes treats hole interiors as outside (see
// excludedregions.polygonContains), so a point inside an excluded region is no
// longer contained in the isochrone once its ring is a hole — unlike
// dropping exterior-ring vertices, which leaves the ring enclosing the
// excluded area.
func subtractExcluded(isos []isochrone.Isochrone, excluded orb.MultiPolygon) []isochrone.Isochrone {
	out := make([]isochrone.Isochrone, len(isos))
	for i, iso := range isos {
		filtered := iso
		if len(iso.Polygon) > 0 {
			poly := append(orb.Polygon{}, iso.Polygon...)
			for _, region := range excluded {
				if len(region) > 0 {
					poly = append(poly, region[0])
				}
			}
			filtered.Polygon = poly
		}
		out[i] = filtered
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "detail": err.Error()})
}
