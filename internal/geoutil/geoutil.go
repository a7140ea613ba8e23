// Package geoutil provides the temporal and geodetic primitives shared by
// every other package: walking-speed conversions, great-circle distance, and
// the Swiss LV95 <-> WGS84 projection used by the grid and isochrone stages.
package geoutil

import "math"

// WalkingSpeedKmh is the pedestrian speed assumed throughout the module.
const WalkingSpeedKmh = 4.5

const earthRadiusMeters = 6371000.0

// WalkTime returns how long it takes to cover distanceMeters on foot, in seconds.
func WalkTime(distanceMeters, speedKmh float64) float64 {
	speedMs := speedKmh / 3.6
	return distanceMeters / speedMs
}

// WalkDistance returns the distance coverable on foot in durationSeconds, in meters.
func WalkDistance(durationSeconds, speedKmh float64) float64 {
	speedMs := speedKmh / 3.6
	return durationSeconds * speedMs
}

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }

// Haversine returns the great-circle distance between two WGS84 points, in meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1R, lon1R := degToRad(lat1), degToRad(lon1)
	lat2R, lon2R := degToRad(lat2), degToRad(lon2)

	dLat := lat2R - lat1R
	dLon := lon2R - lon1R

	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1R)*math.Cos(lat2R)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// EuclideanDistance returns the planar distance between two points already
// expressed in a projected CRS (e.g. LV95 easting/northing), in the same
// units as the inputs.
func EuclideanDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// LV95ToWGS84 converts Swiss LV95 (easting, northing) to WGS84 (lat, lon).
//
// https://github.com/antistatique/swisstopo
func LV95ToWGS84(easting, northing float64) (lat, lon float64) {
	yAux := (easting - 2600000.0) / 1000000.0
	xAux := (northing - 1200000.0) / 1000000.0

	lat = 16.9023892 +
		3.238272*xAux -
		0.270978*yAux*yAux -
		0.002528*xAux*xAux -
		0.0447*yAux*yAux*xAux -
		0.0140*xAux*xAux*xAux
	lat = lat * 100.0 / 36.0

	lon = 2.6779094 +
		4.728982*yAux +
		0.791484*yAux*xAux +
		0.1306*yAux*xAux*xAux -
		0.0436*yAux*yAux*yAux
	lon = lon * 100.0 / 36.0

	return lat, lon
}

// WGS84ToLV95 converts WGS84 (lat, lon) to Swiss LV95 (easting, northing).
//
// https://github.com/antistatique/swisstopo
func WGS84ToLV95(lat, lon float64) (easting, northing float64) {
	latSex := degToSex(lat)
	lonSex := degToSex(lon)

	phi := degToSec(latSex)
	lambda := degToSec(lonSex)

	phiAux := (phi - 169028.66) / 10000.0
	lambdaAux := (lambda - 26782.5) / 10000.0

	easting = 2600072.37 +
		211455.93*lambdaAux -
		10938.51*lambdaAux*phiAux -
		0.36*lambdaAux*phiAux*phiAux -
		44.54*lambdaAux*lambdaAux*lambdaAux

	northing = 1200147.07 +
		308807.95*phiAux +
		3745.25*lambdaAux*lambdaAux +
		76.63*phiAux*phiAux -
		194.56*lambdaAux*lambdaAux*phiAux +
		119.79*phiAux*phiAux*phiAux

	return easting, northing
}

func degToSex(angle float64) float64 {
	deg := math.Trunc(angle)
	minF := math.Trunc((angle - deg) * 60.0)
	sec := ((angle-deg)*60.0 - minF) * 60.0
	return deg + minF/100.0 + sec/10000.0
}

func degToSec(angle float64) float64 {
	deg := math.Trunc(angle)
	minF := math.Trunc((angle - deg) * 100.0)
	sec := ((angle-deg)*100.0 - minF) * 100.0
	return sec + minF*60.0 + deg*3600.0
}

// DistanceToSeconds converts a distance in meters to travel time in seconds
// at the given speed.
func DistanceToSeconds(distanceMeters, speedKmh float64) int64 {
	return int64(WalkTime(distanceMeters, speedKmh))
}

// SecondsToDistance converts a duration in seconds to the distance coverable
// at the given speed, in meters.
func SecondsToDistance(seconds int64, speedKmh float64) float64 {
	return WalkDistance(float64(seconds), speedKmh)
}
