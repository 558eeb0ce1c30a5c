package geo

// Status is the geofence verdict stamped on an attendance record.
type Status string

const (
	StatusValid       Status = "VALID"
	StatusOutsideWard Status = "OUTSIDE_WARD"
)

// Contains reports whether the point lies inside the polygon using the
// ray-casting even–odd rule, with latitude as the y axis and longitude as x.
//
// A polygon with fewer than 3 vertices is unusable boundary data and is
// treated as containing every point (fail open): geofencing is skipped rather
// than blocking valid marks. Callers that need fail-closed behavior must
// check boundary availability before calling.
func Contains(lat, lng float64, poly []Point) bool {
	if len(poly) < 3 {
		return true
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i, j = i+1, i {
		yi, xi := poly[i].Lat, poly[i].Lng
		yj, xj := poly[j].Lat, poly[j].Lng

		// Horizontal edges cannot cross the ray and would divide by zero.
		if yi == yj {
			continue
		}
		if (yi > lat) != (yj > lat) &&
			lng < xj+(xi-xj)*(lat-yj)/(yi-yj) {
			inside = !inside
		}
	}
	return inside
}

// Evaluate maps a point and boundary to the record annotation. The verdict is
// advisory only; it never blocks a marking attempt.
func Evaluate(lat, lng float64, poly []Point) Status {
	if Contains(lat, lng, poly) {
		return StatusValid
	}
	return StatusOutsideWard
}
