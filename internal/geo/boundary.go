package geo

import "encoding/json"

// Point is one polygon vertex, stored as [latitude, longitude].
// Ward boundaries follow this ordering by convention; the engine does not
// auto-detect GeoJSON [lng, lat] input.
type Point struct {
	Lat float64
	Lng float64
}

// ParseBoundary normalizes a stored ward boundary into an ordered vertex
// list. The stored value may be a JSON-encoded string, raw JSON bytes, or an
// already-decoded list of pairs. Anything unusable yields nil — boundary data
// is advisory, so parsing never returns an error to the caller.
func ParseBoundary(raw any) []Point {
	switch v := raw.(type) {
	case nil:
		return nil
	case []Point:
		return v
	case string:
		return decodeBoundary([]byte(v))
	case []byte:
		return decodeBoundary(v)
	case [][]float64:
		return fromPairs(v)
	case []any:
		pairs := make([][]float64, 0, len(v))
		for _, el := range v {
			pair, ok := el.([]any)
			if !ok || len(pair) < 2 {
				return nil
			}
			lat, okLat := toFloat(pair[0])
			lng, okLng := toFloat(pair[1])
			if !okLat || !okLng {
				return nil
			}
			pairs = append(pairs, []float64{lat, lng})
		}
		return fromPairs(pairs)
	default:
		return nil
	}
}

func decodeBoundary(data []byte) []Point {
	if len(data) == 0 {
		return nil
	}
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil
	}
	return fromPairs(pairs)
}

func fromPairs(pairs [][]float64) []Point {
	if pairs == nil {
		return nil
	}
	pts := make([]Point, 0, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 {
			return nil
		}
		pts = append(pts, Point{Lat: p[0], Lng: p[1]})
	}
	return pts
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
