package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/projection"
)

// EnvelopeFeatures writes the parcel boundary, setback polygon, footprint and
// every buildable floor as geodetic polygons. Each feature carries a "kind"
// property, and floors also carry "floor" and "elevation".
func EnvelopeFeatures(e *envelope.Envelope, p projection.Projector) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if e == nil {
		return fc
	}
	add := func(r geo.Ring, kind string) *geojson.Feature {
		if !r.IsValid() {
			return nil
		}
		f := geojson.NewFeature(toPolygon(r, p))
		f.Properties["kind"] = kind
		f.Properties["area"] = r.Area()
		fc.Append(f)
		return f
	}
	add(e.Boundary, "boundary")
	add(e.SetbackPolygon, "setback")
	add(e.Footprint, "footprint")
	for i, r := range e.FloorPolygons {
		if f := add(r, "floor"); f != nil {
			f.Properties["floor"] = i + 1
			f.Properties["elevation"] = float64(i) * envelope.FloorHeight
		}
	}
	return fc
}

// toPolygon closes the ring as GeoJSON requires.
func toPolygon(r geo.Ring, p projection.Projector) orb.Polygon {
	lls := p.RingToGeodetic(r)
	ring := make(orb.Ring, 0, len(lls)+1)
	for _, ll := range lls {
		ring = append(ring, orb.Point{ll.Lon, ll.Lat})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
