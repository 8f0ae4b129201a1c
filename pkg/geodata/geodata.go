// Package geodata adapts GeoJSON from map and open-data services to the
// kernel's local geometry, and publishes envelopes back as GeoJSON.
package geodata

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"

	"github.com/yijongkuk/mdmd/pkg/align"
	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/projection"
)

// DefaultRoadHalfWidth applies to road features without a width property.
const DefaultRoadHalfWidth = 3.0

// ErrNoPolygon is returned when a boundary document holds no polygon.
var ErrNoPolygon = errors.New("geodata: no polygon in document")

// Obstacles are the neighbouring buildings and roads around a parcel, in
// local meters.
type Obstacles struct {
	Buildings []geo.Ring
	Roads     []align.Road
}

// decode accepts a FeatureCollection, a single Feature or a bare Geometry.
func decode(data []byte) ([]*geojson.Feature, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		return fc.Features, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		return []*geojson.Feature{f}, nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errors.Wrap(err, "geodata: decode GeoJSON")
	}
	return []*geojson.Feature{geojson.NewFeature(g.Geometry())}, nil
}

// ParseBoundary returns the outer ring of the first polygon in data as
// longitude/latitude, without the closing duplicate vertex.
func ParseBoundary(data []byte) ([]projection.LonLat, error) {
	features, err := decode(data)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if len(g) > 0 {
				return lonLats(g[0]), nil
			}
		case orb.MultiPolygon:
			if len(g) > 0 && len(g[0]) > 0 {
				return lonLats(g[0][0]), nil
			}
		}
	}
	return nil, ErrNoPolygon
}

func lonLats(r orb.Ring) []projection.LonLat {
	pts := []orb.Point(r)
	if len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	out := make([]projection.LonLat, len(pts))
	for i, p := range pts {
		out[i] = projection.LonLat{Lon: p.Lon(), Lat: p.Lat()}
	}
	return out
}

// ParseObstacles projects building polygons and road lines into local
// meters. Roads take their half-width from a "half_width" property, or half
// of "width", or DefaultRoadHalfWidth. Polygons with no area are skipped.
func ParseObstacles(data []byte, p projection.Projector) (Obstacles, error) {
	var obs Obstacles
	features, err := decode(data)
	if err != nil {
		return obs, err
	}
	for _, f := range features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			obs.addPolygon(g, p)
		case orb.MultiPolygon:
			for _, poly := range g {
				obs.addPolygon(poly, p)
			}
		case orb.LineString:
			obs.addRoad(g, roadHalfWidth(f.Properties), p)
		case orb.MultiLineString:
			hw := roadHalfWidth(f.Properties)
			for _, ls := range g {
				obs.addRoad(ls, hw, p)
			}
		}
	}
	return obs, nil
}

func (o *Obstacles) addPolygon(poly orb.Polygon, p projection.Projector) {
	if len(poly) == 0 || planar.Area(poly) == 0 {
		return
	}
	ring := p.RingToLocal(lonLats(poly[0]))
	if ring.IsValid() && ring.Area() > 0 {
		o.Buildings = append(o.Buildings, ring)
	}
}

func (o *Obstacles) addRoad(ls orb.LineString, halfWidth float64, p projection.Projector) {
	if len(ls) < 2 {
		return
	}
	pts := make([]geo.Point2D, len(ls))
	for i, pt := range ls {
		pts[i] = p.ToLocal(projection.LonLat{Lon: pt.Lon(), Lat: pt.Lat()})
	}
	o.Roads = append(o.Roads, align.Road{Centerline: geo.NewPolyline(pts...), HalfWidth: halfWidth})
}

func roadHalfWidth(props geojson.Properties) float64 {
	if hw := props.MustFloat64("half_width", 0); hw > 0 {
		return hw
	}
	if w := props.MustFloat64("width", 0); w > 0 {
		return w / 2
	}
	return DefaultRoadHalfWidth
}

// String summarizes the obstacle set for logs.
func (o Obstacles) String() string {
	return fmt.Sprintf("%d buildings, %d roads", len(o.Buildings), len(o.Roads))
}
