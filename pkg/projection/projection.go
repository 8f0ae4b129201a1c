// Package projection converts geodetic coordinates to the local ground plane
// used by the geometry kernel and back again.
//
// The mapping is an equirectangular approximation around a reference point:
// good to centimeters over a building parcel, and exactly invertible so that
// edited geometry can be written back in longitude/latitude.
package projection

import (
	"math"

	"github.com/golang/geo/s1"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

const (
	// MetersPerDegreeLat is the length of one degree of latitude.
	MetersPerDegreeLat = 110540.0
	// MetersPerDegreeLon is the length of one degree of longitude at the
	// equator; it shrinks with cos(latitude).
	MetersPerDegreeLon = 111320.0
)

// LonLat is a geodetic position in decimal degrees.
type LonLat struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// Projector maps between LonLat and local meters centered on a reference.
// +X points east and +Z points north.
type Projector struct {
	ref     LonLat
	mPerLon float64
}

// New returns a projector centered on ref.
func New(ref LonLat) Projector {
	lat := s1.Angle(ref.Lat) * s1.Degree
	return Projector{
		ref:     ref,
		mPerLon: MetersPerDegreeLon * math.Cos(lat.Radians()),
	}
}

// Reference returns the projection center.
func (p Projector) Reference() LonLat {
	return p.ref
}

// ToLocal projects a geodetic position to local meters.
func (p Projector) ToLocal(ll LonLat) geo.Point2D {
	return geo.Point2D{
		X: (ll.Lon - p.ref.Lon) * p.mPerLon,
		Z: (ll.Lat - p.ref.Lat) * MetersPerDegreeLat,
	}
}

// ToGeodetic is the exact inverse of ToLocal.
func (p Projector) ToGeodetic(pt geo.Point2D) LonLat {
	lon := p.ref.Lon
	if p.mPerLon != 0 {
		lon += pt.X / p.mPerLon
	}
	return LonLat{
		Lon: lon,
		Lat: p.ref.Lat + pt.Z/MetersPerDegreeLat,
	}
}

// RingToLocal projects every vertex. An empty input yields an empty ring.
func (p Projector) RingToLocal(ring []LonLat) geo.Ring {
	out := make(geo.Ring, len(ring))
	for i, ll := range ring {
		out[i] = p.ToLocal(ll)
	}
	return out
}

// RingToGeodetic unprojects every vertex. An empty input yields an empty slice.
func (p Projector) RingToGeodetic(ring geo.Ring) []LonLat {
	out := make([]LonLat, len(ring))
	for i, pt := range ring {
		out[i] = p.ToGeodetic(pt)
	}
	return out
}

// CentroidReference returns the vertex average of a geodetic ring, a
// convenient projection center for a single parcel.
func CentroidReference(ring []LonLat) LonLat {
	if len(ring) == 0 {
		return LonLat{}
	}
	var sum LonLat
	for _, ll := range ring {
		sum.Lon += ll.Lon
		sum.Lat += ll.Lat
	}
	n := float64(len(ring))
	return LonLat{Lon: sum.Lon / n, Lat: sum.Lat / n}
}
