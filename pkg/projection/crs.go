package projection

import (
	"fmt"
	"strings"

	"github.com/wroge/wgs84"
)

// CRS identifies the coordinate reference system of surveyed input.
// Korean cadastral and open-data services publish parcel boundaries in
// transverse-Mercator grids rather than longitude/latitude.
type CRS int

const (
	// WGS84 is plain longitude/latitude.
	WGS84 CRS = iota
	// EPSG5186 is Korea 2000 / Central Belt 2010.
	EPSG5186
	// EPSG5179 is Korea 2000 / Unified CS (UTM-K).
	EPSG5179
)

func (c CRS) String() string {
	switch c {
	case WGS84:
		return "EPSG:4326"
	case EPSG5186:
		return "EPSG:5186"
	case EPSG5179:
		return "EPSG:5179"
	}
	return fmt.Sprintf("CRS(%d)", int(c))
}

// ParseCRS accepts "EPSG:5186", "5186", "wgs84" and similar spellings.
// An empty string means WGS84.
func ParseCRS(s string) (CRS, error) {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "EPSG:") {
	case "", "4326", "WGS84":
		return WGS84, nil
	case "5186":
		return EPSG5186, nil
	case "5179":
		return EPSG5179, nil
	}
	return WGS84, fmt.Errorf("unsupported coordinate reference system %q", s)
}

// grs80 is the GRS 1980 ellipsoid used by the Korea 2000 datum.
type grs80 struct{}

func (grs80) A() float64  { return 6378137 }
func (grs80) Fi() float64 { return 298.257222101 }

var koreaArea = wgs84.AreaFunc(func(lon, lat float64) bool {
	return lon >= 122.71 && lat >= 28.6 && lon <= 134.28 && lat <= 40.27
})

var toLonLat = map[CRS]wgs84.Func{
	EPSG5186: transverseMercator(5186, 127, 38, 1, 200000, 600000),
	EPSG5179: transverseMercator(5179, 127.5, 38, 0.9996, 1000000, 2000000),
}

func transverseMercator(code int, lon0, lat0, k, falseEasting, falseNorthing float64) wgs84.Func {
	datum := wgs84.Datum{Spheroid: grs80{}, Area: koreaArea}
	epsg := wgs84.EPSG()
	epsg.Add(code, datum.TransverseMercator(lon0, lat0, k, falseEasting, falseNorthing))
	return wgs84.Transform(epsg.Code(code), wgs84.WGS84().LonLat())
}

// ToLonLat converts a coordinate pair in crs to longitude/latitude. For WGS84
// the pair is already (lon, lat) and is returned unchanged.
func ToLonLat(crs CRS, x, y float64) LonLat {
	f, ok := toLonLat[crs]
	if !ok {
		return LonLat{Lon: x, Lat: y}
	}
	lon, lat, _ := f(x, y, 0)
	return LonLat{Lon: lon, Lat: lat}
}

// RingToLonLat converts a ring of raw coordinate pairs in crs.
func RingToLonLat(crs CRS, coords [][2]float64) []LonLat {
	out := make([]LonLat, len(coords))
	for i, c := range coords {
		out[i] = ToLonLat(crs, c[0], c[1])
	}
	return out
}
