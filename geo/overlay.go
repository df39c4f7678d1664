// Package geo translates dashboard records into map overlay primitives.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/voxgeo/server/dashboard"
)

// Point is a lat/lng pair in the order the mapping provider expects.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a named default viewport centre.
type Place struct {
	Name string `json:"name"`
	Point
}

// Jundiai is where the map opens when there is nothing to plot.
var Jundiai = Place{Name: "Jundiaí", Point: Point{Lat: -23.1857, Lng: -46.8978}}

// Manaus anchors the demo flow.
var Manaus = Place{Name: "Manaus", Point: Point{Lat: -3.1190, Lng: -60.0217}}

const (
	ColorBlue  = "#3B82F6"
	ColorGreen = "#10B981"
)

var palette = []string{ColorBlue, ColorGreen, "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899", "#14B8A6", "#64748B"}

type Marker struct {
	Point
	ID        string `json:"id"`
	Candidate string `json:"candidate"`
	Color     string `json:"color"`
	Title     string `json:"title"`
	Concern   string `json:"concern"`
	AgeRange  string `json:"age_range"`
	Certainty int    `json:"certainty,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty"`
}

type Bounds struct {
	SouthWest Point `json:"south_west"`
	NorthEast Point `json:"north_east"`
}

type Overlay struct {
	Markers []Marker `json:"markers"`
	Heat    []Point  `json:"heat"`
	Center  Point    `json:"center"`
	Bounds  *Bounds  `json:"bounds,omitempty"`
	Empty   bool     `json:"empty"`
	Dropped int      `json:"dropped"`
}

// Colors assigns marker colours; candidates 1 and 2 keep blue and green,
// the rest cycle through the palette in first-seen order.
type Colors struct {
	assigned map[string]string
	next     int
}

func NewColors() *Colors {
	return &Colors{assigned: map[string]string{"1": ColorBlue, "2": ColorGreen}, next: 2}
}

func (c *Colors) For(candidate string) string {
	if color, ok := c.assigned[candidate]; ok {
		return color
	}
	color := palette[c.next%len(palette)]
	c.next++
	c.assigned[candidate] = color
	return color
}

// Plottable reports whether the coordinate can be placed on a map.
func Plottable(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && !math.IsNaN(lng) && !math.IsInf(lng, 0)
}

// BuildOverlay is rebuilt from scratch on every refresh. Records without a
// usable coordinate are dropped and counted.
func BuildOverlay(records []dashboard.Record, fallback Place) Overlay {
	colors := NewColors()
	overlay := Overlay{Markers: []Marker{}, Heat: []Point{}}
	var points orb.MultiPoint

	for _, r := range records {
		if !r.HasCoordinate || !Plottable(r.Latitude, r.Longitude) {
			overlay.Dropped++
			continue
		}
		p := Point{Lat: r.Latitude, Lng: r.Longitude}
		overlay.Markers = append(overlay.Markers, Marker{
			Point:     p,
			ID:        r.ID,
			Candidate: r.Candidate,
			Color:     colors.For(r.Candidate),
			Title:     r.VoterName,
			Concern:   r.MainConcern,
			AgeRange:  r.VoterAgeRange,
			Certainty: r.VoteCertainty,
			Whatsapp:  r.VoterWhatsapp,
		})
		overlay.Heat = append(overlay.Heat, p)
		points = append(points, orb.Point{p.Lng, p.Lat})
	}

	if len(points) == 0 {
		overlay.Empty = true
		overlay.Center = fallback.Point
		return overlay
	}

	bound := points.Bound()
	center := bound.Center()
	overlay.Center = Point{Lat: center.Lat(), Lng: center.Lon()}
	overlay.Bounds = &Bounds{
		SouthWest: Point{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		NorthEast: Point{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}
	return overlay
}

// FeatureCollection exports the markers as GeoJSON points.
func FeatureCollection(overlay Overlay) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range overlay.Markers {
		f := geojson.NewFeature(orb.Point{m.Lng, m.Lat})
		f.ID = m.ID
		f.Properties["candidate"] = m.Candidate
		f.Properties["color"] = m.Color
		f.Properties["title"] = m.Title
		f.Properties["concern"] = m.Concern
		fc.Append(f)
	}
	return fc
}
