// Package gpx models GPX 1.1 documents and synthesizes tracks from Strava
// sensor streams when the native export endpoint has nothing to offer.
package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
)

// ErrNoGPSData signals that a stream set has no latlng samples to build a
// track from. An empty track is never produced.
var ErrNoGPSData = errors.New("no GPS data in streams")

const (
	creator   = "strava-komoot-sync"
	namespace = "http://www.topografix.com/GPX/1/1"
)

// GPX is the document root.
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	XMLNS   string   `xml:"xmlns,attr"`
	Tracks  []Track  `xml:"trk"`
}

// Track is a named track; synthesized documents hold exactly one.
type Track struct {
	Name     string    `xml:"name,omitempty"`
	Type     string    `xml:"type,omitempty"`
	Segments []Segment `xml:"trkseg"`
}

// Segment is an ordered run of track points.
type Segment struct {
	Points []Point `xml:"trkpt"`
}

// Point is a single track point. Elevation and Time are optional.
type Point struct {
	Lat       float64    `xml:"lat,attr"`
	Lon       float64    `xml:"lon,attr"`
	Elevation *float64   `xml:"ele,omitempty"`
	Time      *time.Time `xml:"time,omitempty"`
}

// FromStreams builds a single-track, single-segment GPX document from an
// activity and its raw streams. For sample i the position comes from
// latlng[i]; elevation and timestamp are filled only when the corresponding
// array is long enough. Timestamps are the activity start plus the time
// offset in seconds.
func FromStreams(activity *models.Activity, streams *models.StreamSet) (*GPX, error) {
	if !streams.HasGPS() {
		return nil, ErrNoGPSData
	}

	seg := Segment{Points: make([]Point, 0, len(streams.LatLng))}
	for i, pos := range streams.LatLng {
		p := Point{Lat: pos[0], Lon: pos[1]}
		if i < len(streams.Altitude) {
			ele := streams.Altitude[i]
			p.Elevation = &ele
		}
		if i < len(streams.Time) {
			ts := activity.StartDate.Add(time.Duration(streams.Time[i] * float64(time.Second)))
			p.Time = &ts
		}
		seg.Points = append(seg.Points, p)
	}

	name := activity.Name
	if name == "" {
		name = fmt.Sprintf("Activity %d", activity.ID)
	}
	activityType := activity.Type
	if activityType == "" {
		activityType = "Ride"
	}

	return &GPX{
		Version: "1.1",
		Creator: creator,
		XMLNS:   namespace,
		Tracks: []Track{{
			Name:     name,
			Type:     activityType,
			Segments: []Segment{seg},
		}},
	}, nil
}

// Parse decodes GPX bytes, rejecting documents with the wrong root element.
func Parse(data []byte) (*GPX, error) {
	var g GPX
	if err := xml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}
	if g.XMLName.Local != "gpx" {
		return nil, fmt.Errorf("parse gpx: unexpected root element %q", g.XMLName.Local)
	}
	return &g, nil
}

// Bytes renders the document as an XML file with header.
func (g *GPX) Bytes() ([]byte, error) {
	body, err := xml.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode gpx: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// PointCount returns the total number of track points in the document.
func (g *GPX) PointCount() int {
	n := 0
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			n += len(seg.Points)
		}
	}
	return n
}
