package extract

import (
	"fmt"
	"math"

	"github.com/bradfitz/latlong"

	"github.com/nao1215/imgmeta/internal/model"
)

// Position is a decoded GPS fix in signed decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// MapsLink returns a Google Maps URL centred on the position.
func (p Position) MapsLink() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", p.Latitude, p.Longitude)
}

// TimeZone returns the IANA zone at the position, or "" over open water.
func (p Position) TimeZone() string {
	return latlong.LookupZoneName(p.Latitude, p.Longitude)
}

// LatitudeString prints the latitude as "40.44611° N".
func (p Position) LatitudeString() string {
	return hemisphere(p.Latitude, "N", "S")
}

// LongitudeString prints the longitude as "79.98222° W".
func (p Position) LongitudeString() string {
	return hemisphere(p.Longitude, "E", "W")
}

func hemisphere(v float64, positive, negative string) string {
	ref := positive
	if v < 0 {
		ref = negative
	}
	return fmt.Sprintf("%.5f° %s", math.Abs(v), ref)
}

// ReadPosition decodes GPSLatitude/GPSLongitude and their reference tags.
// All four tags must be present.
func ReadPosition(tags *model.TagSet) (Position, bool) {
	t := tagReader{tags: tags}
	lat, okLat := t.degrees("GPS GPSLatitude")
	lon, okLon := t.degrees("GPS GPSLongitude")
	latRef, okLatRef := tags.Get("GPS GPSLatitudeRef")
	lonRef, okLonRef := tags.Get("GPS GPSLongitudeRef")
	if !okLat || !okLon || !okLatRef || !okLonRef {
		return Position{}, false
	}
	if latRef.String() == "S" {
		lat = -lat
	}
	if lonRef.String() == "W" {
		lon = -lon
	}
	return Position{Latitude: lat, Longitude: lon}, true
}

// degrees converts a degrees/minutes/seconds rational triple to decimal
// degrees. Trailing components may be absent.
func (t tagReader) degrees(key string) (float64, bool) {
	tag, ok := t.lookup(key)
	if !ok || tag.Len() == 0 {
		return 0, false
	}
	divisors := []float64{1, 60, 3600}
	var total float64
	for i := 0; i < tag.Len() && i < len(divisors); i++ {
		v, ok := tag.Float(i)
		if !ok {
			return 0, false
		}
		total += v / divisors[i]
	}
	return total, true
}

// altitude returns the altitude in metres, negative below sea level.
func (t tagReader) altitude() (float64, bool) {
	alt, ok := t.floatValue("GPS GPSAltitude")
	if !ok {
		return 0, false
	}
	if ref, ok := t.intValue("GPS GPSAltitudeRef"); ok && ref == 1 {
		alt = -alt
	}
	return alt, true
}

// gpsTimestamp joins GPSDateStamp and GPSTimeStamp, which are always UTC.
func (t tagReader) gpsTimestamp() (string, bool) {
	date, hasDate := t.lookup("GPS GPSDateStamp")
	tag, hasTime := t.lookup("GPS GPSTimeStamp")

	clock := ""
	if hasTime && tag.Len() == 3 {
		var parts [3]float64
		for i := range parts {
			v, ok := tag.Float(i)
			if !ok {
				hasTime = false
				break
			}
			parts[i] = v
		}
		if hasTime {
			clock = fmt.Sprintf("%02d:%02d:%02d UTC", int(parts[0]), int(parts[1]), int(parts[2]))
		}
	}

	switch {
	case hasDate && clock != "":
		return date.String() + " " + clock, true
	case hasDate:
		return date.String(), true
	case clock != "":
		return clock, true
	}
	return "", false
}

// gpsSection builds the GPS section. Without usable GPS tags the section
// is a bare "N/A" note.
func gpsSection(t tagReader) model.Section {
	s := model.Section{Name: model.SectionGPS}

	if pos, ok := ReadPosition(t.tags); ok {
		s.Add("Latitude", pos.LatitudeString())
		s.Add("Longitude", pos.LongitudeString())
		s.Add("Google Maps Link", pos.MapsLink())
		if zone := pos.TimeZone(); zone != "" {
			s.Add("Time Zone", zone)
		}
	}
	if alt, ok := t.altitude(); ok {
		s.Add("Altitude", fmt.Sprintf("%.2f meters", alt))
	}
	if ts, ok := t.gpsTimestamp(); ok {
		s.Add("GPS Date/Time", ts)
	}

	if len(s.Fields) == 0 {
		s.Note = model.NotAvailable
	}
	return s
}
