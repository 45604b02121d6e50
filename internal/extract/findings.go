package extract

import (
	"strings"

	"github.com/nao1215/imgmeta/internal/model"
)

// findingTags maps tag keys to the privacy finding they raise.
// Checked in order so findings come out grouped by type.
var findingTags = []struct {
	findingType string
	keys        []string
	// joined raises a single finding whose value combines every present key.
	joined bool
}{
	{findingType: "exif_serial", keys: []string{"EXIF BodySerialNumber", "EXIF CameraSerialNumber", "EXIF LensSerialNumber", "Image CameraSerialNumber"}},
	{findingType: "exif_author", keys: []string{"Image Artist", "Image Copyright", "EXIF CameraOwnerName"}},
	{findingType: "exif_unique_id", keys: []string{"EXIF ImageUniqueID"}},
	{findingType: "exif_camera", keys: []string{"Image Make", "Image Model"}, joined: true},
	{findingType: "exif_computer", keys: []string{"Image HostComputer"}},
	{findingType: "exif_software", keys: []string{"Image Software", "Image ProcessingSoftware"}},
	{findingType: "exif_datetime", keys: []string{"EXIF DateTimeOriginal"}},
	{findingType: "exif_timezone", keys: []string{"EXIF OffsetTimeOriginal"}},
}

// Findings lists the privacy-relevant tags in tags.
// With hideGPS the location finding is still raised but its value is
// replaced by a redaction note.
func Findings(tags *model.TagSet, hideGPS bool) []model.Finding {
	var findings []model.Finding

	if pos, ok := ReadPosition(tags); ok {
		value := pos.LatitudeString() + ", " + pos.LongitudeString()
		if hideGPS {
			value = NoteRedacted
		}
		findings = append(findings, model.NewFinding("exif_gps", "GPS GPSLatitude", value))
	}

	for _, ft := range findingTags {
		var keys, values []string
		for _, key := range ft.keys {
			tag, ok := tags.Get(key)
			if !ok || tag.String() == "" {
				continue
			}
			if !ft.joined {
				findings = append(findings, model.NewFinding(ft.findingType, key, tag.String()))
				continue
			}
			keys = append(keys, key)
			values = append(values, tag.String())
		}
		if len(values) > 0 {
			findings = append(findings, model.NewFinding(ft.findingType, keys[0], joinCamera(values)))
		}
	}
	return findings
}

// joinCamera joins make and model, dropping the make when the model
// already starts with it ("Canon" + "Canon EOS R5").
func joinCamera(values []string) string {
	if len(values) == 2 && strings.HasPrefix(strings.ToLower(values[1]), strings.ToLower(values[0])) {
		return values[1]
	}
	return strings.Join(values, " ")
}
