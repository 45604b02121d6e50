package model

// Severity represents how much a piece of embedded metadata reveals about
// the photographer or their device.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates metadata with no direct privacy impact.
	SeverityInfo Severity = iota

	// SeverityLow indicates metadata that only helps correlation,
	// such as timestamps or editing software.
	SeverityLow

	// SeverityMedium indicates metadata that narrows down the device,
	// such as camera make and model.
	SeverityMedium

	// SeverityHigh indicates metadata that identifies a device or person,
	// such as serial numbers or the artist field.
	SeverityHigh

	// SeverityCritical indicates metadata that discloses a physical location.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// SeverityLevels lists all severities from most to least severe.
var SeverityLevels = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// FindingInfo contains metadata about a finding type including severity,
// title and recommendation.
type FindingInfo struct {
	Severity       Severity
	Title          string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent risk assessment across the application.
var findingInfoMapping = map[string]FindingInfo{
	"exif_gps": {
		Severity:       SeverityCritical,
		Title:          "GPS coordinates",
		Recommendation: "Strip GPS tags before publishing the image.",
	},
	"exif_serial": {
		Severity:       SeverityHigh,
		Title:          "Device serial number",
		Recommendation: "Serial numbers link every photo taken with the same device; remove them.",
	},
	"exif_author": {
		Severity:       SeverityHigh,
		Title:          "Author or copyright",
		Recommendation: "Remove Artist/Copyright unless attribution is intended.",
	},
	"exif_unique_id": {
		Severity:       SeverityMedium,
		Title:          "Unique image identifier",
		Recommendation: "ImageUniqueID can correlate copies of the same image.",
	},
	"exif_camera": {
		Severity:       SeverityMedium,
		Title:          "Camera make and model",
		Recommendation: "Camera model narrows down the device used.",
	},
	"exif_computer": {
		Severity:       SeverityMedium,
		Title:          "Host computer",
		Recommendation: "HostComputer names the machine that processed the image.",
	},
	"exif_software": {
		Severity:       SeverityLow,
		Title:          "Processing software",
		Recommendation: "Software tags reveal the editing tool or OS version.",
	},
	"exif_datetime": {
		Severity:       SeverityLow,
		Title:          "Capture timestamp",
		Recommendation: "Capture timestamps can reveal habits and routines.",
	},
	"exif_timezone": {
		Severity:       SeverityLow,
		Title:          "Time zone offset",
		Recommendation: "The UTC offset narrows down the region the photo was taken in.",
	},
}

// GetFindingInfo returns the info for a finding type.
// Unknown types are reported as informational.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{Severity: SeverityInfo, Title: findingType}
}

// Finding is one privacy-relevant value found in the metadata.
type Finding struct {
	// Type is the finding type identifier.
	Type string `json:"type"`

	// Severity is the risk level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Tag is the key of the tag that triggered the finding.
	Tag string `json:"tag"`

	// Value is the tag value.
	Value string `json:"value,omitempty"`

	// Recommendation explains what to do about it.
	Recommendation string `json:"recommendation,omitempty"`
}

// NewFinding creates a finding of the given type.
func NewFinding(findingType, tag, value string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          info.Title,
		Tag:            tag,
		Value:          value,
		Recommendation: info.Recommendation,
	}
}

// FindingsBySeverity returns the findings of a given severity.
func (r *ImageReport) FindingsBySeverity(severity Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// CountBySeverity returns how many findings each severity has.
func (r *ImageReport) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(SeverityLevels))
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// HighestSeverity returns the most severe finding level.
// The second return value is false when there are no findings.
func (r *ImageReport) HighestSeverity() (Severity, bool) {
	if len(r.Findings) == 0 {
		return SeverityInfo, false
	}
	highest := r.Findings[0].Severity
	for _, f := range r.Findings[1:] {
		if f.Severity > highest {
			highest = f.Severity
		}
	}
	return highest, true
}
