package extract

// Label tables for enumerated EXIF values.
var (
	exposureModes = map[int64]string{
		0: "Auto",
		1: "Manual",
		2: "Auto bracket",
	}

	whiteBalanceModes = map[int64]string{
		0: "Auto",
		1: "Manual",
	}

	meteringModes = map[int64]string{
		0: "Unknown",
		1: "Average",
		2: "Center-weighted average",
		3: "Spot",
		4: "Multi-spot",
		5: "Pattern",
		6: "Partial",
	}

	exposurePrograms = map[int64]string{
		0: "Not defined",
		1: "Manual",
		2: "Normal program",
		3: "Aperture priority",
		4: "Shutter priority",
		5: "Creative program",
		6: "Action program",
		7: "Portrait mode",
		8: "Landscape mode",
	}

	sceneCaptureTypes = map[int64]string{
		0: "Standard",
		1: "Landscape",
		2: "Portrait",
		3: "Night scene",
	}

	colorSpaces = map[int64]string{
		1: "sRGB",
		2: "Adobe RGB",
	}

	// Focus and shooting modes are maker-note values some vendors copy into
	// the EXIF IFD; standard files rarely carry them.
	focusModes = map[int64]string{
		0: "Manual",
		1: "Auto",
	}

	shootingModes = map[int64]string{
		0: "Normal",
		1: "Portrait",
		2: "Landscape",
	}

	orientations = map[int64]string{
		1: "Normal",
		2: "Mirrored horizontally",
		3: "Rotated 180 degrees",
		4: "Mirrored vertically",
		5: "Mirrored horizontally and rotated 270 degrees CW",
		6: "Rotated 90 degrees CW",
		7: "Mirrored horizontally and rotated 90 degrees CW",
		8: "Rotated 270 degrees CW",
	}

	resolutionUnits = map[int64]string{
		1: "No absolute unit of measurement",
		2: "Inches",
		3: "Centimeters",
	}

	ycbcrPositions = map[int64]string{
		1: "Centered",
		2: "Co-sited",
	}

	compressions = map[int64]string{
		1:     "Uncompressed",
		6:     "JPEG (old-style)",
		7:     "JPEG",
		8:     "Adobe Deflate",
		32773: "PackBits",
	}
)
