package testimage

// Sample values embedded by SampleEXIF.
const (
	SampleMake        = "Canon"
	SampleModel       = "Canon EOS 5D Mark IV"
	SampleSoftware    = "Firmware 1.0.2"
	SampleArtist      = "Jane Doe"
	SampleSerial      = "012345678901"
	SampleLens        = "EF24-105mm f/4L IS USM"
	SampleDateTime    = "2023:06:01 12:00:00"
	SampleOriginal    = "2023:05:31 18:45:10"
	SampleDigitized   = "2023:05:31 18:45:11"
	SampleOffset      = "-04:00"
	SampleUniqueID    = "a1b2c3d4e5f60718293a4b5c6d7e8f90"
	SampleGPSDate     = "2023:05:31"
	SampleLatitude    = "40.44611° N"
	SampleLongitude   = "79.98222° W"
	SampleMapsLink    = "https://www.google.com/maps?q=40.446111,-79.982222"
	SampleAltitude    = "-12.50 meters"
	SampleTimeZone    = "America/New_York"
	SampleExposure    = "1/125"
	SampleFNumber     = "14/5"
	SampleFocalLength = "50mm"
)

// SampleEXIF returns a fully populated EXIF block shot "in Pittsburgh".
func SampleEXIF() *EXIF {
	return &EXIF{
		IFD0: []Entry{
			ASCII(0x010F, SampleMake),
			ASCII(0x0110, SampleModel),
			Short(0x0112, 6),         // Orientation: rotated 90 CW
			Rational(0x011A, 300, 1), // XResolution
			Rational(0x011B, 300, 1), // YResolution
			Short(0x0128, 2),         // ResolutionUnit: inches
			ASCII(0x0131, SampleSoftware),
			ASCII(0x0132, SampleDateTime),
			ASCII(0x013B, SampleArtist),
			Short(0x0213, 2), // YCbCrPositioning: co-sited
		},
		Exif: []Entry{
			Rational(0x829A, 1, 125), // ExposureTime
			Rational(0x829D, 28, 10), // FNumber
			Short(0x8822, 3),         // ExposureProgram: aperture priority
			Short(0x8827, 400),       // ISOSpeedRatings
			Undefined(0x9000, []byte("0231")),
			ASCII(0x9003, SampleOriginal),
			ASCII(0x9004, SampleDigitized),
			ASCII(0x9011, SampleOffset),
			SRational(0x9203, 7, 2),  // BrightnessValue
			SRational(0x9204, -1, 3), // ExposureBiasValue
			Rational(0x9205, 4, 1),   // MaxApertureValue
			Short(0x9207, 5),         // MeteringMode: pattern
			Short(0x9209, 0),         // Flash: did not fire
			Rational(0x920A, 50, 1),  // FocalLength
			Short(0xA001, 1),         // ColorSpace: sRGB
			Long(0xA002, 6720),       // PixelXDimension
			Long(0xA003, 4480),       // PixelYDimension
			Short(0xA402, 0),         // ExposureMode: auto
			Short(0xA403, 1),         // WhiteBalance: manual
			Short(0xA405, 75),        // FocalLengthIn35mmFilm
			Short(0xA406, 2),         // SceneCaptureType: portrait
			ASCII(0xA420, SampleUniqueID),
			ASCII(0xA431, SampleSerial), // BodySerialNumber
			ASCII(0xA434, SampleLens),
		},
		GPS: []Entry{
			Byte(0x0000, 2, 3, 0, 0), // GPSVersionID
			ASCII(0x0001, "N"),
			Rational(0x0002, 40, 1, 26, 1, 4600, 100),
			ASCII(0x0003, "W"),
			Rational(0x0004, 79, 1, 58, 1, 5600, 100),
			Byte(0x0005, 1), // below sea level
			Rational(0x0006, 25, 2),
			Rational(0x0007, 22, 1, 45, 1, 10, 1),
			ASCII(0x001D, SampleGPSDate),
		},
	}
}

// MinimalEXIF returns an EXIF block with only camera make and model.
func MinimalEXIF() *EXIF {
	return &EXIF{
		IFD0: []Entry{
			ASCII(0x010F, "NIKON CORPORATION"),
			ASCII(0x0110, "NIKON D750"),
		},
	}
}
