package testimage

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// TIFF field types.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
	typeSRational = 10
)

// Pointer tags linking IFD0 to its sub-IFDs.
const (
	tagExifIFD = 0x8769
	tagGPSIFD  = 0x8825
)

var le = binary.LittleEndian

// Entry is one raw IFD entry. Data is already encoded little-endian.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// ASCII returns a NUL-terminated ASCII entry.
func ASCII(tag uint16, s string) Entry {
	data := append([]byte(s), 0)
	return Entry{Tag: tag, Type: typeASCII, Count: uint32(len(data)), Data: data}
}

// Byte returns a BYTE entry.
func Byte(tag uint16, values ...byte) Entry {
	return Entry{Tag: tag, Type: typeByte, Count: uint32(len(values)), Data: append([]byte(nil), values...)}
}

// Short returns a SHORT entry.
func Short(tag uint16, values ...uint16) Entry {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		le.PutUint16(data[2*i:], v)
	}
	return Entry{Tag: tag, Type: typeShort, Count: uint32(len(values)), Data: data}
}

// Long returns a LONG entry.
func Long(tag uint16, values ...uint32) Entry {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		le.PutUint32(data[4*i:], v)
	}
	return Entry{Tag: tag, Type: typeLong, Count: uint32(len(values)), Data: data}
}

// Rational returns a RATIONAL entry from numerator/denominator pairs.
func Rational(tag uint16, pairs ...uint32) Entry {
	if len(pairs)%2 != 0 {
		panic("testimage: Rational needs numerator/denominator pairs")
	}
	data := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		le.PutUint32(data[4*i:], v)
	}
	return Entry{Tag: tag, Type: typeRational, Count: uint32(len(pairs) / 2), Data: data}
}

// SRational returns an SRATIONAL entry from numerator/denominator pairs.
func SRational(tag uint16, pairs ...int32) Entry {
	if len(pairs)%2 != 0 {
		panic("testimage: SRational needs numerator/denominator pairs")
	}
	data := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		le.PutUint32(data[4*i:], uint32(v))
	}
	return Entry{Tag: tag, Type: typeSRational, Count: uint32(len(pairs) / 2), Data: data}
}

// Undefined returns an UNDEFINED entry.
func Undefined(tag uint16, data []byte) Entry {
	return Entry{Tag: tag, Type: typeUndefined, Count: uint32(len(data)), Data: append([]byte(nil), data...)}
}

// EXIF describes the IFDs of a little-endian TIFF/EXIF block.
type EXIF struct {
	IFD0 []Entry
	Exif []Entry
	GPS  []Entry
}

// TIFF encodes the block starting at the "II*\x00" header.
// Offsets are relative to the header, as in an APP1 Exif segment.
func (e EXIF) TIFF() []byte {
	ifd0 := append([]Entry(nil), e.IFD0...)
	if len(e.Exif) > 0 {
		ifd0 = append(ifd0, Long(tagExifIFD, 0))
	}
	if len(e.GPS) > 0 {
		ifd0 = append(ifd0, Long(tagGPSIFD, 0))
	}
	exifIFD := append([]Entry(nil), e.Exif...)
	gpsIFD := append([]Entry(nil), e.GPS...)
	sortEntries(ifd0)
	sortEntries(exifIFD)
	sortEntries(gpsIFD)

	const headerSize = 8
	offIFD0 := uint32(headerSize)
	offExif := offIFD0 + ifdSize(ifd0)
	offGPS := offExif + ifdSize(exifIFD)

	for i := range ifd0 {
		switch ifd0[i].Tag {
		case tagExifIFD:
			le.PutUint32(ifd0[i].Data, offExif)
		case tagGPSIFD:
			le.PutUint32(ifd0[i].Data, offGPS)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, offIFD0)
	buf.Write(encodeIFD(ifd0, offIFD0))
	if len(exifIFD) > 0 {
		buf.Write(encodeIFD(exifIFD, offExif))
	}
	if len(gpsIFD) > 0 {
		buf.Write(encodeIFD(gpsIFD, offGPS))
	}
	return buf.Bytes()
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
}

// ifdSize returns the encoded size of an IFD including its out-of-line data.
// An empty IFD takes no space because it is not written.
func ifdSize(entries []Entry) uint32 {
	if len(entries) == 0 {
		return 0
	}
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if n := uint32(len(e.Data)); n > 4 {
			size += n + n%2
		}
	}
	return size
}

func encodeIFD(entries []Entry, offset uint32) []byte {
	var head, data bytes.Buffer
	dataOffset := offset + uint32(2+12*len(entries)+4)

	_ = binary.Write(&head, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&head, le, e.Tag)
		_ = binary.Write(&head, le, e.Type)
		_ = binary.Write(&head, le, e.Count)
		if len(e.Data) <= 4 {
			var inline [4]byte
			copy(inline[:], e.Data)
			head.Write(inline[:])
			continue
		}
		_ = binary.Write(&head, le, dataOffset+uint32(data.Len()))
		data.Write(e.Data)
		if data.Len()%2 != 0 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(&head, le, uint32(0))

	return append(head.Bytes(), data.Bytes()...)
}
