package fotosort

import (
	"fmt"
	"os"
	"time"

	"k8s.io/klog/v2"
)

// exifDate is the layout of EXIF date/time fields.
var exifDate = "2006:01:02 15:04:05"

// Metadata is what a file contributes to its planned path.
type Metadata struct {
	// CreatedAt is a wall-clock timestamp; only its calendar fields are meaningful.
	CreatedAt time.Time
	// SecondaryTag is the display form of the brightness value, or empty.
	SecondaryTag string
}

// Extractor derives Metadata from a file. It never returns a Metadata without a CreatedAt.
type Extractor interface {
	Extract(path string) (Metadata, error)
}

// embedded is what a reader found inside the file itself.
type embedded struct {
	taken    time.Time
	hasTaken bool
	tag      string
}

// reader pulls embedded fields from a file. A file without a readable
// metadata container yields an empty embedded value and no error.
type reader interface {
	read(path string) (embedded, error)
}

// extract runs a reader and falls back to the modification time when no
// capture date was found.
func extract(r reader, path string) (Metadata, error) {
	e, err := r.read(path)
	if err != nil {
		return Metadata{}, err
	}

	m := Metadata{CreatedAt: e.taken, SecondaryTag: e.tag}
	if e.hasTaken {
		return m, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return m, fsErr("stat", path, err)
	}
	m.CreatedAt = naive(fi.ModTime().Local())
	klog.V(1).Infof("%s: no capture date, using mtime %s", path, m.CreatedAt.Format(exifDate))
	return m, nil
}

// parseTaken parses an EXIF capture date. A malformed value is a CorruptMetadataError.
func parseTaken(path string, raw string) (time.Time, error) {
	t, err := time.Parse(exifDate, raw)
	if err != nil {
		return t, &CorruptMetadataError{Path: path, Raw: raw, Err: err}
	}
	return t, nil
}

// naive drops the zone and sub-second part, keeping the wall clock.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// NewExtractor returns the extractor registered under name.
// Callers must Close the result when it implements io.Closer.
func NewExtractor(name string) (Extractor, error) {
	switch name {
	case "", "exif":
		return NewExifExtractor(), nil
	case "exiftool":
		e, err := NewExiftoolExtractor()
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q", name)
	}
}
