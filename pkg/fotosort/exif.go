package fotosort

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// ExifExtractor reads capture dates and brightness with a pure Go EXIF decoder.
type ExifExtractor struct{}

// NewExifExtractor returns an ExifExtractor.
func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

// Extract implements Extractor.
func (e *ExifExtractor) Extract(path string) (Metadata, error) {
	return extract(e, path)
}

func (*ExifExtractor) read(path string) (embedded, error) {
	var m embedded

	f, err := os.Open(path)
	if err != nil {
		return m, fsErr("open", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(bufio.NewReader(f))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		klog.V(1).Infof("%s: no exif: %v", path, err)
		return m, nil
	}
	if err != nil {
		klog.V(1).Infof("%s: partial exif: %v", path, err)
	}

	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		raw, err := tag.StringVal()
		if err != nil {
			return m, &CorruptMetadataError{Path: path, Raw: tag.String(), Err: err}
		}
		raw = strings.TrimRight(raw, "\x00 ")
		klog.V(2).Infof("%s: DateTimeOriginal=%q", path, raw)
		m.taken, err = parseTaken(path, raw)
		if err != nil {
			return m, err
		}
		m.hasTaken = true
	}

	if tag, err := x.Get(exif.BrightnessValue); err == nil {
		m.tag = brightness(tag)
		klog.V(2).Infof("%s: BrightnessValue=%q", path, m.tag)
	}

	return m, nil
}

// brightness renders a brightness tag the way it would be displayed to a user.
func brightness(tag *tiff.Tag) string {
	if tag.Format() != tiff.RatVal {
		return strings.Trim(tag.String(), `"`)
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return strings.Trim(tag.String(), `"`)
	}
	return formatRational(num, den)
}

func formatRational(num int64, den int64) string {
	if den == 0 {
		return "unknown"
	}
	return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64)
}
