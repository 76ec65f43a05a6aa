package fotosort

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// ExiftoolExtractor reads metadata through a long-running exiftool process.
type ExiftoolExtractor struct {
	et *exiftool.Exiftool
	// extractMetadata is et.ExtractMetadata, replaceable in tests.
	extractMetadata func(files ...string) []exiftool.FileMetadata
}

// NewExiftoolExtractor starts exiftool. Close must be called to stop it.
func NewExiftoolExtractor() (*ExiftoolExtractor, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExiftoolExtractor{et: et, extractMetadata: et.ExtractMetadata}, nil
}

// Extract implements Extractor.
func (e *ExiftoolExtractor) Extract(path string) (Metadata, error) {
	return extract(e, path)
}

// Close stops the exiftool process.
func (e *ExiftoolExtractor) Close() error {
	if e.et == nil {
		return nil
	}
	return e.et.Close()
}

func (e *ExiftoolExtractor) read(path string) (embedded, error) {
	var m embedded

	fis := e.extractMetadata(path)
	if len(fis) == 0 {
		return m, nil
	}
	fi := fis[0]

	if fi.Err != nil {
		if errors.Is(fi.Err, exiftool.ErrNotExist) {
			return m, fsErr("open", path, os.ErrNotExist)
		}
		klog.V(1).Infof("%s: exiftool could not read metadata: %v", path, fi.Err)
		return m, nil
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	if ds, err := fi.GetString("DateTimeOriginal"); err == nil {
		ds = strings.TrimSpace(ds)
		m.taken, err = parseTaken(path, ds)
		if err != nil {
			return m, err
		}
		m.hasTaken = true
	}

	if b, err := fi.GetString("BrightnessValue"); err == nil {
		m.tag = b
	}

	return m, nil
}
