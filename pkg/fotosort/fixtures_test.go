package fotosort

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

func dateEntry(s string) ifdEntry {
	v := append([]byte(s), 0)
	return ifdEntry{tag: 0x9003, typ: 2, count: uint32(len(v)), value: v}
}

func brightnessEntry(num int32, den int32) ifdEntry {
	v := make([]byte, 8)
	binary.BigEndian.PutUint32(v[0:], uint32(num))
	binary.BigEndian.PutUint32(v[4:], uint32(den))
	return ifdEntry{tag: 0x9203, typ: 10, count: 1, value: v}
}

// exifJPEG builds a minimal JPEG whose APP1 segment carries an Exif IFD with entries.
func exifJPEG(entries ...ifdEntry) []byte {
	be := binary.BigEndian
	var tb bytes.Buffer
	w := func(v any) { _ = binary.Write(&tb, be, v) }

	tb.WriteString("MM\x00\x2a")
	w(uint32(8))

	exifOff := uint32(8 + 2 + 12 + 4)
	w(uint16(1))
	w(uint16(0x8769))
	w(uint16(4))
	w(uint32(1))
	w(exifOff)
	w(uint32(0))

	dataOff := exifOff + 2 + 12*uint32(len(entries)) + 4
	var data bytes.Buffer
	w(uint16(len(entries)))
	for _, e := range entries {
		w(e.tag)
		w(e.typ)
		w(e.count)
		if len(e.value) <= 4 {
			v := make([]byte, 4)
			copy(v, e.value)
			tb.Write(v)
			continue
		}
		w(dataOff + uint32(data.Len()))
		data.Write(e.value)
	}
	w(uint32(0))
	tb.Write(data.Bytes())

	app1 := append([]byte("Exif\x00\x00"), tb.Bytes()...)
	l := len(app1) + 2
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(l >> 8), byte(l)}
	out = append(out, app1...)
	return append(out, 0xFF, 0xD9)
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func setMtime(t *testing.T, path string, mt time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mt, mt))
}
