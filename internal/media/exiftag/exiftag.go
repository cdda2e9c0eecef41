package exiftag

import (
	"errors"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoDateTag indicates the file carries no usable EXIF date tag. Files
// without an EXIF segment at all (PNGs, stripped JPEGs) report the same
// condition: either way there is nothing to date the capture with.
var ErrNoDateTag = errors.New("exif: no date tag")

// CaptureTimestamp reads the EXIF header of the file at path and returns the
// raw DateTimeOriginal value, falling back to DateTimeDigitized. Only the tag
// directory is parsed; pixel data is never decoded. The value is returned
// verbatim, typically "2006:01:02 15:04:05".
func CaptureTimestamp(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", ErrNoDateTag
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if value, err := tag.StringVal(); err == nil && value != "" {
			return value, nil
		}
	}
	return "", ErrNoDateTag
}
