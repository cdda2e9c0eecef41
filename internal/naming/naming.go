package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// canonicalLayout is the fixed-format timestamp prefix for sorted files,
// e.g. "2004-05-07_20.16.31".
const canonicalLayout = "2006-01-02_15.04.05"

// Basename returns the canonical basename for a capture time.
func Basename(ts time.Time) string {
	return ts.Format(canonicalLayout)
}

// Folder returns the library-relative folder for a capture time: "YYYY/YYYY-MM".
func Folder(ts time.Time) string {
	return filepath.Join(ts.Format("2006"), ts.Format("2006-01"))
}

// DestPath composes the full pre-collision destination for path under root.
func DestPath(root, path string, ts time.Time) string {
	return filepath.Join(root, Folder(ts), Filename(path, ts))
}

var (
	nonAlnum       = regexp.MustCompile(`[^A-Za-z0-9]`)
	nonDigit       = regexp.MustCompile(`[^0-9]`)
	fourteenDigits = regexp.MustCompile(`20[0-9]{12}`)
)

// Filename derives the destination filename for path given its capture time.
// Rules, in order:
//  1. A stem already carrying the canonical prefix is kept as-is so re-running
//     on a sorted tree never renames anything.
//  2. A stem embedding a 14-digit "20xx…" run (a timestamp stamped by another
//     tool) keeps that run as a disambiguating suffix: canonical + "__" +
//     stripped stem.
//  3. Otherwise: canonical + "_" + stem.
//
// The extension is lower-cased and ".jpeg" becomes ".jpg".
func Filename(path string, ts time.Time) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	ext = NormalizeExt(ext)

	canonical := Basename(ts)
	if strings.HasPrefix(stem, canonical) {
		return stem + ext
	}
	if stamped := strippedStampedStem(stem); stamped != "" {
		return canonical + "__" + stamped + ext
	}
	return canonical + "_" + stem + ext
}

// strippedStampedStem returns the stem stripped of non-alphanumerics when it
// embeds a plausible 14-digit timestamp, or "" when it doesn't.
func strippedStampedStem(stem string) string {
	stripped := nonAlnum.ReplaceAllString(stem, "")
	digits := nonDigit.ReplaceAllString(stem, "")
	if strings.HasPrefix(digits, "20") && fourteenDigits.MatchString(stripped) {
		return stripped
	}
	return ""
}

// NormalizeExt lower-cases an extension and rewrites ".jpeg" to ".jpg".
func NormalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == ".jpeg" {
		return ".jpg"
	}
	return ext
}
