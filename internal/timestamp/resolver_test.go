package timestamp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photosort/internal/logging"
	"photosort/internal/media/exiftag"
	"photosort/internal/media/ffprobe"
	"photosort/internal/services"
	"photosort/internal/timestamp"
)

func fixedProbe(creationTime string, probeErr error) func(context.Context, string, string) (ffprobe.Result, error) {
	return func(context.Context, string, string) (ffprobe.Result, error) {
		if probeErr != nil {
			return ffprobe.Result{}, probeErr
		}
		result := ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video", Tags: map[string]string{}}}}
		if creationTime != "" {
			result.Streams[0].Tags["creation_time"] = creationTime
		}
		return result, nil
	}
}

func fixedExif(value string, err error) func(string) (string, error) {
	return func(string) (string, error) { return value, err }
}

func TestResolveUsesExifDateTag(t *testing.T) {
	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		fixedProbe("", nil), fixedExif("2004:05:07 20:16:31", nil))

	resolved, err := resolver.Resolve(context.Background(), "/photos/IMG_0001.JPG")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := time.Date(2004, time.May, 7, 20, 16, 31, 0, time.Local)
	if !resolved.Equal(want) {
		t.Fatalf("resolved %v, want %v", resolved, want)
	}
}

func TestResolveFallsBackToModTimeOnMissingTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2019, time.July, 4, 10, 30, 0, 0, time.Local)
	if err := os.Chtimes(path, want, want); err != nil {
		t.Fatal(err)
	}

	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		fixedProbe("", nil), fixedExif("", exiftag.ErrNoDateTag))

	resolved, err := resolver.Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.Equal(want) {
		t.Fatalf("resolved %v, want mtime %v", resolved, want)
	}
}

func TestResolveFallsBackOnMalformedTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.Local)
	if err := os.Chtimes(path, want, want); err != nil {
		t.Fatal(err)
	}

	for _, malformed := range []string{
		"2004:05:07 20:16",       // five components
		"2004:05:07 20:16:31:00", // seven components
		"not a date",
		"2004:13:07 20:16:31", // month out of range
		"2004:02:31 10:00:00", // impossible calendar date
		"2023:02:29 10:00:00", // leap day outside a leap year
		"2004:04:31 10:00:00", // April has 30 days
	} {
		resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
			fixedProbe("", nil), fixedExif(malformed, nil))
		resolved, err := resolver.Resolve(context.Background(), path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", malformed, err)
		}
		if !resolved.Equal(want) {
			t.Fatalf("Resolve(%q) = %v, want mtime fallback %v", malformed, resolved, want)
		}
	}
}

func TestResolveVideoCreationTime(t *testing.T) {
	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		fixedProbe("2015-06-01T12:00:00.000000Z", nil), fixedExif("", exiftag.ErrNoDateTag))

	resolved, err := resolver.Resolve(context.Background(), "/videos/clip.mov")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := time.Date(2015, time.June, 1, 12, 0, 0, 0, time.UTC).Local()
	if !resolved.Equal(want) {
		t.Fatalf("resolved %v, want %v", resolved, want)
	}
}

func TestResolveVideoFloorRejectsOldTimestamps(t *testing.T) {
	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		fixedProbe("2000-01-01T00:00:00Z", nil), fixedExif("", exiftag.ErrNoDateTag))

	_, err := resolver.Resolve(context.Background(), "/videos/old.mp4")
	if !errors.Is(err, timestamp.ErrTooOld) {
		t.Fatalf("expected ErrTooOld, got %v", err)
	}
}

func TestResolveVideoProbeFailureIsFatal(t *testing.T) {
	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		fixedProbe("", errors.New("ffprobe exploded")), fixedExif("", exiftag.ErrNoDateTag))

	_, err := resolver.Resolve(context.Background(), "/videos/clip.mov")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestResolveVideoWithoutVideoStreamIsFatal(t *testing.T) {
	audioOnly := func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{
			{CodecType: "audio", Tags: map[string]string{"creation_time": "2015-06-01T12:00:00Z"}},
		}}, nil
	}
	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		audioOnly, fixedExif("", exiftag.ErrNoDateTag))

	_, err := resolver.Resolve(context.Background(), "/videos/renamed-audio.mp4")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("containers without a video stream must not resolve, got %v", err)
	}
}

func TestResolveVideoMissingTagIsFatal(t *testing.T) {
	resolver := timestamp.NewResolverWithDependencies("ffprobe", logging.NewNop(),
		fixedProbe("", nil), fixedExif("", exiftag.ErrNoDateTag))

	_, err := resolver.Resolve(context.Background(), "/videos/untagged.mov")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("videos without creation_time must not fall back, got %v", err)
	}
}

func TestIsVideoExtension(t *testing.T) {
	for ext, want := range map[string]bool{
		".mov": true, ".MOV": true, ".mp4": true, ".jpg": false, ".png": false,
	} {
		if got := timestamp.IsVideoExtension(ext); got != want {
			t.Fatalf("IsVideoExtension(%q) = %v, want %v", ext, got, want)
		}
	}
}
