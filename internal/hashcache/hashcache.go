package hashcache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"photosort/internal/logging"
)

// Cache answers whether an identical file (by content hash) already exists in
// a target folder. Hashes are memoized per normalized folder path for the
// lifetime of the process; entries are never invalidated, so a file replaced
// in place keeps its stale hash until the process restarts. Sequential
// single-process use only.
type Cache struct {
	logger  *slog.Logger
	folders map[string]*folderEntry
}

type folderEntry struct {
	hashes map[uint64]struct{}
	byName map[string]uint64
}

// New creates an empty cache.
func New(logger *slog.Logger) *Cache {
	return &Cache{
		logger:  logging.NewComponentLogger(logger, "hashcache"),
		folders: make(map[string]*folderEntry),
	}
}

// HasFile reports whether targetFolder already holds a file with byte content
// identical to the file at path. The folder listing is re-read on every call,
// but only files with unknown basenames are hashed.
func (c *Cache) HasFile(targetFolder, path string) (bool, error) {
	folder := filepath.Clean(targetFolder)
	entry := c.folders[folder]
	if entry == nil {
		entry = &folderEntry{
			hashes: make(map[uint64]struct{}),
			byName: make(map[string]uint64),
		}
		c.folders[folder] = entry
	}

	if err := c.refresh(folder, entry); err != nil {
		return false, err
	}

	fileHash, err := hashFile(path)
	if err != nil {
		return false, err
	}
	_, found := entry.hashes[fileHash]
	return found, nil
}

func (c *Cache) refresh(folder string, entry *folderEntry) error {
	listing, err := os.ReadDir(folder)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("list %s: %w", folder, err)
	}
	for _, dirent := range listing {
		if dirent.IsDir() {
			continue
		}
		name := dirent.Name()
		if _, known := entry.byName[name]; known {
			continue
		}
		fileHash, err := hashFile(filepath.Join(folder, name))
		if err != nil {
			return err
		}
		entry.hashes[fileHash] = struct{}{}
		entry.byName[name] = fileHash
		c.logger.Debug("hashed library file", logging.String("folder", folder), logging.String("name", name))
	}
	return nil
}

// FileHash returns the hex-encoded content digest of the file at path.
func FileHash(path string) (string, error) {
	fileHash, err := hashFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", fileHash), nil
}

func hashFile(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return xxh3.Hash(data), nil
}
