package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxCollisionAttempts = 10000

// ResolveCollision returns a path guaranteed not to exist at call time. The
// candidate is returned unchanged when free; otherwise "-N" suffixes are
// inserted before the extension until a free slot is found. The check is
// stat-based with no create-exclusive guarantee: sequential single-process
// use only.
func ResolveCollision(path string) (string, error) {
	exists, err := pathExists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return path, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for attempt := 1; attempt <= maxCollisionAttempts; attempt++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, attempt, ext))
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted collision suffixes for %s", path)
}

func pathExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
