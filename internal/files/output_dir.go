package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// AllocateRunDir creates a fresh directory under base named after the
// calendar date of now. If base/YYYY-MM-DD exists, base/YYYY-MM-DD_2,
// _3, ... are probed until an unused name is found. Existing directories
// are never reused.
//
// The check and the create are not atomic with respect to other processes.
func AllocateRunDir(base string, now time.Time) (string, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("create output base %s: %w", base, err)
	}

	day := now.Format(dateLayout)
	candidate := filepath.Join(base, day)
	for index := 2; ; index++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check run directory %s: %w", candidate, err)
		}
		if !taken {
			break
		}
		candidate = filepath.Join(base, day+"_"+strconv.Itoa(index))
	}

	if err := os.Mkdir(candidate, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return candidate, nil
}

// exists reports only what Stat can tell for sure. Any error other than
// not-exist is returned so the caller fails instead of probing forever.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
