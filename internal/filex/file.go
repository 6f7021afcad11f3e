// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, with perm, and
// returns it. A path without a directory component resolves to the current
// working directory, which is left untouched.
func EnsureParentDir(path string, perm os.FileMode) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		return cwd, nil
	}

	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
