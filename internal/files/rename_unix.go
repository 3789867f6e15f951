//go:build !windows

package files

import "os"

// renameAtomic is a plain rename; POSIX guarantees atomic replacement on the
// same filesystem, and the temp file is created next to the destination.
func renameAtomic(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func isReparsePoint(string) (bool, error) {
	return false, nil
}
