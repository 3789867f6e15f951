package files

import (
	"fmt"
	"os"
)

// RejectSymlinkPath refuses to write through a symlink (or a Windows reparse
// point). Writing through a link would replace the link target instead of the
// file the user named on the command line.
func RejectSymlinkPath(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat destination: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to write through symlink: %s", path)
	}
	reparse, err := isReparsePoint(path)
	if err != nil {
		return fmt.Errorf("failed to inspect destination: %w", err)
	}
	if reparse {
		return fmt.Errorf("refusing to write through reparse point: %s", path)
	}
	return nil
}
