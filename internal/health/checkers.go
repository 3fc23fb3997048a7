package health

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Binary reports whether an external tool can be found on PATH (or at the
// given path).
func Binary(name, path string) Checker {
	return Checker{
		Name: name,
		Check: func(_ context.Context) error {
			if _, err := exec.LookPath(path); err != nil {
				return fmt.Errorf("%s not found: %w", path, err)
			}
			return nil
		},
	}
}

// File reports whether a required file, such as a model, exists.
func File(name, path string) Checker {
	return Checker{
		Name: name,
		Check: func(_ context.Context) error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}
			return nil
		},
	}
}

// WritableDir reports whether dir exists and accepts new files.
func WritableDir(name, dir string) Checker {
	return Checker{
		Name: name,
		Check: func(_ context.Context) error {
			f, err := os.CreateTemp(dir, ".readyz-*")
			if err != nil {
				return err
			}
			f.Close()
			return os.Remove(filepath.Clean(f.Name()))
		},
	}
}
