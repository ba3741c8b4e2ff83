package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix names the staging files used while a report is written.
	TempFilePrefix = "docurgent-tmp-"
	// ReportPerm is the mode of report files.
	ReportPerm os.FileMode = 0644
)

// Write sends a rendered report to stdout when path is empty. Otherwise the
// report is staged next to path and renamed over it, so a reader of path sees
// either the previous run's report or this one, never a partial file.
func Write(path string, report []byte, stdout io.Writer) (err error) {
	if path == "" {
		_, err = stdout.Write(report)
		return err
	}

	staged, err := os.CreateTemp(filepath.Dir(path), TempFilePrefix+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			staged.Close()
			os.Remove(staged.Name())
		}
	}()

	if _, err = staged.Write(report); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if err = staged.Chmod(ReportPerm); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if err = staged.Sync(); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if err = staged.Close(); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if err = os.Rename(staged.Name(), path); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	return nil
}
