package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// CheckRequiredFiles verifies that every name in names exists as a regular
// file (or a symlink to one) directly inside dir. Names are checked in
// order and the first missing one is reported as a FileNotFound
// LaunchError naming it. No path search beyond dir is done.
func CheckRequiredFiles(dir string, names []string) error {
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return missingFile(dir, name, nil)
		case err != nil:
			return model.WrapLaunchError(model.KindGeneral,
				fmt.Sprintf("cannot check required file %s", name), err)
		case info.IsDir():
			return missingFile(dir, name, fmt.Errorf("%s is a directory", name))
		}
	}
	return nil
}

func missingFile(dir, name string, cause error) *model.LaunchError {
	e := model.NewLaunchError(model.KindFileNotFound,
		fmt.Sprintf("%s not found", name),
		fmt.Sprintf("Current directory: %s", dir),
		"Run the launcher from the folder that contains the installer files",
		"If the file is really missing, re-download the Overcast installer package",
	)
	e.File = name
	e.Err = cause
	return e
}
