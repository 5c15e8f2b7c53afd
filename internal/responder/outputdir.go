package responder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

const refinedSuffix = "_REFINED"

// OutputRemover deletes granule files from the shared processor output
// mount. The tree is laid out by dataset family, dataset code, year, and
// day of year, with a parallel refined area per dataset.
type OutputRemover struct {
	mount  string
	logger *zap.Logger
}

// NewOutputRemover constructs an OutputRemover rooted at mount.
func NewOutputRemover(mount string, logger *zap.Logger) *OutputRemover {
	return &OutputRemover{mount: mount, logger: logger}
}

// Remove deletes the granule data file and its checksum sidecar from both
// the primary and refined output areas. Absent files are a no-op; all four
// paths are attempted and any other removal errors are aggregated.
func (r *OutputRemover) Remove(granuleFile string) error {
	name, err := ParseGranuleName(granuleFile)
	if err != nil {
		return err
	}
	familyDir, err := name.OutputFamilyDir()
	if err != nil {
		return err
	}

	year := strconv.Itoa(name.Year())
	yday := strconv.Itoa(name.DayOfYear())

	var result *multierror.Error
	for _, dataset := range []string{name.Dataset, name.Dataset + refinedSuffix} {
		dir := filepath.Join(r.mount, familyDir, dataset, year, yday)
		result = multierror.Append(result,
			r.removeFile(filepath.Join(dir, granuleFile)),
			r.removeFile(filepath.Join(dir, granuleFile+".md5")),
		)
	}

	return result.ErrorOrNil()
}

func (r *OutputRemover) removeFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("file does not exist on output mount", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	r.logger.Info("removed file from output mount", zap.String("path", path))
	return nil
}
