package responder

import (
	"fmt"
	"strings"
	"time"
)

// Granule names pack acquisition time and dataset identity into fixed
// delimiter positions, e.g.
// "20230115103045-JPL-L2P-MODIS_A-n-v02.0-fv01.0.nc": field 0 is the
// acquisition timestamp, field 4 the dataset code. The layout is an
// external contract shared with the processing pipeline.
const (
	granuleDelimiter  = "-"
	granuleTimeLayout = "20060102150405"
	granuleMinFields  = 5
	datasetField      = 4
)

// Per-dataset directory names on the shared output mount.
var outputFamilyDirs = map[string]string{
	"MODIS_A": "MODIS_L2P_CORE_NETCDF",
	"MODIS_T": "MODIS_L2P_CORE_NETCDF",
	"VIIRS":   "VIIRS_L2P_CORE_NETCDF",
}

// Per-dataset key prefixes in the staging bucket.
var stagingSubdirs = map[string]string{
	"MODIS_A": "aqua",
	"MODIS_T": "terra",
	"VIIRS":   "viirs",
}

// GranuleName is the structured form of a granule identifier.
type GranuleName struct {
	Raw      string
	Acquired time.Time
	Dataset  string
}

// ParseGranuleName extracts the acquisition timestamp and dataset code
// from a granule identifier. The VIIRS family drops its platform suffix
// so that VIIRS_NPP and plain VIIRS share one directory tree.
func ParseGranuleName(name string) (GranuleName, error) {
	fields := strings.Split(name, granuleDelimiter)
	if len(fields) <= datasetField {
		return GranuleName{}, fmt.Errorf("granule name %q: expected at least %d %q-delimited fields", name, granuleMinFields, granuleDelimiter)
	}

	acquired, err := time.Parse(granuleTimeLayout, fields[0])
	if err != nil {
		return GranuleName{}, fmt.Errorf("granule name %q: parse timestamp: %w", name, err)
	}

	dataset := fields[datasetField]
	if strings.Contains(dataset, "VIIRS") {
		dataset = strings.ReplaceAll(dataset, "_NPP", "")
	}

	return GranuleName{Raw: name, Acquired: acquired, Dataset: dataset}, nil
}

// Year returns the acquisition year.
func (g GranuleName) Year() int {
	return g.Acquired.Year()
}

// DayOfYear returns the acquisition day of year.
func (g GranuleName) DayOfYear() int {
	return g.Acquired.YearDay()
}

// StagingSubdir returns the staging-bucket key prefix for the granule's
// dataset.
func (g GranuleName) StagingSubdir() (string, error) {
	subdir, ok := stagingSubdirs[g.Dataset]
	if !ok {
		return "", &UnknownDatasetError{Code: g.Dataset}
	}
	return subdir, nil
}

// OutputFamilyDir returns the dataset-family directory name on the shared
// output mount.
func (g GranuleName) OutputFamilyDir() (string, error) {
	dir, ok := outputFamilyDirs[g.Dataset]
	if !ok {
		return "", &UnknownDatasetError{Code: g.Dataset}
	}
	return dir, nil
}
