package dataset

import "path/filepath"

// Load reads <baseDir>/<subdir>/<filename> and returns the dataset together
// with the path it came from.
func Load(baseDir, subdir, filename string) (*Dataset, string, error) {
	path := filepath.Join(baseDir, subdir, filename)
	ds, err := ReadCSV(path)
	if err != nil {
		return nil, path, err
	}
	return ds, path, nil
}
