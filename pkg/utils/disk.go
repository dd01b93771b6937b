package utils

import "os"

// FileSizeBytes returns the total size in bytes of the given files.
// Missing paths are skipped (contribute 0); other stat errors are returned.
func FileSizeBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
		}
	}
	return total, nil
}
