package fu

import (
	"go-ml.dev/pkg/iokit"
	"path/filepath"
)

/*
CachePath resolves a relative artifact name (plots, run journal, datasets)
to a file under the shared cache directory. Absolute paths pass through.
*/
func CachePath(s string) string {
	if filepath.IsAbs(s) {
		return s
	}
	return iokit.CacheFile(filepath.Join("go-ml", "Diabetes", s))
}
