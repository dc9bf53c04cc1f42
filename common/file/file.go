package file

import (
	"os"
	"path/filepath"
	"strings"
)

const rotatedSuffix = "_rotating-axis"

// RotatedPath names the output next to the input: part.gcode becomes
// part_rotating-axis.gcode.
func RotatedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + rotatedSuffix + ext
}

func CloseWithSync(f *os.File) error {
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
