package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// LoadJSON reads a JSON file from the testdata directory next to this package
// and unmarshals it into target.
func LoadJSON(filename string, target any) error {
	_, currentFile, _, _ := runtime.Caller(0)
	dir := filepath.Dir(currentFile)

	data, err := os.ReadFile(filepath.Join(dir, "testdata", filename))
	if err != nil {
		return err
	}

	return json.Unmarshal(data, target)
}
