package gctscript

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ScriptExt is the expected strategy script file extension
const ScriptExt = ".gct"

func readScript(path string) ([]byte, error) {
	if filepath.Ext(path) == "" {
		path += ScriptExt
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read script")
	}
	return contents, nil
}

func scriptName(path string) string {
	return filepath.Base(path)
}
