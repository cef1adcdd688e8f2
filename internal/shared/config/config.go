package config

import (
	"os"
	"path/filepath"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Load resolves cfgName and decodes it into out, panicking on failure: the
// process must not start with a broken configuration.
//
// An explicit cfgName (relative to the working directory or absolute) wins;
// otherwise configs/conf.yml is searched from the working directory upward.
func Load(cfgName string, out any) {
	path, err := Resolve(cfgName)
	if err != nil {
		panic(err)
	}
	if err := load(path, out, true); err != nil {
		panic(err)
	}
}

// Read decodes the file at path into out without watching it.
func Read(path string, out any) error {
	return load(path, out, false)
}

func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{From: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	From string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + DefaultConfigRelPath + " from: " + e.From
}
