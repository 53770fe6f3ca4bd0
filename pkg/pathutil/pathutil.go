// Package pathutil validates filesystem paths before they are read or written.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePath checks a path for directory traversal attempts. Relative paths
// must stay local; absolute paths are cleaned and accepted.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is empty")
	}

	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) {
		return cleaned, nil
	}
	if !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("path %q escapes the working directory", path)
	}
	return cleaned, nil
}

// ValidateConfigPath validates a path expected to hold a YAML document.
func ValidateConfigPath(path string) (string, error) {
	cleaned, err := ValidatePath(path)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(cleaned))
	if ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("config file %q must have a .yaml or .yml extension", path)
	}
	return cleaned, nil
}

// JoinAndValidate joins name onto base and ensures the result does not escape
// base. The name must be a bare file or subpath, not absolute.
func JoinAndValidate(base, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name is empty")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("name %q must be relative", name)
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("name %q escapes %q", name, base)
	}
	return filepath.Join(base, name), nil
}
