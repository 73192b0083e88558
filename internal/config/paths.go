package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolvePaths makes every relative file path absolute. Paths are relative to
// the directory of the config file when one was loaded, otherwise to the
// working directory.
func (c *Config) resolvePaths() error {
	base, err := c.baseDir()
	if err != nil {
		return fmt.Errorf("failed to determine base directory: %w", err)
	}

	for _, p := range []*string{
		&c.Workbook.InputPath,
		&c.Workbook.OutputPath,
		&c.Logging.FilePath,
		&c.Telemetry.TraceFile,
	} {
		*p = resolve(base, *p)
	}

	// A bare executable name is looked up on PATH by chromedp.
	if strings.ContainsRune(c.Scraper.ExecPath, filepath.Separator) || strings.Contains(c.Scraper.ExecPath, "/") {
		c.Scraper.ExecPath = resolve(base, c.Scraper.ExecPath)
	}

	return nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(base, path))
}

// EnsureOutputDirectories creates the directories that receive the output
// workbook, the log file and the trace file
func (c *Config) EnsureOutputDirectories() error {
	for _, p := range []string{c.Workbook.OutputPath, c.Logging.FilePath, c.Telemetry.TraceFile} {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
