package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sqweek/dialog"
)

const stdinPath = "-"

// choosePath returns the file path either from the command-line args
// or from an interactive file dialog.
func choosePath(cwd string, args []string) (string, error) {
	// If an argument was passed to the program, use it.
	if len(args) > 0 {
		return absChartPath(args[0])
	}

	// Otherwise open the file dialog.
	path, err := dialog.
		File().
		Title("Open chart").
		Filter("Charts (*.chart)", "chart").
		SetStartDir(cwd).
		Load()
	if err != nil {
		// Caller checks for dialog.ErrCancelled.
		return "", err
	}

	// Check for empty path just in case.
	if path == "" {
		return "", dialog.ErrCancelled
	}
	return absChartPath(path)
}

func absChartPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}
	if err := validatePath(absPath); err != nil {
		return "", fmt.Errorf("not a valid chart path: %w", err)
	}
	return absPath, nil
}

// validatePath performs simple checks to verify if a chart file exists or not.
func validatePath(p string) error {
	if strings.ToLower(filepath.Ext(p)) != ".chart" {
		return fmt.Errorf("file must have .chart extension")
	}
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	return nil
}

// openInput opens a chart path or stdin, returning a display name for diagnostics.
func openInput(path string) (io.ReadCloser, string, error) {
	if path == stdinPath {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	absPath, err := absChartPath(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("error opening file: %w", err)
	}
	return f, filepath.Base(absPath), nil
}

// outputPath is where the fixed version of input is written, or "" for stdout.
func outputPath(input, prefix string) string {
	if prefix == "" || input == stdinPath {
		return ""
	}
	return filepath.Join(filepath.Dir(input), prefix+filepath.Base(input))
}

func writeOutput(input string, data []byte) error {
	path := outputPath(input, cfg.OutputPrefix)
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
		return nil
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	logger.Printf("wrote %s", path)
	return nil
}

// writeFileAtomic writes to a temporary file next to path and renames it into place,
// so a failed write never leaves a half-written chart behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error replacing output file: %w", err)
	}
	return nil
}
