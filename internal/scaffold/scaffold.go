// Package scaffold writes the starter files of a freshly bootstrapped repository.
package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ReadmeFile    = "README.md"
	GitignoreFile = ".gitignore"
	TaskDir       = ".claude"
	TaskFile      = "TASK.md"
)

// TaskPath is the task file location relative to the workspace root.
var TaskPath = filepath.Join(TaskDir, TaskFile)

// Result lists what Write touched, relative to the workspace root.
type Result struct {
	Created []string
	Skipped []string
}

// Write creates README.md and .gitignore when absent and, if instructions is non-empty,
// (re)writes the task file.
func Write(dir, name, description, instructions string) (*Result, error) {
	res := &Result{}

	files := []struct {
		name    string
		content string
	}{
		{ReadmeFile, Readme(name, description)},
		{GitignoreFile, Gitignore()},
	}
	for _, f := range files {
		created, err := writeIfAbsent(filepath.Join(dir, f.name), f.content)
		if err != nil {
			return res, err
		}
		if created {
			res.Created = append(res.Created, f.name)
		} else {
			res.Skipped = append(res.Skipped, f.name)
		}
	}

	if instructions == "" {
		return res, nil
	}
	if err := os.MkdirAll(filepath.Join(dir, TaskDir), 0o755); err != nil {
		return res, fmt.Errorf("creating %s: %w", TaskDir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, TaskPath), []byte(Task(instructions)), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", TaskPath, err)
	}
	res.Created = append(res.Created, TaskPath)
	return res, nil
}

// writeContent is swapped in tests to simulate a failing disk.
var writeContent = io.WriteString

// writeIfAbsent creates path with content unless it already exists.
// A failed write removes the partial file so a rerun creates it again.
func writeIfAbsent(path, content string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	if _, err := writeContent(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return false, fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
