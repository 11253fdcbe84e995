package scaffold

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWrite_FreshDirectory(t *testing.T) {
	dir := t.TempDir()

	res, err := Write(dir, "widgets", "Widget factory", "")
	require.NoError(t, err)
	assert.Equal(t, []string{ReadmeFile, GitignoreFile}, res.Created)
	assert.Empty(t, res.Skipped)

	readme := readFile(t, filepath.Join(dir, ReadmeFile))
	assert.Contains(t, readme, "# widgets\n")
	assert.Contains(t, readme, "Widget factory")
	assert.Contains(t, readFile(t, filepath.Join(dir, GitignoreFile)), ".env\n")
	assert.NoFileExists(t, filepath.Join(dir, TaskPath))
}

func TestWrite_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReadmeFile), []byte("mine"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, GitignoreFile), []byte("*.log"), 0o644))

	res, err := Write(dir, "widgets", "", "")
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, []string{ReadmeFile, GitignoreFile}, res.Skipped)
	assert.Equal(t, "mine", readFile(t, filepath.Join(dir, ReadmeFile)))
	assert.Equal(t, "*.log", readFile(t, filepath.Join(dir, GitignoreFile)))
}

func TestWrite_TaskFileIsAlwaysRewritten(t *testing.T) {
	dir := t.TempDir()

	_, err := Write(dir, "widgets", "", "build the thing")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, TaskPath)), "build the thing")

	res, err := Write(dir, "widgets", "", "build another thing")
	require.NoError(t, err)
	assert.Equal(t, []string{TaskPath}, res.Created)
	assert.Equal(t, []string{ReadmeFile, GitignoreFile}, res.Skipped)

	task := readFile(t, filepath.Join(dir, TaskPath))
	assert.Contains(t, task, "build another thing")
	assert.NotContains(t, task, "build the thing")
}

func TestWrite_MissingDirectory(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "missing"), "widgets", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating README.md")
}

func TestTemplates(t *testing.T) {
	assert.Contains(t, Readme("widgets", ""), defaultDescription)
	assert.Contains(t, Readme("widgets", ""), "## Getting Started")

	task := Task("line one\nline two")
	assert.Contains(t, task, "# Initial Task\n\nline one\nline two\n")
	assert.Contains(t, task, "You can delete it after completing the task.")
}

func TestWrite_FailedWriteLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	original := writeContent
	t.Cleanup(func() { writeContent = original })
	writeContent = func(w io.Writer, s string) (int, error) {
		n, _ := io.WriteString(w, s[:len(s)/2])
		return n, errors.New("no space left on device")
	}

	_, err := Write(dir, "widgets", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing README.md")
	assert.NoFileExists(t, filepath.Join(dir, ReadmeFile))

	writeContent = original
	res, err := Write(dir, "widgets", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{ReadmeFile, GitignoreFile}, res.Created)
	assert.Contains(t, readFile(t, filepath.Join(dir, ReadmeFile)), "Getting Started")
}
