package shortlog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShortlog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2023, 5, 1, 0, 0, 0, 0, time.Local)
	writeShortlog(t, dir, "shortlog-2023-05-01.txt",
		"2023-05-01 09:00:00 | Wrote design doc\n\n2023-05-01 11:30:00 | Reviewed PR\n\n")

	lines, err := ReadLines(dir, date)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2023-05-01 09:00:00 | Wrote design doc",
		"2023-05-01 11:30:00 | Reviewed PR",
	}, lines)
}

func TestReadLines_OnlyDatePortionSelectsFile(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir, "shortlog-2023-05-01.txt", "2023-05-01 09:00:00 | a\n")

	lines, err := ReadLines(dir, time.Date(2023, 5, 1, 17, 45, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestReadLines_Missing(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2023, 5, 2, 0, 0, 0, 0, time.Local)

	lines, err := ReadLines(dir, date)
	require.Error(t, err)
	assert.Nil(t, lines)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, filepath.Join(dir, "shortlog-2023-05-02.txt"), nf.Path)
	assert.Contains(t, err.Error(), "2023-05-02")
}

func TestReadLines_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir, "shortlog-2023-05-01.txt", "")

	lines, err := ReadLines(dir, time.Date(2023, 5, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestNewReader_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	writeShortlog(t, dir, "2023-05-01.log", "2023-05-01 09:00:00 | custom\n")

	r, err := NewReader("%Y-%m-%d.log")
	require.NoError(t, err)

	date := time.Date(2023, 5, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "2023-05-01.log", r.FileName(date))

	lines, err := r.ReadLines(dir, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-05-01 09:00:00 | custom"}, lines)
}

func TestNewReader_DefaultPattern(t *testing.T) {
	r, err := NewReader("")
	require.NoError(t, err)
	assert.Equal(t, "shortlog-2024-12-31.txt", r.FileName(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "unix newlines",
			input:    "a\nb\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "windows newlines",
			input:    "a\r\nb\r\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "old mac newlines",
			input:    "a\rb",
			expected: []string{"a", "b"},
		},
		{
			name:     "blank lines dropped without reordering",
			input:    "\n\na\n\n\nb\n\nc",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "whitespace is kept",
			input:    "  a  \n",
			expected: []string{"  a  "},
		},
		{
			name:     "unicode line separator",
			input:    "a\u2028b",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLines(tt.input))
		})
	}
}
