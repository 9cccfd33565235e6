package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "alpaca", "gemma.json"))
	touch(t, filepath.Join(base, "alpaca", "qwen.json.gz"))
	touch(t, filepath.Join(base, "alpaca", "notes.txt"))
	touch(t, filepath.Join(base, "alpaca", "nested", "deep.json"))
	touch(t, filepath.Join(base, "dolly", "gemma.json"))

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"nil", nil, nil},
		{"empty", []string{}, nil},
		{
			name:     "relative file",
			args:     []string{"alpaca/gemma.json"},
			expected: []string{filepath.Join(base, "alpaca", "gemma.json")},
		},
		{
			name: "directory lists score files only",
			args: []string{"alpaca"},
			expected: []string{
				filepath.Join(base, "alpaca", "gemma.json"),
				filepath.Join(base, "alpaca", "qwen.json.gz"),
			},
		},
		{
			name: "glob",
			args: []string{"*/gemma.json"},
			expected: []string{
				filepath.Join(base, "alpaca", "gemma.json"),
				filepath.Join(base, "dolly", "gemma.json"),
			},
		},
		{
			name:     "missing kept as given",
			args:     []string{"alpaca/llama.json", "*/none-*.json"},
			expected: []string{filepath.Join(base, "alpaca", "llama.json"), filepath.Join(base, "*", "none-*.json")},
		},
		{
			name:     "absolute unchanged",
			args:     []string{filepath.Join(base, "dolly", "gemma.json")},
			expected: []string{filepath.Join(base, "dolly", "gemma.json")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePaths(tt.args, base))
		})
	}
}

func TestIsScoreFile(t *testing.T) {
	assert.True(t, IsScoreFile("gemma.json"))
	assert.True(t, IsScoreFile("gemma.json.gz"))
	assert.False(t, IsScoreFile("gemma.gz"))
	assert.False(t, IsScoreFile("families.yaml"))
}
