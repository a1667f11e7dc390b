package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name   string
		group  string
		prefix string
		want   string
	}{
		{"prefix stripped", "RENDER_mug", "RENDER_", "mug.png"},
		{"spaces become underscores", "RENDER_coffee mug v2", "RENDER_", "coffee_mug_v2.png"},
		{"surrounding space trimmed", "RENDER_ mug ", "RENDER_", "mug.png"},
		{"no prefix match leaves name", "props", "RENDER_", "props.png"},
		{"empty prefix", "mug", "", "mug.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.group, tt.prefix))
		})
	}
}

func TestParseOverwriteMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OverwriteMode
		wantErr bool
	}{
		{"overwrite", Overwrite, false},
		{"skip", Skip, false},
		{"increment", Increment, false},
		{"SKIP", Skip, false},
		{" Increment ", Increment, false},
		{"append", Overwrite, true},
		{"", Overwrite, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOverwriteMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverwriteMode_String(t *testing.T) {
	assert.Equal(t, "overwrite", Overwrite.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "increment", Increment.String())
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestResolvePath_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mug.png")
	touch(t, path)

	got, skip := ResolvePath(path, Overwrite)
	assert.Equal(t, path, got)
	assert.False(t, skip)
}

func TestResolvePath_Skip(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "mug.png")
	touch(t, existing)

	_, skip := ResolvePath(existing, Skip)
	assert.True(t, skip)

	fresh := filepath.Join(dir, "bottle.png")
	got, skip := ResolvePath(fresh, Skip)
	assert.False(t, skip)
	assert.Equal(t, fresh, got)
}

func TestResolvePath_Increment(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "mug.png")

	// Nothing on disk yet: the base name is free.
	got, skip := ResolvePath(base, Increment)
	assert.False(t, skip)
	assert.Equal(t, base, got)

	touch(t, base)
	got, skip = ResolvePath(base, Increment)
	assert.False(t, skip)
	assert.Equal(t, filepath.Join(dir, "mug_001.png"), got)

	touch(t, filepath.Join(dir, "mug_001.png"))
	got, _ = ResolvePath(base, Increment)
	assert.Equal(t, filepath.Join(dir, "mug_002.png"), got)
}

func TestEnsureOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "renders", "batch")
	require.NoError(t, EnsureOutputDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing dir is fine.
	assert.NoError(t, EnsureOutputDir(dir))
}

func TestEnsureOutputDir_FileInTheWay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "renders")
	touch(t, file)

	err := EnsureOutputDir(filepath.Join(file, "batch"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output dir")
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "mug.json"), SidecarPath(filepath.Join("out", "mug.png")))
	assert.Equal(t, "mug_001.json", SidecarPath("mug_001.png"))
	assert.Equal(t, "noext.json", SidecarPath("noext"))
}
