package output

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/German-BioImaging/omero-rdf/errors"
)

func TestOpenStdout(t *testing.T) {
	for _, dest := range []string{"", "-"} {
		w, err := Open(dest)
		require.NoError(t, err, dest)
		assert.NoError(t, w.Close(), "closing must not close stdout")
	}
}

func TestOpenPlainFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.nt")
	w, err := Open(dest)
	require.NoError(t, err)

	_, err = io.WriteString(w, "triple line\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "triple line\n", string(data))
}

func TestOpenGzip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.nt.gz")
	w, err := Open(dest)
	require.NoError(t, err)

	_, err = io.WriteString(w, "compressed line\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "compressed line\n", string(data))
}

func TestCheckExtension(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name      string
		dest      string
		format    string
		assumeYes bool
		answer    string
		wantErr   bool
	}{
		{name: "stdout is never checked", dest: "-", format: "turtle"},
		{name: "matching extension", dest: "out.nt", format: "ntriples"},
		{name: "matching extension behind gz", dest: "out.ttl.gz", format: "turtle"},
		{name: "jsonld accepts json", dest: "out.json", format: "jsonld"},
		{name: "ro-crate accepts jsonld", dest: "crate.jsonld", format: "ro-crate"},
		{name: "mismatch with yes flag", dest: "out.txt", format: "turtle", assumeYes: true},
		{name: "mismatch confirmed", dest: "out.txt", format: "turtle", answer: "y\n"},
		{name: "mismatch confirmed verbose", dest: "out.txt", format: "ntriples", answer: "yes\n"},
		{name: "mismatch declined", dest: "out.txt", format: "turtle", answer: "n\n", wantErr: true},
		{name: "mismatch empty answer declines", dest: "out.txt", format: "turtle", answer: "\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			err := CheckExtension(tt.dest, tt.format, tt.assumeYes,
				strings.NewReader(tt.answer), &prompt, discard)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrAborted))
				return
			}
			require.NoError(t, err)
			if tt.answer != "" {
				assert.Contains(t, prompt.String(), "Continue anyway?")
			}
		})
	}
}
