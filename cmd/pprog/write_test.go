package main

import (
	"os"
	"testing"

	"github.com/moffa90/go-pprog/host"
	"github.com/retroenv/retrogolib/assert"
)

func TestFirstDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want int
	}{
		{"equal", []byte{1, 2, 3}, []byte{1, 2, 3}, -1},
		{"middle", []byte{1, 2, 3}, []byte{1, 9, 3}, 1},
		{"short read", []byte{1, 2, 3}, []byte{1, 2}, 2},
		{"empty", nil, nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstDifference(tt.a, tt.b))
		})
	}
}

func TestProgressBarQuiet(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "progress")
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	bar := newProgressBar(f, false)
	assert.False(t, bar.enabled)

	bar.Update(host.Progress{Phase: host.PhaseWriting, Done: 1, Total: 2, Percentage: 50})
	bar.Finish()

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}
