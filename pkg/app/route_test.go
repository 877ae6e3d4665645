package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"todo", "/todo"},
		{"/todo/", "/todo"},
		{"//a///b", "/a/b"},
		{"/a/./b", "/a/b"},
		{"/a/../b", "/b"},
		{"/a?x=1", "/a"},
		{"/caf%C3%A9", "/caf%C3%A9"},
	}
	for _, tt := range tests {
		got, err := CleanPath(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCleanPathRejects(t *testing.T) {
	for _, in := range []string{"/a\\b", "/a%00", "/a\x00", "/%G1", "/%2", "/../x"} {
		_, err := CleanPath(in)
		assert.ErrorIs(t, err, ErrInvalidPath, in)
	}
}
