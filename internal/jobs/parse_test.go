// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandLines(l List) []string {
	out := make([]string, 0, len(l))
	for _, u := range l {
		out = append(out, u.CommandLine())
	}

	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "blank line between commands",
			input: "echo a\necho b\n\necho c\n",
			want:  []string{"echo a", "echo b", "echo c"},
		},
		{
			name:  "crlf and tabs trimmed",
			input: "echo a\r\n\techo b\t\r\n",
			want:  []string{"echo a", "echo b"},
		},
		{
			name:  "consecutive spaces produce no empty tokens",
			input: "sleep    1  &&  echo done\n",
			want:  []string{"sleep 1 && echo done"},
		},
		{
			name:  "no trailing newline",
			input: "echo last",
			want:  []string{"echo last"},
		},
		{
			name:  "only whitespace",
			input: "\n\t\n   \n\r\n",
			want:  []string{},
		},
		{
			name:  "shell metacharacters kept verbatim",
			input: "cat in.txt | grep x > out.txt\n",
			want:  []string{"cat in.txt | grep x > out.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, commandLines(list))
		})
	}
}

func TestParse_TokensAndLineNumbers(t *testing.T) {
	list, err := Parse(strings.NewReader("\nls  -la /tmp\n\necho hi\n"))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, []string{"ls", "-la", "/tmp"}, list[0].Tokens())
	assert.Equal(t, 2, list[0].Line())
	assert.Equal(t, 4, list[1].Line())
}

func TestUnit_Immutable(t *testing.T) {
	u, ok := NewUnit("echo", "", "a")
	require.True(t, ok)

	tokens := u.Tokens()
	tokens[0] = "rm"

	assert.Equal(t, "echo a", u.CommandLine())
	assert.Equal(t, "echo a", u.String())
}

func TestNewUnit_Empty(t *testing.T) {
	_, ok := NewUnit("", "")
	assert.False(t, ok)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(errReader{})
	require.ErrorIs(t, err, ErrReadJobs)
}
