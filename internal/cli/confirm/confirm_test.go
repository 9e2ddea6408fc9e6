package confirm_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/cli/confirm"
)

func newPrompter(input string) (*confirm.Prompter, *bytes.Buffer) {
	var stderr bytes.Buffer
	return &confirm.Prompter{
		Stdin:  strings.NewReader(input),
		Stdout: io.Discard,
		Stderr: &stderr,
	}, &stderr
}

func TestConfirmDelete_Yes(t *testing.T) {
	t.Parallel()

	p, stderr := newPrompter("y\n")

	ok, err := p.ConfirmDelete("my-hub", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, stderr.String(), "my-hub")
}

func TestConfirmDelete_No(t *testing.T) {
	t.Parallel()

	p, _ := newPrompter("n\n")

	ok, err := p.ConfirmDelete("my-hub", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmDelete_DefaultIsNo(t *testing.T) {
	t.Parallel()

	p, _ := newPrompter("\n")

	ok, err := p.ConfirmDelete("my-hub", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmDelete_Skip(t *testing.T) {
	t.Parallel()

	p, stderr := newPrompter("")

	ok, err := p.ConfirmDelete("my-hub", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, stderr.String())
}
