package pasta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominichamon/pasta"
)

func TestRoundTripIdentity(t *testing.T) {
	t.Parallel()

	src := "import os  # io\n\n\ndef main():\n    return os.getcwd()\n"
	out, err := pasta.RoundTrip(context.Background(), []byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestParseAnnotatedThenEdit(t *testing.T) {
	t.Parallel()

	src := "greeting = 'hello'\n"
	tree, err := pasta.ParseAnnotated(context.Background(), []byte(src))
	require.NoError(t, err)

	out, err := pasta.Generate(tree)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestAnnotateSeparately(t *testing.T) {
	t.Parallel()

	src := "x = (1 +\n     2)\n"
	tree, err := pasta.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.NoError(t, pasta.Annotate([]byte(src), tree))

	out, err := pasta.Generate(tree)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestRoundTripRejectsBadSource(t *testing.T) {
	t.Parallel()

	_, err := pasta.RoundTrip(context.Background(), []byte("def f(:\n"))
	assert.Error(t, err)
}
