package flags

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams(t *testing.T) {
	t.Parallel()

	var p Params
	require.NoError(t, p.Set("active=1"))
	require.NoError(t, p.Set("tag=a"))
	require.NoError(t, p.Set("tag=b"))
	require.NoError(t, p.Set("q=x=y"))

	assert.Equal(t, "active=1,tag=a,tag=b,q=x=y", p.String())
	assert.Equal(t, url.Values{"active": {"1"}, "tag": {"a", "b"}, "q": {"x=y"}}, p.Values())

	p.Reset()
	assert.Nil(t, p.Values())
}

func TestParams_Invalid(t *testing.T) {
	t.Parallel()

	var p Params
	assert.Error(t, p.Set("active"))
	assert.Error(t, p.Set("=1"))
	assert.Empty(t, p)
}
