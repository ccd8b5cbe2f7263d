package proxy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectClientWithoutProxy(t *testing.T) {
	c, err := NewHTTPClient("")
	require.NoError(t, err)
	require.Nil(t, c.Transport)
	require.Equal(t, requestTimeout, c.Timeout)
}

func TestSocksClientUsesCustomTransport(t *testing.T) {
	c, err := NewHTTPClient("127.0.0.1:1080")
	require.NoError(t, err)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.DialContext)
}
