package list_messages

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	q := url.Values{}
	q.Set("read", "false")
	q.Set("search", "enduro")
	q.Set("sort", "status")
	q.Set("order", "asc")

	req, err := ToServiceRequest(q)

	require.NoError(t, err)
	require.NotNil(t, req.Read)
	assert.False(t, *req.Read)
	assert.Nil(t, req.Replied)
	assert.Equal(t, "enduro", req.Search)
	assert.Equal(t, "status", req.SortBy)
	assert.Equal(t, "asc", req.Order)
}

func TestToServiceRequest_InvalidBool(t *testing.T) {
	q := url.Values{}
	q.Set("replied", "maybe")

	_, err := ToServiceRequest(q)

	assert.EqualError(t, err, "replied must be true or false")
}
