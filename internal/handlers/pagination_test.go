package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(20), limit)
}

func TestParsePaginationValues(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "50")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(50), limit)
}

func TestParsePaginationRejectsBadInput(t *testing.T) {
	for _, bad := range [][2]string{{"0", "10"}, {"-1", "10"}, {"x", "10"}, {"1", "0"}, {"1", "nope"}} {
		_, _, err := parsePaginationParams(bad[0], bad[1])
		assert.Error(t, err, "page=%q limit=%q", bad[0], bad[1])
	}
}
