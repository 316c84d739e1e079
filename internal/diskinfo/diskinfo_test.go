package diskinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage_RootVolume(t *testing.T) {
	summary, err := Usage("/")
	require.NoError(t, err)

	assert.Equal(t, "/", summary.Path)
	assert.Greater(t, summary.Total, uint64(0))
	assert.LessOrEqual(t, summary.Used, summary.Total)
	assert.GreaterOrEqual(t, summary.UsedPercent, 0.0)
	assert.LessOrEqual(t, summary.UsedPercent, 100.0)
}

func TestUsage_MissingPath(t *testing.T) {
	_, err := Usage("/definitely/not/a/mountpoint")
	assert.Error(t, err)
}
