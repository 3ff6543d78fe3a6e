package connector

import (
	"context"
	"testing"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/shard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenShardsInvalidConfig(t *testing.T) {
	_, err := OpenShards(context.Background(), &ShardsConfig{})
	assert.Error(t, err)
}

func TestOpenShardsConnectFailure(t *testing.T) {
	cfg := &ShardsConfig{Shards: []ShardConfig{{
		ID: "down",
		Config: Config{
			// reserved for documentation, never routed
			Host:           "192.0.2.1",
			Port:           5432,
			SSLMode:        "disable",
			ConnectTimeout: 200 * time.Millisecond,
		},
	}}}

	_, err := OpenShards(context.Background(), cfg)
	var se *shard.ShardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, shard.ID("down"), se.Shard)
}
