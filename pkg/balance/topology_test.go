package balance

import (
	"testing"

	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/stretchr/testify/assert"
)

func TestNewTopologyFromShards(t *testing.T) {
	info := admin.CollectionShardsInfo{
		PeerID:     100,
		ShardCount: 5,
		LocalShards: []admin.LocalShardInfo{
			{ShardID: 3, State: "Active"},
			{ShardID: 1, State: "Active"},
		},
		RemoteShards: []admin.RemoteShardInfo{
			{ShardID: 2, PeerID: 200, State: "Active"},
			{ShardID: 4, PeerID: 300, State: "Active"},
			{ShardID: 5, PeerID: 200, State: "Active"},
		},
	}

	topology := NewTopologyFromShards(info)

	// Local shards first under the responding peer, then remotes in
	// listing order
	assert.Equal(t, []int{100, 200, 300}, topology.PeerIDs())
	assert.Equal(t, []int{3, 1}, topology.Shards(100))
	assert.Equal(t, []int{2, 5}, topology.Shards(200))
	assert.Equal(t, []int{4}, topology.Shards(300))
	assert.Equal(t, 5, topology.TotalShards())

	// A peer absent from the report holds zero shards
	assert.False(t, topology.HasPeer(999))
	assert.Equal(t, []int{}, topology.Shards(999))
	assert.Equal(t, 0, topology.NumShards(999))
}

func TestTopologyMutation(t *testing.T) {
	topology := NewTopology()
	topology.AddShard(1, 10)
	topology.AddShard(1, 11)
	topology.AddShard(2, 12)

	assert.True(t, topology.HasShard(1, 10))
	assert.False(t, topology.HasShard(2, 10))

	assert.True(t, topology.RemoveShard(1, 10))
	assert.False(t, topology.RemoveShard(1, 10))
	assert.False(t, topology.RemoveShard(99, 10))
	assert.Equal(t, []int{11}, topology.Shards(1))

	topology.AddShard(2, 10)
	assert.Equal(t, []int{12, 10}, topology.Shards(2))
}

func TestTopologyClone(t *testing.T) {
	topology := NewTopology()
	topology.AddShard(1, 10)
	topology.AddShard(2, 11)
	topology.EnsurePeer(3)

	cloned := topology.Clone()
	assert.Equal(t, topology.PeerIDs(), cloned.PeerIDs())
	assert.Equal(t, topology.Shards(1), cloned.Shards(1))

	// Mutating the clone must not leak into the original
	cloned.RemoveShard(1, 10)
	cloned.AddShard(3, 10)
	assert.Equal(t, []int{10}, topology.Shards(1))
	assert.Equal(t, []int{}, topology.Shards(3))
}

func TestPeerAddresses(t *testing.T) {
	info := admin.ClusterInfo{
		PeerID: 1,
		Peers: map[int]admin.PeerInfo{
			1: {URI: "http://10.0.0.6:6335/"},
			2: {URI: "http://10.0.0.7:6335"},
			3: {URI: "10.0.0.8:6335"},
			4: {URI: "http://search-node.internal:6335"},
		},
	}

	assert.Equal(
		t,
		map[string]int{
			"10.0.0.6":             1,
			"10.0.0.7":             2,
			"10.0.0.8":             3,
			"search-node.internal": 4,
		},
		PeerAddresses(info),
	)
}

func TestPeerAddressesMalformed(t *testing.T) {
	info := admin.ClusterInfo{
		Peers: map[int]admin.PeerInfo{
			1: {URI: ""},
			2: {URI: "http://10.0.0.7:6335"},
		},
	}

	// A URI without a recognizable address maps from the empty string
	// rather than failing
	assert.Equal(
		t,
		map[string]int{
			"":         1,
			"10.0.0.7": 2,
		},
		PeerAddresses(info),
	)
}
