package balance

import (
	"testing"

	"github.com/clustertools/shardctl/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plannerTestCase struct {
	description string
	peers       []peerShards
	expected    []MoveOperation
}

type peerShards struct {
	peerID int
	shards []int
}

func testTopology(peers []peerShards) *Topology {
	topology := NewTopology()
	for _, peer := range peers {
		topology.EnsurePeer(peer.peerID)
		for _, shardID := range peer.shards {
			topology.AddShard(peer.peerID, shardID)
		}
	}
	return topology
}

func (p plannerTestCase) evaluate(t *testing.T, planner Planner) {
	topology := testTopology(p.peers)
	moves := planner.Plan(topology)
	assert.Equal(t, p.expected, moves, p.description)

	// The planner must not touch its input
	verifyTopologyUnchanged(t, topology, p.peers, p.description)
}

func verifyTopologyUnchanged(
	t *testing.T,
	topology *Topology,
	peers []peerShards,
	description string,
) {
	for _, peer := range peers {
		assert.Equal(
			t,
			append([]int{}, peer.shards...),
			topology.Shards(peer.peerID),
			description,
		)
	}
}

func TestGreedyPlanner(t *testing.T) {
	planner := NewGreedyPlanner()

	testCases := []plannerTestCase{
		{
			description: "Empty topology",
			peers:       []peerShards{},
			expected:    []MoveOperation{},
		},
		{
			description: "Peers with zero shards",
			peers: []peerShards{
				{peerID: 1, shards: []int{}},
				{peerID: 2, shards: []int{}},
			},
			expected: []MoveOperation{},
		},
		{
			description: "One peer holds everything, two empty",
			peers: []peerShards{
				{peerID: 1, shards: []int{10, 11, 12}},
				{peerID: 2, shards: []int{}},
				{peerID: 3, shards: []int{}},
			},
			expected: []MoveOperation{
				{ShardID: 10, FromPeer: 1, ToPeer: 2},
				{ShardID: 11, FromPeer: 1, ToPeer: 3},
			},
		},
		{
			description: "Already balanced",
			peers: []peerShards{
				{peerID: 1, shards: []int{10}},
				{peerID: 2, shards: []int{11}},
				{peerID: 3, shards: []int{12}},
			},
			expected: []MoveOperation{},
		},
		{
			description: "Remainder skew tolerated",
			peers: []peerShards{
				{peerID: 1, shards: []int{10, 11}},
				{peerID: 2, shards: []int{12}},
			},
			expected: []MoveOperation{},
		},
		{
			description: "Shard ID collision blocks move, next shard goes instead",
			peers: []peerShards{
				{peerID: 1, shards: []int{10, 11, 12, 13}},
				{peerID: 2, shards: []int{10}},
			},
			expected: []MoveOperation{
				{ShardID: 11, FromPeer: 1, ToPeer: 2},
			},
		},
		{
			description: "All underfilled peers hold colliding shard IDs",
			peers: []peerShards{
				{peerID: 1, shards: []int{10, 11}},
				{peerID: 2, shards: []int{}},
				{peerID: 3, shards: []int{}},
				{peerID: 4, shards: []int{}},
			},
			// target is 0, so nothing is underfilled and nothing moves
			expected: []MoveOperation{},
		},
		{
			description: "Residual imbalance left after blocked scan",
			peers: []peerShards{
				{peerID: 1, shards: []int{10, 11, 12}},
				{peerID: 2, shards: []int{10, 11, 12}},
				{peerID: 3, shards: []int{}},
				{peerID: 4, shards: []int{}},
			},
			// target is 1; peer 1 fills both empty peers first, so by the
			// time peer 2 is scanned there is nowhere left to move and it
			// keeps all three shards. Single pass, no backtracking.
			expected: []MoveOperation{
				{ShardID: 10, FromPeer: 1, ToPeer: 3},
				{ShardID: 11, FromPeer: 1, ToPeer: 4},
			},
		},
		{
			description: "Multiple moves into one peer",
			peers: []peerShards{
				{peerID: 1, shards: []int{10, 11, 12, 13, 14, 15}},
				{peerID: 2, shards: []int{}},
				{peerID: 3, shards: []int{}},
			},
			expected: []MoveOperation{
				{ShardID: 10, FromPeer: 1, ToPeer: 2},
				{ShardID: 11, FromPeer: 1, ToPeer: 2},
				{ShardID: 12, FromPeer: 1, ToPeer: 3},
				{ShardID: 13, FromPeer: 1, ToPeer: 3},
			},
		},
	}

	for _, testCase := range testCases {
		testCase.evaluate(t, planner)
	}
}

func TestGreedyPlannerDeterminism(t *testing.T) {
	peers := []peerShards{
		{peerID: 7, shards: []int{1, 2, 3, 4, 5}},
		{peerID: 3, shards: []int{6}},
		{peerID: 9, shards: []int{}},
		{peerID: 2, shards: []int{7, 8}},
	}
	planner := NewGreedyPlanner()

	first := planner.Plan(testTopology(peers))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, planner.Plan(testTopology(peers)))
	}
}

func TestGreedyPlannerInvariants(t *testing.T) {
	testCases := [][]peerShards{
		{
			{peerID: 1, shards: []int{1, 2, 3, 4, 5, 6, 7}},
			{peerID: 2, shards: []int{1, 2}},
			{peerID: 3, shards: []int{}},
		},
		{
			{peerID: 1, shards: []int{1, 2, 3}},
			{peerID: 2, shards: []int{1, 2, 3}},
			{peerID: 3, shards: []int{1}},
			{peerID: 4, shards: []int{}},
		},
		{
			{peerID: 5, shards: []int{1}},
			{peerID: 6, shards: []int{2}},
			{peerID: 7, shards: []int{3, 4, 5, 6}},
		},
	}

	planner := NewGreedyPlanner()

	for _, peers := range testCases {
		topology := testTopology(peers)
		target := topology.TotalShards() / topology.NumPeers()
		moves := planner.Plan(topology)

		// Replay the plan against the original topology; each move must be
		// valid at the time it is applied.
		replayed := topology.Clone()
		seen := map[MoveOperation]struct{}{}

		for _, move := range moves {
			_, duplicated := seen[move]
			require.False(t, duplicated, "move %+v planned twice", move)
			seen[move] = struct{}{}

			assert.Greater(
				t,
				replayed.NumShards(move.FromPeer),
				target,
				"source peer %d at or below target before move %+v",
				move.FromPeer,
				move,
			)
			assert.Less(
				t,
				replayed.NumShards(move.ToPeer),
				target,
				"destination peer %d not below target before move %+v",
				move.ToPeer,
				move,
			)
			assert.False(
				t,
				replayed.HasShard(move.ToPeer, move.ShardID),
				"destination peer %d already holds shard %d",
				move.ToPeer,
				move.ShardID,
			)

			require.True(t, replayed.RemoveShard(move.FromPeer, move.ShardID))
			replayed.AddShard(move.ToPeer, move.ShardID)
		}

		// No peer ends below target and shard assignments are conserved
		allBefore := []int{}
		allAfter := []int{}
		for _, peerID := range topology.PeerIDs() {
			assert.GreaterOrEqual(t, replayed.NumShards(peerID), target)
			allBefore = append(allBefore, topology.Shards(peerID)...)
			allAfter = append(allAfter, replayed.Shards(peerID)...)
		}
		assert.True(t, util.SameElements(allBefore, allAfter))
	}
}
