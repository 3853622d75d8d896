package balance

import (
	"strings"

	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/clustertools/shardctl/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Topology is a normalized view of the shard assignments in a collection,
// keyed by peer ID. Peers are kept in discovery order so that iteration
// (and thus planning) is deterministic across runs.
type Topology struct {
	peers map[int]*peerState
	order []int
}

type peerState struct {
	id     int
	shards []int
}

// NewTopology returns an empty topology.
func NewTopology() *Topology {
	return &Topology{
		peers: map[int]*peerState{},
	}
}

// NewTopologyFromShards builds a topology from a collection shard listing.
// The responding peer's local shards are registered first under its own ID,
// then each remote shard under its reported peer ID. A peer that appears in
// neither listing is absent from the result; consumers must treat a missing
// peer as holding zero shards.
func NewTopologyFromShards(info admin.CollectionShardsInfo) *Topology {
	topology := NewTopology()

	for _, shard := range info.LocalShards {
		topology.AddShard(info.PeerID, shard.ShardID)
	}
	for _, shard := range info.RemoteShards {
		topology.AddShard(shard.PeerID, shard.ShardID)
	}

	return topology
}

// EnsurePeer registers a peer with no shards if it isn't already present.
func (t *Topology) EnsurePeer(peerID int) {
	if _, ok := t.peers[peerID]; !ok {
		t.peers[peerID] = &peerState{id: peerID}
		t.order = append(t.order, peerID)
	}
}

// AddShard appends a shard to a peer's assignment list, registering the
// peer if needed.
func (t *Topology) AddShard(peerID int, shardID int) {
	t.EnsurePeer(peerID)
	t.peers[peerID].shards = append(t.peers[peerID].shards, shardID)
}

// RemoveShard removes the first occurrence of a shard from a peer's
// assignment list. It returns false if the peer doesn't hold the shard.
func (t *Topology) RemoveShard(peerID int, shardID int) bool {
	state, ok := t.peers[peerID]
	if !ok {
		return false
	}

	for s, id := range state.shards {
		if id == shardID {
			state.shards = append(state.shards[:s], state.shards[s+1:]...)
			return true
		}
	}

	return false
}

// HasPeer determines whether a peer is registered in the topology.
func (t *Topology) HasPeer(peerID int) bool {
	_, ok := t.peers[peerID]
	return ok
}

// PeerIDs returns the peer IDs in discovery order.
func (t *Topology) PeerIDs() []int {
	return util.CopyInts(t.order)
}

// Shards returns a copy of the shard IDs assigned to a peer, in discovery
// order. An unknown peer yields an empty slice.
func (t *Topology) Shards(peerID int) []int {
	state, ok := t.peers[peerID]
	if !ok {
		return []int{}
	}
	return util.CopyInts(state.shards)
}

// NumShards returns the number of shards assigned to a peer.
func (t *Topology) NumShards(peerID int) int {
	state, ok := t.peers[peerID]
	if !ok {
		return 0
	}
	return len(state.shards)
}

// HasShard determines whether a peer currently holds the argument shard ID.
func (t *Topology) HasShard(peerID int, shardID int) bool {
	state, ok := t.peers[peerID]
	if !ok {
		return false
	}

	for _, id := range state.shards {
		if id == shardID {
			return true
		}
	}

	return false
}

// TotalShards returns the number of shard assignments across all peers.
func (t *Topology) TotalShards() int {
	total := 0
	for _, state := range t.peers {
		total += len(state.shards)
	}
	return total
}

// NumPeers returns the number of registered peers.
func (t *Topology) NumPeers() int {
	return len(t.order)
}

// Clone returns a deep copy of the topology. The planner simulates moves on
// a clone so the as-fetched snapshot stays untouched for display.
func (t *Topology) Clone() *Topology {
	cloned := NewTopology()
	for _, peerID := range t.order {
		cloned.EnsurePeer(peerID)
		cloned.peers[peerID].shards = util.CopyInts(t.peers[peerID].shards)
	}
	return cloned
}

// PeerAddresses maps the host portion of each peer's advertised URI to its
// peer ID. Addresses are used for display correlation only, never for move
// requests. A URI without a recognizable host segment maps from the empty
// string; this is tolerated but logged since display keyed on an empty
// address is ambiguous.
func PeerAddresses(info admin.ClusterInfo) map[string]int {
	addrs := map[string]int{}

	for peerID, peer := range info.Peers {
		addr := hostFromURI(peer.URI)
		if addr == "" {
			log.Warnf(
				"Peer %d advertises URI %q with no recognizable address",
				peerID,
				peer.URI,
			)
		}
		addrs[addr] = peerID
	}

	return addrs
}

// hostFromURI strips the scheme and port from an advertised URI, e.g.
// "http://10.0.0.6:6335" yields "10.0.0.6".
func hostFromURI(uri string) string {
	hostPort := uri
	if idx := strings.Index(hostPort, "//"); idx >= 0 {
		hostPort = hostPort[idx+2:]
	}
	if idx := strings.Index(hostPort, ":"); idx >= 0 {
		hostPort = hostPort[:idx]
	}
	return strings.TrimSuffix(hostPort, "/")
}
