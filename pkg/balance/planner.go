package balance

import (
	log "github.com/sirupsen/logrus"
)

// MoveOperation represents the relocation of one shard assignment from one
// peer to another. Once planned it is immutable and consumed exactly once
// by the applier.
type MoveOperation struct {
	ShardID  int `json:"shard_id"`
	FromPeer int `json:"from_peer_id"`
	ToPeer   int `json:"to_peer_id"`
}

// Planner is an interface for structs that figure out how to move shards
// between peers in order to even out the per-peer shard counts.
type Planner interface {
	Plan(topology *Topology) []MoveOperation
}

// GreedyPlanner is a Planner that evens out shard counts with a single
// greedy pass. The algorithm used is:
//
//	target = floor(totalShards / peerCount)
//	classify peers into underfilled (count < target) and
//	  overfilled (count > target), in discovery order
//	for each overfilled peer:
//	  for each of its shards (snapshotted at loop entry):
//	    move the shard to the first underfilled peer that is still below
//	      target and doesn't already hold that shard ID, provided the
//	      source is still above target; update the simulation and stop
//	      scanning peers for this shard
//
// The remainder of the floor division is never corrected, so peers may
// legitimately end at target+1 while none fall below target. There is no
// second pass: a peer left overfilled because every underfilled peer
// already holds its shard IDs stays overfilled.
type GreedyPlanner struct{}

var _ Planner = (*GreedyPlanner)(nil)

// NewGreedyPlanner creates a new GreedyPlanner instance.
func NewGreedyPlanner() *GreedyPlanner {
	return &GreedyPlanner{}
}

// Plan computes the move operations for the argument topology. The topology
// is not modified; all simulation happens on an owned clone.
func (g *GreedyPlanner) Plan(topology *Topology) []MoveOperation {
	moves := []MoveOperation{}

	if topology.NumPeers() == 0 || topology.TotalShards() == 0 {
		return moves
	}

	underfilled, overfilled, target := Classify(topology)

	log.Debugf("Shard target per peer: %d", target)
	log.Debugf("Underfilled peers: %+v", underfilled)
	log.Debugf("Overfilled peers: %+v", overfilled)

	simulated := topology.Clone()

	for _, fromPeer := range overfilled {
		// Snapshot the shard list so simulation updates during the scan
		// are safe.
		for _, shardID := range simulated.Shards(fromPeer) {
			for _, toPeer := range underfilled {
				if simulated.NumShards(toPeer) < target &&
					!simulated.HasShard(toPeer, shardID) &&
					simulated.NumShards(fromPeer) > target {
					moves = append(
						moves,
						MoveOperation{
							ShardID:  shardID,
							FromPeer: fromPeer,
							ToPeer:   toPeer,
						},
					)
					simulated.RemoveShard(fromPeer, shardID)
					simulated.AddShard(toPeer, shardID)

					// At most one move per shard
					break
				}
			}
		}
	}

	return moves
}

// Classify splits the peers of a topology into underfilled and overfilled
// sets relative to the floor-division target, in discovery order. Peers
// exactly at target appear in neither. Exposed for display purposes.
func Classify(topology *Topology) (underfilled []int, overfilled []int, target int) {
	underfilled = []int{}
	overfilled = []int{}

	if topology.NumPeers() == 0 {
		return underfilled, overfilled, 0
	}

	target = topology.TotalShards() / topology.NumPeers()

	for _, peerID := range topology.PeerIDs() {
		count := topology.NumShards(peerID)
		if count < target {
			underfilled = append(underfilled, peerID)
		} else if count > target {
			overfilled = append(overfilled, peerID)
		}
	}

	return underfilled, overfilled, target
}
