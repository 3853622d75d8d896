package admin

// PeerInfo represents the information the cluster reports about a single
// peer. Decoding is lenient; any missing field is left at its zero value.
type PeerInfo struct {
	URI string `json:"uri"`
}

// ClusterInfo represents the result of the cluster-info endpoint.
type ClusterInfo struct {
	// PeerID is the ID of the peer that answered the request.
	PeerID int `json:"peer_id"`

	// Peers maps each peer's ID to its info. JSON object keys are parsed
	// to integers during decoding.
	Peers map[int]PeerInfo `json:"peers"`
}

// LocalShardInfo represents a shard served directly by the responding peer.
type LocalShardInfo struct {
	ShardID     int    `json:"shard_id"`
	PointsCount int    `json:"points_count"`
	State       string `json:"state"`
}

// RemoteShardInfo represents a shard assignment on a peer other than the
// responding one.
type RemoteShardInfo struct {
	ShardID int    `json:"shard_id"`
	PeerID  int    `json:"peer_id"`
	State   string `json:"state"`
}

// ShardTransferInfo represents an in-flight shard transfer reported by the
// cluster. An active transfer means the topology snapshot may drift while
// a run is in progress.
type ShardTransferInfo struct {
	ShardID int  `json:"shard_id"`
	From    int  `json:"from"`
	To      int  `json:"to"`
	Sync    bool `json:"sync"`
}

// CollectionShardsInfo represents the result of the per-collection cluster
// status endpoint: the responding peer's own ID and local shards, plus the
// remote shard assignments it knows about.
type CollectionShardsInfo struct {
	PeerID         int                 `json:"peer_id"`
	ShardCount     int                 `json:"shard_count"`
	LocalShards    []LocalShardInfo    `json:"local_shards"`
	RemoteShards   []RemoteShardInfo   `json:"remote_shards"`
	ShardTransfers []ShardTransferInfo `json:"shard_transfers"`
}

// MoveShardRequest is the body of a move request against the
// per-collection cluster endpoint.
type MoveShardRequest struct {
	MoveShard MoveShardParams `json:"move_shard"`
}

// MoveShardParams names the shard to relocate and the source and
// destination peers.
type MoveShardParams struct {
	ShardID    int `json:"shard_id"`
	FromPeerID int `json:"from_peer_id"`
	ToPeerID   int `json:"to_peer_id"`
}

// CollectionDescription names a single collection hosted by the cluster.
type CollectionDescription struct {
	Name string `json:"name"`
}

// CollectionsInfo represents the result of the collections listing
// endpoint.
type CollectionsInfo struct {
	Collections []CollectionDescription `json:"collections"`
}

type clusterResponse struct {
	Result ClusterInfo `json:"result"`
	Status string      `json:"status"`
	Time   float64     `json:"time"`
}

type collectionShardsResponse struct {
	Result CollectionShardsInfo `json:"result"`
	Status string               `json:"status"`
	Time   float64              `json:"time"`
}

type collectionsResponse struct {
	Result CollectionsInfo `json:"result"`
	Status string          `json:"status"`
	Time   float64         `json:"time"`
}
