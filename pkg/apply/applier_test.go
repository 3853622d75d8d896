package apply

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/clustertools/shardctl/pkg/balance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMove struct {
	collection string
	params     admin.MoveShardParams
}

type fakeAdminClient struct {
	moves    []recordedMove
	failOn   map[int]struct{}
	clusters int
}

var _ admin.Client = (*fakeAdminClient)(nil)

func (f *fakeAdminClient) GetCluster(ctx context.Context) (admin.ClusterInfo, error) {
	f.clusters++
	return admin.ClusterInfo{}, nil
}

func (f *fakeAdminClient) GetCollections(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (f *fakeAdminClient) GetCollectionShards(
	ctx context.Context,
	collection string,
) (admin.CollectionShardsInfo, error) {
	return admin.CollectionShardsInfo{}, nil
}

func (f *fakeAdminClient) MoveShard(
	ctx context.Context,
	collection string,
	params admin.MoveShardParams,
) error {
	f.moves = append(
		f.moves,
		recordedMove{collection: collection, params: params},
	)
	if _, ok := f.failOn[params.ShardID]; ok {
		return fmt.Errorf("shard %d is locked", params.ShardID)
	}
	return nil
}

func testPlan() []balance.MoveOperation {
	return []balance.MoveOperation{
		{ShardID: 1, FromPeer: 100, ToPeer: 200},
		{ShardID: 2, FromPeer: 100, ToPeer: 300},
		{ShardID: 3, FromPeer: 400, ToPeer: 200},
	}
}

func TestApplyInOrder(t *testing.T) {
	client := &fakeAdminClient{}
	applier := NewMoveApplier(
		client,
		MoveApplierConfig{Collection: "embeddings"},
	)

	err := applier.Apply(context.Background(), testPlan())
	require.NoError(t, err)

	assert.Equal(
		t,
		[]recordedMove{
			{
				collection: "embeddings",
				params:     admin.MoveShardParams{ShardID: 1, FromPeerID: 100, ToPeerID: 200},
			},
			{
				collection: "embeddings",
				params:     admin.MoveShardParams{ShardID: 2, FromPeerID: 100, ToPeerID: 300},
			},
			{
				collection: "embeddings",
				params:     admin.MoveShardParams{ShardID: 3, FromPeerID: 400, ToPeerID: 200},
			},
		},
		client.moves,
	)
}

func TestApplyDryRun(t *testing.T) {
	client := &fakeAdminClient{}
	applier := NewMoveApplier(
		client,
		MoveApplierConfig{Collection: "embeddings", DryRun: true},
	)

	err := applier.Apply(context.Background(), testPlan())
	require.NoError(t, err)

	// Dry run mode issues no writes at all
	assert.Empty(t, client.moves)
}

func TestApplyContinuesAfterFailure(t *testing.T) {
	client := &fakeAdminClient{
		failOn: map[int]struct{}{2: {}},
	}
	applier := NewMoveApplier(
		client,
		MoveApplierConfig{Collection: "embeddings"},
	)

	err := applier.Apply(context.Background(), testPlan())

	// The failed move is reported but the remaining moves are still issued
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shard 2")
	assert.Len(t, client.moves, 3)
}

func TestApplyEmptyPlan(t *testing.T) {
	client := &fakeAdminClient{}
	applier := NewMoveApplier(
		client,
		MoveApplierConfig{Collection: "embeddings"},
	)

	require.NoError(t, applier.Apply(context.Background(), []balance.MoveOperation{}))
	assert.Empty(t, client.moves)
}

func TestApplyReadOnlyClientSurfacesError(t *testing.T) {
	applier := NewMoveApplier(
		readOnlyClient{},
		MoveApplierConfig{Collection: "embeddings"},
	)

	err := applier.Apply(context.Background(), testPlan())
	require.Error(t, err)
	assert.True(t, errors.Is(err, admin.ErrReadOnly))
}

type readOnlyClient struct{}

var _ admin.Client = readOnlyClient{}

func (readOnlyClient) GetCluster(ctx context.Context) (admin.ClusterInfo, error) {
	return admin.ClusterInfo{}, nil
}

func (readOnlyClient) GetCollections(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (readOnlyClient) GetCollectionShards(
	ctx context.Context,
	collection string,
) (admin.CollectionShardsInfo, error) {
	return admin.CollectionShardsInfo{}, nil
}

func (readOnlyClient) MoveShard(
	ctx context.Context,
	collection string,
	params admin.MoveShardParams,
) error {
	return admin.ErrReadOnly
}
