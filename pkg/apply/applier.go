package apply

import (
	"context"
	"fmt"

	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/clustertools/shardctl/pkg/balance"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// MoveApplierConfig contains the configuration for a MoveApplier.
type MoveApplierConfig struct {
	Collection string
	DryRun     bool
}

// MoveApplier applies a balance plan against the cluster, one move at a
// time, strictly in plan order. A failed move is reported and skipped; it
// never aborts the remaining plan, and nothing already applied is undone.
type MoveApplier struct {
	client admin.Client
	config MoveApplierConfig
}

// NewMoveApplier creates a new MoveApplier instance.
func NewMoveApplier(client admin.Client, config MoveApplierConfig) *MoveApplier {
	return &MoveApplier{
		client: client,
		config: config,
	}
}

// Apply runs each move of the plan. In dry-run mode the plan is printed
// and no writes are issued. The returned error aggregates all per-move
// failures and is nil if every move succeeded.
func (a *MoveApplier) Apply(
	ctx context.Context,
	moves []balance.MoveOperation,
) error {
	if len(moves) == 0 {
		log.Info("No rebalancing needed")
		return nil
	}

	if a.config.DryRun {
		log.Infof(
			"Dry run mode; skipping %d move(s) in collection %s:\n%s",
			len(moves),
			a.config.Collection,
			balance.FormatPlan(moves),
		)
		return nil
	}

	var applyErr error
	applied := 0

	for _, move := range moves {
		log.Infof(
			"Moving shard %d from peer %d to peer %d",
			move.ShardID,
			move.FromPeer,
			move.ToPeer,
		)

		err := a.client.MoveShard(
			ctx,
			a.config.Collection,
			admin.MoveShardParams{
				ShardID:    move.ShardID,
				FromPeerID: move.FromPeer,
				ToPeerID:   move.ToPeer,
			},
		)
		if err != nil {
			log.Errorf("Failed to move shard %d: %+v", move.ShardID, err)
			applyErr = multierror.Append(
				applyErr,
				fmt.Errorf("shard %d: %w", move.ShardID, err),
			)
			continue
		}

		log.Infof("Successfully moved shard %d", move.ShardID)
		applied++
	}

	log.Infof(
		"Applied %d of %d move(s) in collection %s",
		applied,
		len(moves),
		a.config.Collection,
	)

	return applyErr
}
