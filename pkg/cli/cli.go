package cli

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/clustertools/shardctl/pkg/apply"
	"github.com/clustertools/shardctl/pkg/balance"
)

const (
	spinnerCharSet  = 36
	spinnerDuration = 200 * time.Millisecond
)

// CLIRunner runs the shardctl pipeline (fetch, build, plan, apply) and
// pretty-prints the results.
type CLIRunner struct {
	adminClient admin.Client
	planner     balance.Planner
	printer     func(f string, a ...interface{})
	spinnerObj  *spinner.Spinner
}

// NewCLIRunner creates and returns a new CLIRunner instance.
func NewCLIRunner(
	adminClient admin.Client,
	printer func(f string, a ...interface{}),
	showSpinner bool,
) *CLIRunner {
	var spinnerObj *spinner.Spinner

	if showSpinner {
		spinnerObj = spinner.New(
			spinner.CharSets[spinnerCharSet],
			spinnerDuration,
			spinner.WithWriter(os.Stderr),
			spinner.WithHiddenCursor(true),
		)
		spinnerObj.Prefix = "Loading: "
	}

	return &CLIRunner{
		adminClient: adminClient,
		planner:     balance.NewGreedyPlanner(),
		printer:     printer,
		spinnerObj:  spinnerObj,
	}
}

// GetPeers fetches and displays the peers in the cluster.
func (c *CLIRunner) GetPeers(ctx context.Context) error {
	c.startSpinner()
	clusterInfo, err := c.adminClient.GetCluster(ctx)
	c.stopSpinner()
	if err != nil {
		return err
	}

	peerAddrs := map[int]string{}
	for addr, peerID := range balance.PeerAddresses(clusterInfo) {
		peerAddrs[peerID] = addr
	}

	c.printer("Peers:\n%s", admin.FormatPeers(clusterInfo, peerAddrs))
	return nil
}

// GetCollections fetches and displays the names of all collections in the
// cluster.
func (c *CLIRunner) GetCollections(ctx context.Context) error {
	c.startSpinner()
	names, err := c.adminClient.GetCollections(ctx)
	c.stopSpinner()
	if err != nil {
		return err
	}

	c.printer("Collections:\n%s", admin.FormatCollections(names))
	return nil
}

// GetShards fetches and displays the shard distribution of a collection,
// keyed by peer and display address.
func (c *CLIRunner) GetShards(ctx context.Context, collection string) error {
	c.startSpinner()
	topology, addrs, shardsInfo, err := c.fetchTopology(ctx, collection)
	c.stopSpinner()
	if err != nil {
		return err
	}

	c.printer(
		"Shard distribution for collection %s:\n%s",
		collection,
		balance.FormatDistribution(topology, addrs),
	)

	if len(shardsInfo.ShardTransfers) > 0 {
		c.printer(
			"Active shard transfers (topology may drift during this run):\n%s",
			admin.FormatShardTransfers(shardsInfo.ShardTransfers),
		)
	}

	return nil
}

// GetPlan computes and displays the balance plan for a collection without
// touching the cluster.
func (c *CLIRunner) GetPlan(ctx context.Context, collection string) error {
	c.startSpinner()
	topology, _, _, err := c.fetchTopology(ctx, collection)
	c.stopSpinner()
	if err != nil {
		return err
	}

	underfilled, overfilled, target := balance.Classify(topology)
	c.printer("Shard target per peer: %d", target)
	c.printer("Underfilled peers: %+v", underfilled)
	c.printer("Overfilled peers: %+v", overfilled)

	moves := c.planner.Plan(topology)
	if len(moves) == 0 {
		c.printer("No rebalancing needed")
		return nil
	}

	c.printer("Planned moves:\n%s", balance.FormatPlan(moves))
	return nil
}

// Rebalance runs the full pipeline for a collection: fetch the topology,
// plan the moves, and apply them (or just print them, in dry-run mode).
func (c *CLIRunner) Rebalance(
	ctx context.Context,
	collection string,
	dryRun bool,
) error {
	c.startSpinner()
	topology, addrs, _, err := c.fetchTopology(ctx, collection)
	c.stopSpinner()
	if err != nil {
		return err
	}

	c.printer(
		"Shard distribution for collection %s:\n%s",
		collection,
		balance.FormatDistribution(topology, addrs),
	)

	moves := c.planner.Plan(topology)

	applier := apply.NewMoveApplier(
		c.adminClient,
		apply.MoveApplierConfig{
			Collection: collection,
			DryRun:     dryRun,
		},
	)
	return applier.Apply(ctx, moves)
}

// fetchTopology does the two topology reads and builds the normalized
// maps. A transport failure on either read is fatal to the run.
func (c *CLIRunner) fetchTopology(
	ctx context.Context,
	collection string,
) (*balance.Topology, map[string]int, admin.CollectionShardsInfo, error) {
	clusterInfo, err := c.adminClient.GetCluster(ctx)
	if err != nil {
		return nil, nil, admin.CollectionShardsInfo{}, err
	}

	shardsInfo, err := c.adminClient.GetCollectionShards(ctx, collection)
	if err != nil {
		return nil, nil, admin.CollectionShardsInfo{}, err
	}

	topology := balance.NewTopologyFromShards(shardsInfo)
	addrs := balance.PeerAddresses(clusterInfo)

	return topology, addrs, shardsInfo, nil
}

func (c *CLIRunner) startSpinner() {
	if c.spinnerObj != nil {
		c.spinnerObj.Start()
	}
}

func (c *CLIRunner) stopSpinner() {
	if c.spinnerObj != nil && c.spinnerObj.Active() {
		c.spinnerObj.Stop()
	}
}
