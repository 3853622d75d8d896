package subcmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clustertools/shardctl/pkg/cli"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rebalanceCmd = &cobra.Command{
	Use:     "rebalance [addr] [collection]",
	Short:   "rebalance the shard placement of a collection",
	Args:    cobra.MaximumNArgs(2),
	PreRunE: rebalancePreRun,
	RunE:    rebalanceRun,
}

type rebalanceCmdConfig struct {
	dryRun bool

	shared sharedOptions
}

var rebalanceConfig rebalanceCmdConfig

func init() {
	rebalanceCmd.Flags().BoolVar(
		&rebalanceConfig.dryRun,
		"dry-run",
		false,
		"Show the planned moves without sending them to the cluster",
	)

	addSharedFlags(rebalanceCmd, &rebalanceConfig.shared)
	RootCmd.AddCommand(rebalanceCmd)
}

func rebalancePreRun(cmd *cobra.Command, args []string) error {
	return rebalanceConfig.shared.validate(args)
}

func rebalanceRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	defer signal.Stop(sigChan)

	addr, collection, err := rebalanceConfig.shared.resolveTarget(args, true)
	if err != nil {
		return err
	}

	adminClient := rebalanceConfig.shared.getAdminClient(
		addr,
		rebalanceConfig.dryRun,
	)
	cliRunner := cli.NewCLIRunner(adminClient, log.Infof, !noSpinner)

	return cliRunner.Rebalance(ctx, collection, rebalanceConfig.dryRun)
}
