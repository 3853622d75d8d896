package subcmd

import (
	"context"
	"strings"

	"github.com/clustertools/shardctl/pkg/cli"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [resource type]",
	Short: "get instances of a particular type",
	Long: strings.Join(
		[]string{
			"Get information about resources in the cluster.",
			"The node address is either the first positional arg or supplied via cluster-config.",
		},
		"\n",
	),
	PersistentPreRunE: getPreRun,
}

type getCmdConfig struct {
	shared sharedOptions
}

var getConfig getCmdConfig

func init() {
	addSharedFlags(getCmd, &getConfig.shared)
	getCmd.AddCommand(
		collectionsCmd(),
		peersCmd(),
		planCmd(),
		shardsCmd(),
	)
	RootCmd.AddCommand(getCmd)
}

func getPreRun(cmd *cobra.Command, args []string) error {
	if err := preRun(cmd, args); err != nil {
		return err
	}
	return getConfig.shared.validate(args)
}

func getCliRunner(addr string) *cli.CLIRunner {
	adminClient := getConfig.shared.getAdminClient(addr, true)
	return cli.NewCLIRunner(adminClient, log.Infof, !noSpinner)
}

func collectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections [addr]",
		Short: "Displays the collections hosted by the cluster.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _, err := getConfig.shared.resolveTarget(args, false)
			if err != nil {
				return err
			}
			return getCliRunner(addr).GetCollections(context.Background())
		},
	}
}

func peersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peers [addr]",
		Short: "Displays descriptions of each peer in the cluster.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _, err := getConfig.shared.resolveTarget(args, false)
			if err != nil {
				return err
			}
			return getCliRunner(addr).GetPeers(context.Background())
		},
	}
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [addr] [collection]",
		Short: "Displays the balance plan for a collection without applying it.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, collection, err := getConfig.shared.resolveTarget(args, true)
			if err != nil {
				return err
			}
			return getCliRunner(addr).GetPlan(context.Background(), collection)
		},
	}
}

func shardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shards [addr] [collection]",
		Short: "Displays the shard distribution for a collection by peer and address.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, collection, err := getConfig.shared.resolveTarget(args, true)
			if err != nil {
				return err
			}
			return getCliRunner(addr).GetShards(context.Background(), collection)
		},
	}
}
