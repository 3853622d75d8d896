package subcmd

import (
	"context"

	"github.com/clustertools/shardctl/pkg/cli"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:     "repl [addr]",
	Short:   "repl allows interactively running commands against a cluster",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: replPreRun,
	RunE:    replRun,
}

type replCmdConfig struct {
	shared sharedOptions
}

var replConfig replCmdConfig

func init() {
	addSharedFlags(replCmd, &replConfig.shared)
	RootCmd.AddCommand(replCmd)
}

func replPreRun(cmd *cobra.Command, args []string) error {
	return replConfig.shared.validate(args)
}

func replRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	addr, _, err := replConfig.shared.resolveTarget(args, false)
	if err != nil {
		return err
	}

	adminClient := replConfig.shared.getAdminClient(addr, false)

	repl, err := cli.NewRepl(ctx, adminClient)
	if err != nil {
		return err
	}

	repl.Run()
	return nil
}
