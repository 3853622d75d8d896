package subcmd

import (
	"errors"
	"time"

	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/clustertools/shardctl/pkg/config"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type sharedOptions struct {
	clusterConfig string
	expandEnv     bool
	timeout       time.Duration
}

func (s sharedOptions) validate(args []string) error {
	var err error

	if s.clusterConfig == "" && len(args) == 0 {
		err = multierror.Append(
			err,
			errors.New("Must set a node address or cluster-config"),
		)
	}

	if s.clusterConfig != "" {
		clusterConfig, clusterConfigErr := config.LoadClusterFile(
			s.clusterConfig,
			s.expandEnv,
		)
		if clusterConfigErr != nil {
			err = multierror.Append(err, clusterConfigErr)
		} else if validateErr := clusterConfig.Validate(); validateErr != nil {
			err = multierror.Append(err, validateErr)
		}

		if len(args) > 1 {
			log.Warn("Positional address is ignored when using cluster-config")
		}
	}

	return err
}

// resolveTarget determines the node address and collection name from the
// positional args and, if set, the cluster config file. Without a config
// file the address is the first positional arg and the collection the
// second; with one, the config supplies both and a single positional arg
// overrides the collection.
func (s sharedOptions) resolveTarget(
	args []string,
	needCollection bool,
) (string, string, error) {
	var addr, collection string

	if s.clusterConfig != "" {
		clusterConfig, err := config.LoadClusterFile(s.clusterConfig, s.expandEnv)
		if err != nil {
			return "", "", err
		}
		addr = clusterConfig.BaseAddr()
		collection = clusterConfig.Spec.Collection
		if len(args) == 1 {
			collection = args[0]
		}
	} else {
		if len(args) > 0 {
			addr = args[0]
		}
		if len(args) > 1 {
			collection = args[1]
		}
	}

	if addr == "" {
		return "", "", errors.New("Must set a node address or cluster-config")
	}
	if needCollection && collection == "" {
		return "", "", errors.New("Must set a collection name")
	}

	return addr, collection, nil
}

func (s sharedOptions) getAdminClient(addr string, readOnly bool) admin.Client {
	return admin.NewHTTPAdminClient(addr, s.timeout, readOnly)
}

func addSharedFlags(cmd *cobra.Command, options *sharedOptions) {
	cmd.PersistentFlags().StringVar(
		&options.clusterConfig,
		"cluster-config",
		"",
		"Cluster config file path",
	)
	cmd.PersistentFlags().BoolVar(
		&options.expandEnv,
		"expand-env",
		false,
		"Expand environment in cluster config file",
	)
	cmd.PersistentFlags().DurationVar(
		&options.timeout,
		"timeout",
		30*time.Second,
		"Timeout per cluster request",
	)
}
