package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ClusterConfig stores information about a cluster that shardctl talks to.
// These configs should reflect the reality of what's been set up
// externally; there's no way to "apply" them.
type ClusterConfig struct {
	Meta ClusterMeta `json:"meta"`
	Spec ClusterSpec `json:"spec"`

	// RootDir is the directory that this config was loaded from, if set.
	RootDir string `json:"-"`
}

// ClusterMeta contains (mostly immutable) metadata about the cluster.
// Inspired by the meta fields in Kubernetes objects.
type ClusterMeta struct {
	Name        string `json:"name"`
	Region      string `json:"region"`
	Environment string `json:"environment"`
	Description string `json:"description"`
}

// ClusterSpec contains the details necessary to communicate with the
// cluster's REST API.
type ClusterSpec struct {
	// Addr is the host or IP of a cluster node. Any node can answer
	// topology reads and accept move requests.
	Addr string `json:"addr"`

	// Port is the REST port. If zero, the default port is used.
	Port int `json:"port"`

	// Collection is the default collection operated on when none is given
	// on the command line.
	Collection string `json:"collection"`
}

// Validate evaluates whether the cluster config is valid.
func (c ClusterConfig) Validate() error {
	var err error

	if c.Meta.Name == "" {
		err = multierror.Append(err, errors.New("Name must be set"))
	}
	if c.Meta.Environment == "" {
		err = multierror.Append(err, errors.New("Environment must be set"))
	}
	if c.Spec.Addr == "" {
		err = multierror.Append(err, errors.New("Addr must be set"))
	}
	if c.Spec.Port < 0 {
		err = multierror.Append(err, errors.New("Port cannot be negative"))
	}

	return err
}

// BaseAddr returns the node address including any non-default port.
func (c ClusterConfig) BaseAddr() string {
	addr := strings.TrimRight(c.Spec.Addr, "/")
	if c.Spec.Port != 0 && !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, c.Spec.Port)
	}
	return addr
}
