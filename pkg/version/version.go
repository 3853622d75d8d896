package version

// Version is the current version of shardctl.
const Version = "0.1.0"
