package admin

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// FormatPeers creates a pretty table from the peers in a cluster, sorted
// by peer ID. The address column holds the host portion of each URI as
// resolved by the caller.
func FormatPeers(info ClusterInfo, addrs map[int]string) string {
	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(
		[]string{
			"ID",
			"Address",
			"URI",
			"Responding",
		},
	)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(
		[]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
		},
	)
	table.SetBorders(
		tablewriter.Border{
			Left:   false,
			Top:    true,
			Right:  false,
			Bottom: true,
		},
	)

	peerIDs := []int{}
	for peerID := range info.Peers {
		peerIDs = append(peerIDs, peerID)
	}
	sort.Ints(peerIDs)

	for _, peerID := range peerIDs {
		responding := ""
		if peerID == info.PeerID {
			responding = "*"
		}

		table.Append(
			[]string{
				fmt.Sprintf("%d", peerID),
				addrs[peerID],
				info.Peers[peerID].URI,
				responding,
			},
		)
	}

	table.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// FormatCollections creates a pretty table from a list of collection
// names.
func FormatCollections(names []string) string {
	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(
		[]string{
			"Name",
		},
	)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(
		[]int{
			tablewriter.ALIGN_LEFT,
		},
	)
	table.SetBorders(
		tablewriter.Border{
			Left:   false,
			Top:    true,
			Right:  false,
			Bottom: true,
		},
	)

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	for _, name := range sorted {
		table.Append([]string{name})
	}

	table.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// FormatShardTransfers creates a pretty table from the in-flight shard
// transfers of a collection.
func FormatShardTransfers(transfers []ShardTransferInfo) string {
	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(
		[]string{
			"Shard",
			"From",
			"To",
			"Sync",
		},
	)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(
		[]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
		},
	)
	table.SetBorders(
		tablewriter.Border{
			Left:   false,
			Top:    true,
			Right:  false,
			Bottom: true,
		},
	)

	for _, transfer := range transfers {
		table.Append(
			[]string{
				fmt.Sprintf("%d", transfer.ShardID),
				fmt.Sprintf("%d", transfer.From),
				fmt.Sprintf("%d", transfer.To),
				fmt.Sprintf("%v", transfer.Sync),
			},
		)
	}

	table.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
