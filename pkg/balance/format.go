package balance

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/clustertools/shardctl/pkg/util"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// FormatDistribution creates a pretty table showing the shard distribution
// of a topology, one row per peer, with the peer's display address filled
// in where known. Rows appear in topology discovery order, with known
// peers that hold no shards appended at the end.
func FormatDistribution(
	topology *Topology,
	addrs map[string]int,
) string {
	buf := &bytes.Buffer{}

	overfilledPrinter := color.New(color.FgRed).SprintfFunc()
	underfilledPrinter := color.New(color.FgCyan).SprintfFunc()
	if !util.InTerminal() {
		overfilledPrinter = fmt.Sprintf
		underfilledPrinter = fmt.Sprintf
	}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(
		[]string{
			"Peer",
			"Address",
			"Shards",
			"Shard IDs",
			"Status",
		},
	)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(
		[]int{
			tablewriter.ALIGN_LEFT,
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

	peerAddrs := map[int]string{}
	for addr, peerID := range addrs {
		peerAddrs[peerID] = addr
	}

	underfilled, overfilled, target := Classify(topology)
	underfilledSet := intSet(underfilled)
	overfilledSet := intSet(overfilled)

	rowIDs := topology.PeerIDs()

	// Peers known from the cluster listing but absent from the shard
	// report hold zero shards; show them too, in sorted order.
	extraIDs := []int{}
	for peerID := range peerAddrs {
		if !topology.HasPeer(peerID) {
			extraIDs = append(extraIDs, peerID)
		}
	}
	sort.Ints(extraIDs)
	rowIDs = append(rowIDs, extraIDs...)

	for _, peerID := range rowIDs {
		shardIDs := topology.Shards(peerID)
		shardStrs := []string{}
		for _, shardID := range shardIDs {
			shardStrs = append(shardStrs, fmt.Sprintf("%d", shardID))
		}

		var status string
		if _, ok := overfilledSet[peerID]; ok {
			status = overfilledPrinter("overfilled (target %d)", target)
		} else if _, ok := underfilledSet[peerID]; ok {
			status = underfilledPrinter("underfilled (target %d)", target)
		} else if topology.HasPeer(peerID) {
			status = "balanced"
		}

		table.Append(
			[]string{
				fmt.Sprintf("%d", peerID),
				peerAddrs[peerID],
				fmt.Sprintf("%d", len(shardIDs)),
				strings.Join(shardStrs, ", "),
				status,
			},
		)
	}

	table.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// FormatPlan creates a pretty table from a sequence of move operations, in
// plan order.
func FormatPlan(moves []MoveOperation) string {
	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(
		[]string{
			"",
			"Shard",
			"From Peer",
			"To Peer",
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

	for m, move := range moves {
		table.Append(
			[]string{
				fmt.Sprintf("%d", m+1),
				fmt.Sprintf("%d", move.ShardID),
				fmt.Sprintf("%d", move.FromPeer),
				fmt.Sprintf("%d", move.ToPeer),
			},
		)
	}

	table.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func intSet(values []int) map[int]struct{} {
	set := map[int]struct{}{}
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}
