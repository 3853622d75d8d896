package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/clustertools/shardctl/pkg/admin"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
)

var (
	commandSuggestions = []prompt.Suggest{
		{
			Text:        "get",
			Description: "Get information about one or more resources in the cluster",
		},
		{
			Text:        "rebalance",
			Description: "Plan and apply shard moves for a collection",
		},
		{
			Text:        "help",
			Description: "Show all commands",
		},
		{
			Text:        "exit",
			Description: "Quit the repl",
		},
	}

	getSuggestions = []prompt.Suggest{
		{
			Text:        "collections",
			Description: "Get all collections",
		},
		{
			Text:        "peers",
			Description: "Get all peers",
		},
		{
			Text:        "plan",
			Description: "Get the balance plan for a collection",
		},
		{
			Text:        "shards",
			Description: "Get the shard distribution for a collection",
		},
	}

	helpTableStr = helpTable()
)

// Repl manages the repl mode for shardctl.
type Repl struct {
	cliRunner             *CLIRunner
	collectionSuggestions []prompt.Suggest
}

// NewRepl initializes and returns a Repl instance.
func NewRepl(
	ctx context.Context,
	adminClient admin.Client,
) (*Repl, error) {
	cliRunner := NewCLIRunner(
		adminClient,
		func(f string, a ...interface{}) {
			fmt.Printf("> ")
			fmt.Printf(f, a...)
			// Add newline since printf doesn't do this automatically
			fmt.Printf("\n")
		},
		true,
	)

	log.Debug("Loading collection names for auto-complete")
	collectionNames, err := adminClient.GetCollections(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(collectionNames)

	collectionSuggestions := []prompt.Suggest{}
	for _, name := range collectionNames {
		collectionSuggestions = append(
			collectionSuggestions,
			prompt.Suggest{
				Text:        name,
				Description: fmt.Sprintf("Collection %s", name),
			},
		)
	}

	return &Repl{
		cliRunner:             cliRunner,
		collectionSuggestions: collectionSuggestions,
	}, nil
}

// Run starts the repl main loop.
func (r *Repl) Run() {
	fmt.Println("Welcome to the shardctl repl. Type 'help' for available commands.")
	promptObj := prompt.New(
		r.executor,
		r.completer,
		prompt.OptionPrefix(">>> "),
	)
	promptObj.Run()
}

func (r *Repl) executor(in string) {
	in = strings.TrimSpace(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	defer signal.Stop(sigChan)

	command := parseReplInputs(in)
	if len(command.args) == 0 {
		return
	}

	switch command.args[0] {
	case "exit":
		fmt.Println("Bye!")
		os.Exit(0)
	case "get":
		if len(command.args) == 1 {
			log.Error("Unrecognized input. Run 'help' for details on available commands.")
			return
		}

		switch command.args[1] {
		case "collections":
			if err := command.checkArgs(2, 2, nil); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
			if err := r.cliRunner.GetCollections(ctx); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
		case "peers":
			if err := command.checkArgs(2, 2, nil); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
			if err := r.cliRunner.GetPeers(ctx); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
		case "plan":
			if err := command.checkArgs(3, 3, nil); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
			if err := r.cliRunner.GetPlan(ctx, command.args[2]); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
		case "shards":
			if err := command.checkArgs(3, 3, nil); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
			if err := r.cliRunner.GetShards(ctx, command.args[2]); err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
		default:
			log.Error("Unrecognized input. Run 'help' for details on available commands.")
		}
	case "rebalance":
		if err := command.checkArgs(
			2,
			2,
			map[string]struct{}{"dry-run": {}},
		); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		if err := r.cliRunner.Rebalance(
			ctx,
			command.args[1],
			command.getBoolValue("dry-run"),
		); err != nil {
			log.Errorf("Error: %+v", err)
		}
	case "help":
		if err := command.checkArgs(1, 1, nil); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}

		fmt.Printf("> Commands:\n%s\n", helpTableStr)
		return
	default:
		if len(in) > 0 {
			log.Error("Unrecognized input. Run 'help' for details on available commands.")
		}
	}
}

func (r *Repl) completer(doc prompt.Document) []prompt.Suggest {
	text := doc.TextBeforeCursor()
	words := strings.Split(text, " ")

	var suggestions []prompt.Suggest

	if len(words) <= 1 {
		suggestions = commandSuggestions
	} else {
		if len(words) == 2 && words[0] == "get" {
			suggestions = getSuggestions
		} else if len(words) == 3 && words[0] == "get" &&
			(words[1] == "plan" || words[1] == "shards") {
			suggestions = r.collectionSuggestions
		} else if len(words) == 2 && words[0] == "rebalance" {
			suggestions = r.collectionSuggestions
		}
	}

	return prompt.FilterHasPrefix(
		suggestions,
		doc.GetWordBeforeCursor(),
		true,
	)
}

func helpTable() string {
	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment(
		[]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
		},
	)
	table.SetColumnSeparator("")
	table.SetBorders(
		tablewriter.Border{
			Left:   false,
			Top:    false,
			Right:  false,
			Bottom: false,
		},
	)

	table.AppendBulk(
		[][]string{
			{
				"  get collections",
				"Get all collections",
			},
			{
				"  get peers",
				"Get all peers",
			},
			{
				"  get plan [collection]",
				"Get the balance plan for a collection",
			},
			{
				"  get shards [collection]",
				"Get the shard distribution for a collection",
			},
			{
				"  rebalance [collection] [--dry-run]",
				"Plan and apply shard moves for a collection",
			},
			{
				"  exit",
				"Exit the repl",
			},
		},
	)

	table.Render()
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
