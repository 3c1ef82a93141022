// Package console implements the operator command prompt read from stdin
// while the service runs. Each input line is parsed by a fresh cobra tree
// and answered with a single human-readable reply.
package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
	"github.com/donaldgifford/sb-price-watch/pkg/pricing"
)

// Console reads commands from in and writes replies to out.
type Console struct {
	watches *watchlist.Store
	in      io.Reader
	out     io.Writer
	log     *slog.Logger
}

// Option configures the Console.
type Option func(*Console)

// WithInput sets the command source. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(c *Console) {
		c.in = r
	}
}

// WithOutput sets the reply sink. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.log = l
	}
}

// New creates a Console bound to the watch list.
func New(w *watchlist.Store, opts ...Option) *Console {
	c := &Console{
		watches: w,
		in:      os.Stdin,
		out:     os.Stdout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run answers commands until the input is exhausted or ctx is canceled.
// A pending read on a terminal is abandoned on cancellation.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("reading console input: %w", err)
				}
				c.log.Debug("console input closed")
				return nil
			}
			if reply := c.Execute(line); reply != "" {
				fmt.Fprintln(c.out, reply)
			}
		}
	}
}

// Execute runs one command line and returns its reply. Blank lines yield
// an empty reply.
func (c *Console) Execute(line string) string {
	args := strings.Fields(line)
	if len(args) == 0 {
		return ""
	}

	root := c.newRootCmd()
	if cmd, _, err := root.Find(args); err != nil || cmd == root {
		return "Unknown command: " + args[0]
	}

	var buf bytes.Buffer
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(io.Discard)

	if err := root.Execute(); err != nil {
		c.log.Debug("console command failed", "command", args[0], "error", err)
		return err.Error()
	}

	c.log.Debug("console command", "command", args[0])
	return strings.TrimRight(buf.String(), "\n")
}

func (c *Console) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(
		c.addServerCmd(),
		c.removeServerCmd(),
		c.listServersCmd(),
	)
	root.SetHelpCommand(helpCmd(root))
	root.InitDefaultHelpCmd()

	return root
}

func (c *Console) addServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "addServer <Auction-ID>",
		Short:              "Adds a Server",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Println("Please provide an ID")
				return nil
			}

			id := args[0]
			_, err := c.watches.Add(id)
			switch {
			case errors.Is(err, watchlist.ErrInvalidID):
				cmd.Println("Please provide a valid ID")
			case errors.Is(err, watchlist.ErrDuplicateID):
				cmd.Printf("Server with the ID %s already exists\n", id)
			case err != nil:
				return err
			default:
				c.log.Info("watch added", "id", id, "source", "console")
				cmd.Printf("Server with the ID %s has been added\n", id)
			}
			return nil
		},
	}
}

func (c *Console) removeServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "removeServer <Auction-ID>",
		Short:              "Stops watching a Server",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Println("Please provide an ID")
				return nil
			}

			id := args[0]
			if !c.watches.RemoveByID(id) {
				cmd.Printf("Server with the ID %s is not being watched\n", id)
				return nil
			}
			c.log.Info("watch removed", "id", id, "source", "console")
			cmd.Printf("Server with the ID %s has been removed\n", id)
			return nil
		},
	}
}

func (c *Console) listServersCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "listServers",
		Short:              "Lists watched Servers",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := c.watches.List()
			if len(entries) == 0 {
				cmd.Println("No servers are being watched")
				return nil
			}
			for i := range entries {
				e := &entries[i]
				dc := e.Meta.Datacenter
				if dc == "" {
					dc = "-"
				}
				cmd.Printf("%s\t%s\t%s\n", e.ID, pricing.Format(e.Meta.PreviousPrice), dc)
			}
			return nil
		},
	}
}

func helpCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:                "help",
		Short:              "Lists available commands",
		DisableFlagParsing: true,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, sub := range root.Commands() {
				cmd.Printf("%-28s %s\n", sub.Use, sub.Short)
			}
		},
	}
}
