// chatctl inspects and maintains the saved chat state of a gemini-chat
// deployment. It opens the same storage backend as the API server, so it
// should not run against a file or sqlite store the server has open.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/capitalize-ai/gemini-chat/internal/config"
	"github.com/capitalize-ai/gemini-chat/internal/storage"
	"github.com/capitalize-ai/gemini-chat/internal/store"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "chatctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := config.Load()
	sc := cfg.Storage()

	var (
		logLevel string
		yes      bool
		force    bool
		output   string
	)
	flagSet := pflag.NewFlagSet("chatctl", pflag.ContinueOnError)
	flagSet.StringVar(&sc.Backend, "backend", sc.Backend, "storage backend: file, sqlite, postgres, redis, nats")
	flagSet.StringVar(&sc.FilePath, "file", sc.FilePath, "path of the file backend")
	flagSet.StringVar(&sc.SQLitePath, "sqlite", sc.SQLitePath, "path of the sqlite database")
	flagSet.StringVar(&sc.PostgresURL, "postgres-url", sc.PostgresURL, "postgres connection URL")
	flagSet.StringVar(&sc.Redis.Address, "redis-addr", sc.Redis.Address, "redis address")
	flagSet.StringVar(&sc.NATS.URL, "nats-url", sc.NATS.URL, "NATS server URL")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level")
	flagSet.BoolVarP(&yes, "yes", "y", false, "confirm destructive commands")
	flagSet.BoolVar(&force, "force", false, "seed: replace existing rooms")
	flagSet.StringVarP(&output, "output", "o", "", "export: write to this file instead of stdout")
	flagSet.Usage = func() { printUsage(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		printUsage(flagSet)
		return errors.New("expected exactly one command")
	}

	log, err := logger.NewDevelopment(logLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	backend, err := storage.Open(ctx, sc, log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", sc.Backend, err)
	}
	gateway := storage.NewGateway(backend, log)
	defer gateway.Close()

	switch cmd := flagSet.Arg(0); cmd {
	case "rooms":
		return listRooms(ctx, gateway, stdout)
	case "export":
		return export(ctx, gateway, stdout, output)
	case "reset":
		if !yes {
			return errors.New("reset deletes every room; pass --yes to confirm")
		}
		s := store.New(ctx, gateway, log)
		s.Reset(ctx)
		fmt.Fprintln(stdout, "all chatrooms removed")
		return nil
	case "seed":
		s := store.New(ctx, gateway, log)
		if force {
			if !yes {
				return errors.New("seed --force deletes every room; pass --yes to confirm")
			}
			s.Reset(ctx)
		}
		if s.EnsureDefaults(ctx) {
			fmt.Fprintln(stdout, "default chatrooms created")
		} else {
			fmt.Fprintf(stdout, "%d chatrooms present, nothing to do\n", len(s.Chatrooms()))
		}
		return nil
	default:
		printUsage(flagSet)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// listRooms reads the document directly so a missing collection is shown
// as such instead of being seeded.
func listRooms(ctx context.Context, gateway *storage.Gateway, stdout io.Writer) error {
	raw, ok := gateway.Load(ctx, storage.KeyChatrooms)
	if !ok {
		fmt.Fprintln(stdout, "no saved chatrooms")
		return nil
	}
	rooms, _, err := store.DecodeChatrooms(raw)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tMESSAGES\tLAST ACTIVITY")
	for _, room := range rooms {
		last := "-"
		if room.LastMessageTimestamp > 0 {
			last = time.UnixMilli(room.LastMessageTimestamp).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", room.ID, room.Title, len(room.Messages), last)
	}
	return tw.Flush()
}

func export(ctx context.Context, gateway *storage.Gateway, stdout io.Writer, output string) error {
	raw, ok := gateway.Load(ctx, storage.KeyChatrooms)
	if !ok {
		return errors.New("no saved chatrooms")
	}
	rooms, _, err := store.DecodeChatrooms(raw)
	if err != nil {
		return err
	}
	doc, err := store.EncodeChatrooms(rooms)
	if err != nil {
		return err
	}

	var pretty json.RawMessage = []byte(doc)
	formatted, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	formatted = append(formatted, '\n')

	if output == "" {
		_, err = stdout.Write(formatted)
		return err
	}
	return os.WriteFile(output, formatted, 0o644)
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: chatctl [flags] <command>

Commands:
  rooms    list saved chat rooms
  export   print the saved room collection as JSON
  reset    delete every room (requires --yes)
  seed     create the default rooms if none exist

Flags:
%s`, flagSet.FlagUsages())
}
