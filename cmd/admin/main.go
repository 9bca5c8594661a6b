// Command admin runs one-off maintenance tasks against Discord and Fitbit using
// the same configuration and storage as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jrsteele09/fitbit-discord-bot/internal/app"
	"github.com/jrsteele09/fitbit-discord-bot/internal/config"
	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const commandTimeout = 30 * time.Second

type subcommand struct {
	usage string
	args  int
	run   func(ctx context.Context, a *app.App, args []string) (any, error)
}

var subcommands = map[string]subcommand{
	"register-commands": {
		usage: "register the bot's slash commands with Discord",
		run: func(ctx context.Context, a *app.App, _ []string) (any, error) {
			return a.Discord.RegisterCommands(ctx, a.Commands.Definitions())
		},
	},
	"register-metadata-schema": {
		usage: "register the linked role metadata schema",
		run: func(ctx context.Context, a *app.App, _ []string) (any, error) {
			return a.Discord.RegisterMetadataSchema(ctx)
		},
	},
	"get-metadata-schema": {
		usage: "print the registered metadata schema",
		run: func(ctx context.Context, a *app.App, _ []string) (any, error) {
			return a.Discord.MetadataSchema(ctx)
		},
	},
	"get-discord-metadata": {
		usage: "<discordUserId> print the role connection stored for a user",
		args:  1,
		run: func(ctx context.Context, a *app.App, args []string) (any, error) {
			rec, found, err := a.Tokens.GetDiscordTokens(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errors.Wrapf(errors.ErrNotFound, "discord user %s", args[0])
			}
			return a.Discord.Metadata(ctx, args[0], &rec)
		},
	},
	"get-profile": {
		usage: "<fitbitUserId> print a linked user's Fitbit profile",
		args:  1,
		run: func(ctx context.Context, a *app.App, args []string) (any, error) {
			rec, found, err := a.Tokens.GetFitbitTokens(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errors.Wrapf(errors.ErrNotFound, "fitbit user %s", args[0])
			}
			return a.Fitbit.Profile(ctx, args[0], &rec)
		},
	},
	"get-fitbit-subs": {
		usage: "<fitbitUserId> list a linked user's Fitbit subscriptions",
		args:  1,
		run: func(ctx context.Context, a *app.App, args []string) (any, error) {
			rec, found, err := a.Tokens.GetFitbitTokens(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errors.Wrapf(errors.ErrNotFound, "fitbit user %s", args[0])
			}
			return a.Fitbit.ListSubscriptions(ctx, args[0], &rec)
		},
	},
	"push-fitbit-metadata": {
		usage: "<fitbitUserId> sync a linked user's metadata to Discord now",
		args:  1,
		run: func(ctx context.Context, a *app.App, args []string) (any, error) {
			if err := a.Linking.UpdateMetadata(ctx, args[0]); err != nil {
				return nil, err
			}
			return map[string]string{"status": "pushed", "fitbitUserId": args[0]}, nil
		},
	},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := flag.NewFlagSet("admin", flag.ExitOnError)
	timeout := flags.Duration("timeout", commandTimeout, "timeout for the whole command")
	flags.Usage = func() { usage(flags.Output()) }
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		usage(os.Stderr)
		os.Exit(2)
	}

	c, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.New(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	defer a.Close()

	if err := run(ctx, a, os.Stdout, flags.Args()); err != nil {
		log.Error().Err(err).Str("command", flags.Arg(0)).Msg("Command failed")
		a.Close()
		os.Exit(1)
	}
}

// run executes the subcommand named by args[0] and writes its result as
// indented JSON.
func run(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	cmd, ok := subcommands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownCommand, args[0])
	}
	if len(args)-1 != cmd.args {
		return fmt.Errorf("%s expects %d argument(s): %s", args[0], cmd.args, cmd.usage)
	}

	result, err := cmd.run(ctx, a, args[1:])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: admin [-timeout 30s] <command> [args]")
	fmt.Fprintln(w)

	names := make([]string, 0, len(subcommands))
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-26s %s\n", name, subcommands[name].usage)
	}
}
