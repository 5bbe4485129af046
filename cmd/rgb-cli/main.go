package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/ArkLabsHQ/rgbnode/pkg/client"
	"github.com/ArkLabsHQ/rgbnode/pkg/config"
	"github.com/ArkLabsHQ/rgbnode/pkg/format"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/ArkLabsHQ/rgbnode/pkg/stash"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// app is the state shared by all commands.
type app struct {
	cfg    *config.Config
	output format.OutputFormat
	rt     *client.Runtime
	store  stash.ClosableStore
}

// command is a single rgb-cli subcommand.
type command struct {
	usage   string
	args    int
	remote  bool
	handler func(ctx context.Context, a *app, args []string) error
}

const (
	issueUsage    = "issue [--supply N --inflatable OUTCOINS] <ticker> <title> <allocation>..."
	transferUsage = "transfer --input TXID:VOUT... [--allocate OUTCOINS...] <destination> <contract-id> <amount> <psbt-file> <consignment-out> <transaction-out>"
)

var commands = map[string]command{
	"schemata": {"schemata", 0, true, listSchemata},
	"schema":   {"schema <schema-id>", 1, true, readSchema},
	"geneses":  {"geneses", 0, true, listGeneses},
	"genesis":  {"genesis <contract-id>", 1, true, readGenesis},
	"cached":   {"cached", 0, false, listCached},
	"assets":   {"assets", 0, true, listAssets},
	"import":   {"import <genesis-file>", 1, true, importAsset},
	"export":   {"export <contract-id> <genesis-file>", 2, true, exportAsset},
	"issue":    {issueUsage, 0, true, issueAsset},
	"transfer": {transferUsage, 0, true, transferAsset},
	"validate": {"validate <consignment-file>", 1, true, validateConsignment},
	"accept":   {"accept <consignment-file> [<blinding>@<txid>:<vout>]...", 1, true, acceptConsignment},
	"forget":   {"forget <txid:vout>", 1, true, forgetOutpoint},
	"outpoint": {"outpoint <txid:vout>", 1, true, outpointAssets},
	"blind":    {"blind <txid:vout>", 1, false, blindOutpoint},
}

func usage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "usage: rgb-cli [flags] <command> [args]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "\nflags:\n%s", flags.FlagUsages())
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	a := &app{output: format.Yaml}

	flags := pflag.NewFlagSet("rgb-cli", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	config.RegisterFlags(flags)
	flags.VarP(&a.output, "format", "f", "output format: yaml, json, toml, strict-encode, hex or debug")
	flags.Usage = func() { usage(flags) }
	if err := flags.Parse(argv); err != nil {
		return err
	}

	if flags.NArg() == 0 {
		usage(flags)
		return rgb.NewError(rgb.ErrParse, "missing command")
	}
	name, args := flags.Arg(0), flags.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		usage(flags)
		return rgb.Errorf(rgb.ErrParse, "unknown command %q", name)
	}
	if err := checkArgs(cmd, args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)
	a.cfg = cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.store, err = cfg.OpenStash(); err != nil {
		return err
	}
	defer a.store.Close()

	if cmd.remote {
		if a.rt, err = client.NewRuntime(ctx, cfg); err != nil {
			return err
		}
		defer a.rt.Close()
	}

	return cmd.handler(ctx, a, args)
}

// checkArgs verifies the positional argument count. Commands with flags of
// their own declare zero arguments and check after parsing them.
func checkArgs(cmd command, args []string) error {
	if len(args) < cmd.args {
		return rgb.Errorf(rgb.ErrParse, "usage: rgb-cli %s", cmd.usage)
	}
	return nil
}

func (a *app) render(v any) error {
	return format.Render(os.Stdout, a.output, v)
}
