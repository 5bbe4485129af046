package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/fungible"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/ArkLabsHQ/rgbnode/pkg/transfer"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func listSchemata(ctx context.Context, a *app, _ []string) error {
	ids, err := a.rt.Stash.ListSchemata(ctx)
	if err != nil {
		return err
	}
	return a.render(ids)
}

// readSchema fetches a schema and keeps a copy in the local stash.
func readSchema(ctx context.Context, a *app, args []string) error {
	id, err := rgb.NewSchemaIDFromStr(args[0])
	if err != nil {
		return err
	}
	schema, err := a.rt.Stash.Schema(ctx, id)
	if err != nil {
		return err
	}
	if schema.SchemaID() != id {
		return rgb.Errorf(rgb.ErrProtocol, "stash returned schema %s for %s",
			schema.SchemaID(), id)
	}
	if _, err := a.store.AddSchema(schema); err != nil {
		return err
	}
	return a.render(schema)
}

func listGeneses(ctx context.Context, a *app, _ []string) error {
	ids, err := a.rt.Stash.ListGeneses(ctx)
	if err != nil {
		return err
	}
	return a.render(ids)
}

// readGenesis fetches a genesis and keeps a copy in the local stash.
func readGenesis(ctx context.Context, a *app, args []string) error {
	id, err := rgb.NewContractIDFromStr(args[0])
	if err != nil {
		return err
	}
	genesis, err := a.rt.Stash.Genesis(ctx, id)
	if err != nil {
		return err
	}
	if genesis.ContractID() != id {
		return rgb.Errorf(rgb.ErrProtocol, "stash returned genesis %s for %s",
			genesis.ContractID(), id)
	}
	if _, err := a.store.AddGenesis(genesis); err != nil {
		return err
	}
	return a.render(genesis)
}

// cachedRecords lists the records held by the local stash.
type cachedRecords struct {
	Schemata []rgb.SchemaID   `yaml:"schemata" json:"schemata" toml:"schemata"`
	Geneses  []rgb.ContractID `yaml:"geneses" json:"geneses" toml:"geneses"`
}

func listCached(_ context.Context, a *app, _ []string) error {
	schemata, err := a.store.SchemaIDs()
	if err != nil {
		return err
	}
	geneses, err := a.store.ContractIDs()
	if err != nil {
		return err
	}
	return a.render(cachedRecords{Schemata: schemata, Geneses: geneses})
}

// listAssets prints the service snapshot as is: it is already encoded in
// the requested format.
func listAssets(ctx context.Context, a *app, _ []string) error {
	synced, err := a.rt.Fungible.List(ctx, a.output)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(synced.Data)
	return err
}

func importAsset(ctx context.Context, a *app, args []string) error {
	var genesis rgb.Genesis
	if err := rgb.ReadFile(args[0], &genesis); err != nil {
		return err
	}
	if err := a.rt.Fungible.Import(ctx, genesis); err != nil {
		return err
	}
	log.Infof("asset %s imported", genesis.ContractID())
	return nil
}

func exportAsset(ctx context.Context, a *app, args []string) error {
	id, err := rgb.NewContractIDFromStr(args[0])
	if err != nil {
		return err
	}
	genesis, err := a.rt.Fungible.Export(ctx, id)
	if err != nil {
		return err
	}
	if err := rgb.WriteFile(args[1], genesis); err != nil {
		return err
	}
	log.Infof("genesis of %s written to %s", id, args[1])
	return nil
}

func parseAllocations(values []string) ([]fungible.Outcoins, error) {
	allocations := make([]fungible.Outcoins, 0, len(values))
	for _, value := range values {
		outcoins, err := fungible.ParseOutcoins(value)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, outcoins)
	}
	return allocations, nil
}

func issueAsset(ctx context.Context, a *app, args []string) error {
	flags := pflag.NewFlagSet("issue", pflag.ContinueOnError)
	description := flags.String("description", "", "asset description")
	precision := flags.Uint8("precision", 0, "decimal precision")
	supply := flags.String("supply", "", "maximum supply, enables secondary issues")
	inflatable := flags.String("inflatable", "", "reissue control allocation")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 3 {
		return rgb.Errorf(rgb.ErrParse, "usage: rgb-cli %s", issueUsage)
	}

	structure := fungible.SingleIssue()
	if *supply != "" || *inflatable != "" {
		maxSupply, err := fungible.ParseAccountingValue(*supply)
		if err != nil {
			return err
		}
		control, err := fungible.ParseOutcoins(*inflatable)
		if err != nil {
			return err
		}
		structure = fungible.MultipleIssues(maxSupply, control)
	}

	allocate, err := parseAllocations(flags.Args()[2:])
	if err != nil {
		return err
	}
	var desc *string
	if *description != "" {
		desc = description
	}

	issue, err := fungible.NewIssue(flags.Arg(0), flags.Arg(1), desc,
		structure, allocate, *precision)
	if err != nil {
		return err
	}
	if err := a.rt.Fungible.Issue(ctx, issue); err != nil {
		return err
	}
	log.Infof("asset %s issued", issue.Ticker)
	return nil
}

// parseOutpoint parses <txid>:<vout>.
func parseOutpoint(s string) (wire.OutPoint, error) {
	txid, vout, ok := strings.Cut(s, ":")
	if !ok {
		return wire.OutPoint{}, rgb.Errorf(rgb.ErrParse,
			"invalid outpoint %q, expected <txid>:<vout>", s)
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return wire.OutPoint{}, rgb.WrapError(rgb.ErrParse, err, "invalid txid")
	}
	index, err := strconv.ParseUint(vout, 10, 32)
	if err != nil {
		return wire.OutPoint{}, rgb.WrapError(rgb.ErrParse, err, "invalid vout")
	}
	return wire.OutPoint{Hash: *hash, Index: uint32(index)}, nil
}

func transferAsset(ctx context.Context, a *app, args []string) error {
	flags := pflag.NewFlagSet("transfer", pflag.ContinueOnError)
	inputs := flags.StringArrayP("input", "i", nil, "spent outpoint <txid>:<vout>")
	allocate := flags.StringArrayP("allocate", "a", nil, "change allocation <amount>@[<txid>:]<vout>")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 6 || len(*inputs) == 0 {
		return rgb.Errorf(rgb.ErrParse, "usage: rgb-cli %s", transferUsage)
	}
	args = flags.Args()

	params := transfer.Params{
		ConsignmentFile: args[4],
		TransactionFile: args[5],
	}
	for _, input := range *inputs {
		outpoint, err := parseOutpoint(input)
		if err != nil {
			return err
		}
		params.Inputs = append(params.Inputs, outpoint)
	}

	var err error
	if params.Allocate, err = parseAllocations(*allocate); err != nil {
		return err
	}
	if params.Invoice.Destination, err = fungible.ParseDestination(args[0], a.cfg.Network); err != nil {
		return err
	}
	if params.Invoice.ContractID, err = rgb.NewContractIDFromStr(args[1]); err != nil {
		return err
	}
	if params.Invoice.Amount, err = fungible.ParseAccountingValue(args[2]); err != nil {
		return err
	}

	template, err := os.ReadFile(args[3])
	if err != nil {
		return rgb.WrapError(rgb.ErrIO, err, "read "+args[3])
	}
	params.Psbt = strings.TrimSpace(string(template))

	result, err := transfer.Run(ctx, a.rt.Fungible, params)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}
	return nil
}

func validateConsignment(ctx context.Context, a *app, args []string) error {
	var consignment rgb.Consignment
	if err := rgb.ReadFile(args[0], &consignment); err != nil {
		return err
	}
	status, err := a.rt.Fungible.Validate(ctx, consignment)
	if err != nil {
		return err
	}
	return a.render(status)
}

// parseReveal parses <blinding>@<txid>:<vout>.
func parseReveal(s string) (rgb.OutpointReveal, error) {
	blinding, outpoint, ok := strings.Cut(s, "@")
	if !ok {
		return rgb.OutpointReveal{}, rgb.Errorf(rgb.ErrParse,
			"invalid reveal %q, expected <blinding>@<txid>:<vout>", s)
	}
	factor, err := strconv.ParseUint(blinding, 10, 64)
	if err != nil {
		return rgb.OutpointReveal{}, rgb.WrapError(rgb.ErrParse, err, "invalid blinding factor")
	}
	op, err := parseOutpoint(outpoint)
	if err != nil {
		return rgb.OutpointReveal{}, err
	}
	return rgb.OutpointReveal{Blinding: factor, Txid: op.Hash, Vout: op.Index}, nil
}

func acceptConsignment(ctx context.Context, a *app, args []string) error {
	var consignment rgb.Consignment
	if err := rgb.ReadFile(args[0], &consignment); err != nil {
		return err
	}
	reveals := make([]rgb.OutpointReveal, 0, len(args)-1)
	for _, arg := range args[1:] {
		reveal, err := parseReveal(arg)
		if err != nil {
			return err
		}
		reveals = append(reveals, reveal)
	}
	if err := a.rt.Fungible.Accept(ctx, consignment, reveals); err != nil {
		return err
	}
	log.Infof("consignment for %s accepted", consignment.ContractID())
	return nil
}

func forgetOutpoint(ctx context.Context, a *app, args []string) error {
	outpoint, err := parseOutpoint(args[0])
	if err != nil {
		return err
	}
	return a.rt.Fungible.Forget(ctx, outpoint)
}

func outpointAssets(ctx context.Context, a *app, args []string) error {
	outpoint, err := parseOutpoint(args[0])
	if err != nil {
		return err
	}
	assets, err := a.rt.Fungible.OutpointAssets(ctx, outpoint)
	if err != nil {
		return err
	}
	return a.render(assets)
}

// blindedSeal is what the payee keeps (Reveal) and what it hands out in an
// invoice (Seal).
type blindedSeal struct {
	Seal   rgb.OutpointHash `yaml:"seal" json:"seal" toml:"seal"`
	Reveal string           `yaml:"reveal" json:"reveal" toml:"reveal"`
}

func blindOutpoint(_ context.Context, a *app, args []string) error {
	outpoint, err := parseOutpoint(args[0])
	if err != nil {
		return err
	}
	blinding, err := rgb.NewBlinding(nil)
	if err != nil {
		return err
	}
	seal := rgb.NewTxOutpointSeal(outpoint.Hash, outpoint.Index, blinding)
	return a.render(blindedSeal{
		Seal:   seal.Conceal(),
		Reveal: fmt.Sprintf("%d@%s", blinding, outpoint),
	})
}
