// Package transfer assembles an asset transfer from an invoice and a
// transaction template, submits it to the fungible service and writes the
// resulting consignment and transaction to disk.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/api"
	"github.com/ArkLabsHQ/rgbnode/pkg/fungible"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
	log "github.com/sirupsen/logrus"
)

// ProprietaryPrefix is the identifier of the proprietary PSBT keys used to
// pass commitment data along with a transaction template.
const ProprietaryPrefix = "RGB"

// ProprietaryOutPubkey is the subtype of the proprietary output key whose
// value is the public key the commitment will tweak.
const ProprietaryOutPubkey byte = 0x01

// proprietaryKeyType is the PSBT key type of proprietary keys.
const proprietaryKeyType byte = 0xFC

// CommitmentKey is the full output map key carrying the commitment public
// key: the proprietary type, the length-prefixed identifier and the subtype,
// with no key data.
var CommitmentKey = append(append(
	[]byte{proprietaryKeyType, byte(len(ProprietaryPrefix))},
	ProprietaryPrefix...), ProprietaryOutPubkey)

// State is the stage a transfer has reached.
type State uint8

const (
	Assembling State = iota
	AwaitingReply
	Settling
	Done
	Failed
)

var stateStrings = map[State]string{
	Assembling:    "assembling",
	AwaitingReply: "awaiting reply",
	Settling:      "settling",
	Done:          "done",
	Failed:        "failed",
}

// String returns the State as a human-readable name.
func (s State) String() string {
	if str, ok := stateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Submitter sends a transfer request to the fungible service.
type Submitter interface {
	Transfer(ctx context.Context, transfer api.Transfer) (*api.TransferResult, error)
}

// Params are the inputs of a transfer.
type Params struct {
	// Inputs are the outpoints whose assets are spent.
	Inputs []wire.OutPoint

	// Allocate lists the change allocations kept by us.
	Allocate []fungible.Outcoins

	// Invoice is the payment request of the counterparty.
	Invoice fungible.Invoice

	// Psbt is the base64 encoded transaction template.
	Psbt string

	// ConsignmentFile and TransactionFile are the paths the consignment
	// and the final transaction are written to.
	ConsignmentFile string
	TransactionFile string
}

// Result is the outcome of a completed transfer.
type Result struct {
	Consignment rgb.Consignment
	Psbt        *psbt.Packet

	// Warnings lists the template outputs that could not be prepared for
	// the commitment.
	Warnings []string
}

// Workflow runs a single transfer through its states.
type Workflow struct {
	submitter Submitter
	params    Params
	state     State
	log       *log.Entry
}

// NewWorkflow prepares a transfer of params through submitter.
func NewWorkflow(submitter Submitter, params Params) *Workflow {
	return &Workflow{
		submitter: submitter,
		params:    params,
		state:     Assembling,
		log:       log.WithField("contract", params.Invoice.ContractID),
	}
}

// State returns the stage the workflow has reached.
func (w *Workflow) State() State {
	return w.state
}

func (w *Workflow) enter(state State) {
	w.log.Debugf("transfer %s -> %s", w.state, state)
	w.state = state
}

// Run assembles the transfer, submits it and writes the artifacts. The
// workflow ends in Done on success and in Failed otherwise; it cannot be
// run twice.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	if w.state != Assembling {
		return nil, rgb.Errorf(rgb.ErrInternal, "transfer already %s", w.state)
	}
	result, err := w.run(ctx)
	if err != nil {
		w.enter(Failed)
		return nil, err
	}
	w.enter(Done)
	return result, nil
}

func (w *Workflow) run(ctx context.Context) (*Result, error) {
	request, warnings, err := w.assemble()
	if err != nil {
		return nil, err
	}

	w.enter(AwaitingReply)
	reply, err := w.submitter.Transfer(ctx, *request)
	if err != nil {
		return nil, err
	}
	if reply.Psbt.Packet == nil {
		return nil, rgb.NewError(rgb.ErrProtocol,
			"transfer reply carries no transaction")
	}

	w.enter(Settling)
	if err := rgb.WriteFile(w.params.ConsignmentFile, &reply.Consignment); err != nil {
		return nil, err
	}
	var tx bytes.Buffer
	if err := reply.Psbt.Serialize(&tx); err != nil {
		return nil, rgb.WrapError(rgb.ErrEncoding, err, "serialize transaction")
	}
	if err := rgb.WriteFileAtomic(w.params.TransactionFile, tx.Bytes()); err != nil {
		return nil, err
	}
	w.log.Infof("transfer succeeded: consignment written to %s, "+
		"transaction to %s", w.params.ConsignmentFile, w.params.TransactionFile)

	return &Result{
		Consignment: reply.Consignment,
		Psbt:        reply.Psbt.Packet,
		Warnings:    warnings,
	}, nil
}

// assemble builds the transfer request from the invoice and the template.
func (w *Workflow) assemble() (*api.Transfer, []string, error) {
	var seal rgb.OutpointHash
	switch dest := w.params.Invoice.Destination.(type) {
	case fungible.BlindedUTXO:
		seal = dest.Seal
	case fungible.AddressDestination:
		return nil, nil, rgb.Errorf(rgb.ErrUnsupported,
			"paying to address %s is not supported", dest)
	default:
		return nil, nil, rgb.Errorf(rgb.ErrUnsupported,
			"unsupported invoice destination %T", dest)
	}

	packet, err := psbt.NewFromRawBytes(strings.NewReader(w.params.Psbt), true)
	if err != nil {
		return nil, nil, rgb.WrapError(rgb.ErrEncoding, err, "decode transaction template")
	}

	warnings, err := InjectCommitmentKeys(packet)
	if err != nil {
		return nil, nil, err
	}

	return &api.Transfer{
		Psbt:       api.PSBT{Packet: packet},
		ContractID: w.params.Invoice.ContractID,
		Inputs:     w.params.Inputs,
		Ours:       w.params.Allocate,
		Theirs: []fungible.Outcoincealed{{
			Coins:            w.params.Invoice.Amount,
			SealConfidential: seal,
		}},
	}, warnings, nil
}

// Run performs a transfer of params through submitter.
func Run(ctx context.Context, submitter Submitter, params Params) (*Result, error) {
	return NewWorkflow(submitter, params).Run(ctx)
}
