package fungible

import (
	"math/bits"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// MaxPrecision is the largest number of decimal digits an asset may declare.
const MaxPrecision = 18

// IssueStructure describes whether an asset can be issued again after its
// primary issue. The zero value is a single issue.
type IssueStructure struct {
	// MaxSupply caps the total supply over all issues.
	MaxSupply *AccountingValue

	// ReissueControl is the allocation whose owner may issue again.
	ReissueControl *Outcoins
}

// SingleIssue returns the structure of an asset that is issued only once.
func SingleIssue() IssueStructure {
	return IssueStructure{}
}

// MultipleIssues returns the structure of an inflatable asset.
func MultipleIssues(maxSupply AccountingValue, reissueControl Outcoins) IssueStructure {
	return IssueStructure{MaxSupply: &maxSupply, ReissueControl: &reissueControl}
}

// IsSingle reports whether the asset may be issued only once.
func (s IssueStructure) IsSingle() bool {
	return s.MaxSupply == nil && s.ReissueControl == nil
}

// Issue is the set of parameters of a new fungible asset.
type Issue struct {
	_           struct{}         `cbor:",toarray"`
	Ticker      string           `yaml:"ticker" json:"ticker" toml:"ticker"`
	Title       string           `yaml:"title" json:"title" toml:"title"`
	Description *string          `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Supply      *AccountingValue `yaml:"supply,omitempty" json:"supply,omitempty" toml:"supply,omitempty"`
	Inflatable  *Outcoins        `yaml:"inflatable,omitempty" json:"inflatable,omitempty" toml:"inflatable,omitempty"`
	Precision   uint8            `yaml:"precision" json:"precision" toml:"precision"`
	Allocate    []Outcoins       `yaml:"allocate" json:"allocate" toml:"allocate"`
}

// NewIssue assembles and validates the parameters of a new asset. Every
// allocated amount, and the maximum supply if any, must be representable in
// the declared precision.
func NewIssue(ticker, title string, description *string, structure IssueStructure,
	allocate []Outcoins, precision uint8) (*Issue, error) {

	if ticker == "" {
		return nil, rgb.NewError(rgb.ErrParse, "ticker must not be empty")
	}
	if precision > MaxPrecision {
		return nil, rgb.Errorf(rgb.ErrParse,
			"precision %d exceeds maximum of %d", precision, MaxPrecision)
	}
	if structure.IsSingle() != (structure.MaxSupply == nil) ||
		structure.IsSingle() != (structure.ReissueControl == nil) {

		return nil, rgb.NewError(rgb.ErrParse,
			"multiple issues need both a max supply and a reissue control")
	}

	var total uint64
	for _, a := range allocate {
		atomic, err := a.Coins.Atomic(precision)
		if err != nil {
			return nil, err
		}
		var carry uint64
		total, carry = bits.Add64(total, atomic, 0)
		if carry != 0 {
			return nil, rgb.Errorf(rgb.ErrParse,
				"allocated amounts overflow at precision %d", precision)
		}
	}
	if structure.MaxSupply != nil {
		maxSupply, err := structure.MaxSupply.Atomic(precision)
		if err != nil {
			return nil, err
		}
		if total > maxSupply {
			return nil, rgb.Errorf(rgb.ErrParse,
				"allocated %d exceeds max supply %d", total, maxSupply)
		}
	}

	return &Issue{
		Ticker:      ticker,
		Title:       title,
		Description: description,
		Supply:      structure.MaxSupply,
		Inflatable:  structure.ReissueControl,
		Precision:   precision,
		Allocate:    allocate,
	}, nil
}
