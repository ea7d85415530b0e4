package quote

import (
	"math/big"
	"strconv"

	"github.com/krazyTry/gamma-go/shared"
)

// QuoteInput is a quote request with the raw account data it prices
// against. For base output quotes Amount is the desired output.
type QuoteInput struct {
	Amount                     *big.Int
	AmmConfigData              []byte
	PoolStateData              []byte
	ObservationStateData       []byte
	ZeroForOne                 bool
	IsInvokedBySignedSegmenter bool
}

func (in *QuoteInput) Direction() shared.TradeDirection {
	if in.ZeroForOne {
		return shared.TradeDirectionZeroForOne
	}
	return shared.TradeDirectionOneForZero
}

// SwapResultJSON is the wire form of a swap result. Amounts are decimal
// strings so u128 values survive JavaScript numbers.
type SwapResultJSON struct {
	NewSwapSourceAmount      string `json:"newSwapSourceAmount"`
	NewSwapDestinationAmount string `json:"newSwapDestinationAmount"`
	SourceAmountSwapped      string `json:"sourceAmountSwapped"`
	DestinationAmountSwapped string `json:"destinationAmountSwapped"`
	DynamicFee               string `json:"dynamicFee"`
	ProtocolFee              string `json:"protocolFee"`
	FundFee                  string `json:"fundFee"`
	DynamicFeeRate           string `json:"dynamicFeeRate"`
}

func NewSwapResultJSON(r shared.SwapResult) SwapResultJSON {
	return SwapResultJSON{
		NewSwapSourceAmount:      r.NewSwapSourceAmount.String(),
		NewSwapDestinationAmount: r.NewSwapDestinationAmount.String(),
		SourceAmountSwapped:      r.SourceAmountSwapped.String(),
		DestinationAmountSwapped: r.DestinationAmountSwapped.String(),
		DynamicFee:               r.DynamicFee.String(),
		ProtocolFee:              r.ProtocolFee.String(),
		FundFee:                  r.FundFee.String(),
		DynamicFeeRate:           strconv.FormatUint(r.DynamicFeeRate, 10),
	}
}

// Kind selects the calculator a quote runs.
type Kind uint8

const (
	KindSwapBaseInput Kind = iota
	KindOracleBasedSwap
	KindSwapBaseOutput
)

func (k Kind) String() string {
	switch k {
	case KindSwapBaseInput:
		return "base-input"
	case KindOracleBasedSwap:
		return "oracle"
	case KindSwapBaseOutput:
		return "base-output"
	default:
		return "unknown"
	}
}

func (k Kind) op() string {
	switch k {
	case KindSwapBaseInput:
		return "swap base input"
	case KindOracleBasedSwap:
		return "oracle based swap"
	default:
		return "swap base output"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindSwapBaseInput, KindOracleBasedSwap, KindSwapBaseOutput} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
