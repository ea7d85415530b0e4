package curve

import (
	"math/big"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/math/pool_fees"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
)

// SwapParams is the snapshot a swap is priced against. Amount is the
// source amount for base input swaps and the desired destination amount
// for base output swaps. Reserves are oriented by Direction.
type SwapParams struct {
	Amount                *big.Int
	SwapSourceAmount      *big.Int
	SwapDestinationAmount *big.Int
	Direction             shared.TradeDirection

	Config       *states.AmmConfig
	Pool         *states.PoolState
	Observations *states.ObservationState
	Now          uint64
	FeeType      shared.FeeType

	IsInvokedBySignedSegmenter bool
}

// NewSwapParams orients the pool's vault amounts for direction and
// selects shared.DefaultFeeType.
func NewSwapParams(amount *big.Int, direction shared.TradeDirection, cfg *states.AmmConfig, pool *states.PoolState, obs *states.ObservationState, now uint64, segmenter bool) SwapParams {
	src, dst := pool.Reserves(direction)
	return SwapParams{
		Amount:                     amount,
		SwapSourceAmount:           src,
		SwapDestinationAmount:      dst,
		Direction:                  direction,
		Config:                     cfg,
		Pool:                       pool,
		Observations:               obs,
		Now:                        now,
		FeeType:                    shared.DefaultFeeType,
		IsInvokedBySignedSegmenter: segmenter,
	}
}

func (p SwapParams) dynamicFeeRate() (uint64, error) {
	return pool_fees.DynamicFeeRate(p.Now, p.Observations, p.FeeType, p.Config.TradeFeeRate, p.Pool, p.IsInvokedBySignedSegmenter)
}

// ValidateSupply rejects an empty side of the pool.
func ValidateSupply(tokenAAmount, tokenBAmount *big.Int) error {
	if tokenAAmount.Sign() == 0 || tokenBAmount.Sign() == 0 {
		return shared.ErrZeroTradingTokens
	}
	return nil
}

func splitFee(fee *big.Int, cfg *states.AmmConfig) (protocol, fund *big.Int, err error) {
	if protocol, err = math.ProtocolFee(fee, cfg.ProtocolFeeRate); err != nil {
		return nil, nil, err
	}
	if fund, err = math.FundFee(fee, cfg.FundFeeRate); err != nil {
		return nil, nil, err
	}
	return protocol, fund, nil
}

// SwapBaseInput charges the dynamic fee on the input, rounded up, and swaps
// the remainder along the curve.
func SwapBaseInput(p SwapParams) (shared.SwapResult, error) {
	rate, err := p.dynamicFeeRate()
	if err != nil {
		return shared.SwapResult{}, err
	}
	fee, err := pool_fees.DynamicFee(p.Amount, rate)
	if err != nil {
		return shared.SwapResult{}, err
	}
	sourceAmountLessFees, err := math.Sub(p.Amount, fee)
	if err != nil {
		return shared.SwapResult{}, err
	}
	destinationAmountSwapped, err := SwapBaseInputWithoutFees(sourceAmountLessFees, p.SwapSourceAmount, p.SwapDestinationAmount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	protocolFee, fundFee, err := splitFee(fee, p.Config)
	if err != nil {
		return shared.SwapResult{}, err
	}

	newSource, err := math.Add(p.SwapSourceAmount, p.Amount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	newDestination, err := math.Sub(p.SwapDestinationAmount, destinationAmountSwapped)
	if err != nil {
		return shared.SwapResult{}, err
	}
	return shared.SwapResult{
		NewSwapSourceAmount:      newSource,
		NewSwapDestinationAmount: newDestination,
		SourceAmountSwapped:      new(big.Int).Set(p.Amount),
		DestinationAmountSwapped: destinationAmountSwapped,
		DynamicFee:               fee,
		ProtocolFee:              protocolFee,
		FundFee:                  fundFee,
		DynamicFeeRate:           rate,
	}, nil
}

// SwapBaseOutput finds the input, fee included, that buys exactly
// p.Amount of the destination token.
func SwapBaseOutput(p SwapParams) (shared.SwapResult, error) {
	rate, err := p.dynamicFeeRate()
	if err != nil {
		return shared.SwapResult{}, err
	}
	sourceAmountWithoutFee, err := SwapBaseOutputWithoutFees(p.Amount, p.SwapSourceAmount, p.SwapDestinationAmount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	sourceAmount, err := pool_fees.CalculatePreFeeAmount(sourceAmountWithoutFee, rate)
	if err != nil {
		return shared.SwapResult{}, err
	}
	fee, err := math.Sub(sourceAmount, sourceAmountWithoutFee)
	if err != nil {
		return shared.SwapResult{}, err
	}
	protocolFee, fundFee, err := splitFee(fee, p.Config)
	if err != nil {
		return shared.SwapResult{}, err
	}

	newSource, err := math.Add(p.SwapSourceAmount, sourceAmount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	newDestination, err := math.Sub(p.SwapDestinationAmount, p.Amount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	return shared.SwapResult{
		NewSwapSourceAmount:      newSource,
		NewSwapDestinationAmount: newDestination,
		SourceAmountSwapped:      sourceAmount,
		DestinationAmountSwapped: new(big.Int).Set(p.Amount),
		DynamicFee:               fee,
		ProtocolFee:              protocolFee,
		FundFee:                  fundFee,
		DynamicFeeRate:           rate,
	}, nil
}

// TransferSwapResult is a base output swap with token-2022 transfer fees
// applied on both legs.
type TransferSwapResult struct {
	shared.SwapResult
	InputTransferAmount  *big.Int
	InputTransferFee     *big.Int
	OutputTransferAmount *big.Int
	OutputTransferFee    *big.Int
}

// SwapBaseOutputWithTransferFees grosses the requested output up by the
// output mint's transfer fee, swaps, then grosses the required input up by
// the input mint's transfer fee. A nil config means no transfer fee.
func SwapBaseOutputWithTransferFees(p SwapParams, inputFee, outputFee *math.TransferFeeConfig, epoch uint64) (TransferSwapResult, error) {
	out := math.CalculateTransferFeeIncludedAmount(p.Amount, outputFee, epoch)
	p.Amount = out.Amount
	result, err := SwapBaseOutput(p)
	if err != nil {
		return TransferSwapResult{}, err
	}
	in := math.CalculateTransferFeeIncludedAmount(result.SourceAmountSwapped, inputFee, epoch)
	return TransferSwapResult{
		SwapResult:           result,
		InputTransferAmount:  in.Amount,
		InputTransferFee:     in.TransferFee,
		OutputTransferAmount: out.Amount,
		OutputTransferFee:    out.TransferFee,
	}, nil
}

// CheckInvariant fails when the swap shrank the constant product.
func CheckInvariant(swapSourceAmount, swapDestinationAmount *big.Int, result shared.SwapResult) error {
	before := new(big.Int).Mul(swapSourceAmount, swapDestinationAmount)
	after := new(big.Int).Mul(result.NewSwapSourceAmount, result.NewSwapDestinationAmount)
	if after.Cmp(before) < 0 {
		return shared.ErrMathOverflow
	}
	return nil
}

func CheckMinimumOut(amountOut, minimumAmountOut *big.Int) error {
	if amountOut.Cmp(minimumAmountOut) < 0 {
		return shared.ErrExceededSlippage
	}
	return nil
}

func CheckMaximumIn(amountIn, maximumAmountIn *big.Int) error {
	if amountIn.Cmp(maximumAmountIn) > 0 {
		return shared.ErrExceededSlippage
	}
	return nil
}
