package curve

import (
	"math/big"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/math/pool_fees"
	"github.com/krazyTry/gamma-go/shared"
)

type DecisionKind uint8

const (
	DecisionCurveOnly DecisionKind = iota
	DecisionOracleBlend
)

// FallbackReason explains a DecisionCurveOnly.
type FallbackReason uint8

const (
	FallbackNone FallbackReason = iota
	FallbackAbsent
	FallbackStale
	FallbackDeviation
	FallbackZeroTranche
)

func (r FallbackReason) String() string {
	switch r {
	case FallbackNone:
		return "none"
	case FallbackAbsent:
		return "absent"
	case FallbackStale:
		return "stale"
	case FallbackDeviation:
		return "deviation"
	case FallbackZeroTranche:
		return "zero_tranche"
	default:
		return "unknown"
	}
}

// OracleDecision says how a base input swap is routed. Prices are set once
// the freshness gate passes; tranches only for DecisionOracleBlend.
type OracleDecision struct {
	Kind   DecisionKind
	Reason FallbackReason

	SpotPrice     *big.Int
	OraclePrice   *big.Int
	OracleTranche *big.Int
	CurveTranche  *big.Int
}

func curveOnly(reason FallbackReason) OracleDecision {
	return OracleDecision{Kind: DecisionCurveOnly, Reason: reason}
}

// Decide runs the freshness, deviation and sizing gates for a base input
// swap without executing it.
func Decide(p SwapParams) (OracleDecision, error) {
	pool := p.Pool
	oracle := pool.OraclePriceToken0ByToken1.BigInt()
	updatedAt := pool.OraclePriceUpdatedAt

	if updatedAt == 0 || oracle.Sign() == 0 {
		return curveOnly(FallbackAbsent), nil
	}
	if p.Now < updatedAt || p.Now-updatedAt > p.Config.MaxOraclePriceUpdateTimeDiff {
		return curveOnly(FallbackStale), nil
	}

	spotPrice, err := math.SpotPrice(p.SwapSourceAmount, p.SwapDestinationAmount)
	if err != nil {
		return OracleDecision{}, err
	}
	oraclePrice, err := math.OraclePriceForDirection(oracle, p.Direction)
	if err != nil {
		return OracleDecision{}, err
	}
	difference, err := math.RateDifference(spotPrice, oraclePrice)
	if err != nil {
		return OracleDecision{}, err
	}
	if difference.Cmp(math.U128(pool.AcceptablePriceDifference)) > 0 {
		d := curveOnly(FallbackDeviation)
		d.SpotPrice, d.OraclePrice = spotPrice, oraclePrice
		return d, nil
	}

	tranche, err := AmountToBeSwappedAtOraclePrice(p.Amount, p.SwapSourceAmount, p.SwapDestinationAmount, oraclePrice, spotPrice, pool.AcceptablePriceDifference, pool.MaxAmountSwappableAtOraclePrice)
	if err != nil {
		return OracleDecision{}, err
	}
	if tranche.Sign() == 0 {
		d := curveOnly(FallbackZeroTranche)
		d.SpotPrice, d.OraclePrice = spotPrice, oraclePrice
		return d, nil
	}
	return OracleDecision{
		Kind:          DecisionOracleBlend,
		SpotPrice:     spotPrice,
		OraclePrice:   oraclePrice,
		OracleTranche: tranche,
		CurveTranche:  new(big.Int).Sub(p.Amount, tranche),
	}, nil
}

// AmountToBeSwappedAtOraclePrice sizes the oracle tranche. It is the least
// of the configured share of the source reserve, the amount that keeps the
// post-trade spot price inside the acceptable band, and the trade itself.
//
// Trading at oracle price P until spot reaches the band edge Z solves
//
//	(Y - P*dx) / (X + dx) = Z  =>  dx = |Z*X - Y| / (Z + P)
//
// with Y scaled by D9 to match the prices.
func AmountToBeSwappedAtOraclePrice(amount, swapSourceAmount, swapDestinationAmount, oraclePrice, spotPrice *big.Int, acceptablePriceDifference, maxAmountSwappableAtOraclePrice uint64) (*big.Int, error) {
	maxSwappable, err := math.FloorDiv(swapSourceAmount, math.U128(maxAmountSwappableAtOraclePrice), shared.FeeRateDenominatorBig)
	if err != nil {
		return nil, err
	}
	limit, err := math.Sub(shared.FeeRateDenominatorBig, math.U128(acceptablePriceDifference))
	if err != nil {
		return nil, err
	}
	z, err := math.FloorDiv(spotPrice, limit, shared.FeeRateDenominatorBig)
	if err != nil {
		return nil, err
	}
	zTimesX, err := math.Mul(z, swapSourceAmount)
	if err != nil {
		return nil, err
	}
	yScaled, err := math.Mul(swapDestinationAmount, shared.D9Big)
	if err != nil {
		return nil, err
	}
	denominator, err := math.Add(oraclePrice, z)
	if err != nil {
		return nil, err
	}
	withinBand, err := math.Div(math.AbsDiff(zTimesX, yScaled), denominator)
	if err != nil {
		return nil, err
	}
	return math.Min(math.Min(maxSwappable, withinBand), amount), nil
}

// OracleSwapBaseInput executes a base input swap, filling the oracle
// tranche at the premium-adjusted oracle price and the rest on the curve.
// Any fallback is bit-for-bit SwapBaseInput.
func OracleSwapBaseInput(p SwapParams) (shared.SwapResult, OracleDecision, error) {
	decision, err := Decide(p)
	if err != nil {
		return shared.SwapResult{}, OracleDecision{}, err
	}
	if decision.Kind == DecisionCurveOnly {
		result, err := SwapBaseInput(p)
		return result, decision, err
	}
	result, err := executeBlend(p, decision)
	return result, decision, err
}

func executeBlend(p SwapParams, d OracleDecision) (shared.SwapResult, error) {
	rate, err := p.dynamicFeeRate()
	if err != nil {
		return shared.SwapResult{}, err
	}

	// Oracle tranche.
	oracleRate := max(rate, p.Pool.MinTradeRateAtOraclePrice)
	oracleFee, err := pool_fees.DynamicFee(d.OracleTranche, oracleRate)
	if err != nil {
		return shared.SwapResult{}, err
	}
	oracleIn, err := math.Sub(d.OracleTranche, oracleFee)
	if err != nil {
		return shared.SwapResult{}, err
	}
	executionPrice, err := math.ExecutionOraclePrice(d.OraclePrice, p.Pool.PricePremiumForSwapAtOraclePrice)
	if err != nil {
		return shared.SwapResult{}, err
	}
	oracleOut, err := math.FloorDiv(executionPrice, oracleIn, shared.D9Big)
	if err != nil {
		return shared.SwapResult{}, err
	}

	// The curve tranche is priced with the oracle fill taken out of the
	// source side and credited to the destination side, as the program
	// settles it. The reported reserves below use the full trade.
	adjustedSource, err := math.Sub(p.SwapSourceAmount, oracleIn)
	if err != nil {
		return shared.SwapResult{}, err
	}
	adjustedDestination, err := math.Add(p.SwapDestinationAmount, oracleOut)
	if err != nil {
		return shared.SwapResult{}, err
	}
	curveFee, err := pool_fees.DynamicFee(d.CurveTranche, rate)
	if err != nil {
		return shared.SwapResult{}, err
	}
	curveIn, err := math.Sub(d.CurveTranche, curveFee)
	if err != nil {
		return shared.SwapResult{}, err
	}
	curveOut, err := SwapBaseInputWithoutFees(curveIn, adjustedSource, adjustedDestination)
	if err != nil {
		return shared.SwapResult{}, err
	}

	fee, err := math.Add(oracleFee, curveFee)
	if err != nil {
		return shared.SwapResult{}, err
	}
	effectiveRate, err := math.FloorDiv(fee, shared.FeeRateDenominatorBig, p.Amount)
	if err != nil {
		return shared.SwapResult{}, err
	}
	destinationAmountSwapped, err := math.Add(oracleOut, curveOut)
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
		DynamicFeeRate:           effectiveRate.Uint64(),
	}, nil
}
