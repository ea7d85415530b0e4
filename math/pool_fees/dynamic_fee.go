package pool_fees

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/gamma-go/decimal_math"
	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
	"github.com/krazyTry/gamma-go/u128"
)

// PriceRange is the min, max and time weighted average of the token0 price
// over the observations inside a window. All zero when there is no signal.
type PriceRange struct {
	Min  *big.Int
	Max  *big.Int
	Twap *big.Int
}

func (r PriceRange) empty() bool {
	return r.Min.Sign() == 0 || r.Max.Sign() == 0 || r.Twap.Sign() == 0
}

func zeroRange() PriceRange {
	return PriceRange{Min: big.NewInt(0), Max: big.NewInt(0), Twap: big.NewInt(0)}
}

// GetPriceRange walks consecutive observations within window seconds of
// now, oldest first, deriving each interval price from the accumulator
// delta.
func GetPriceRange(obs *states.ObservationState, now, window uint64) PriceRange {
	var samples []states.Observation
	for _, o := range obs.Ordered() {
		if o.BlockTimestamp == 0 || o.CumulativeToken0PriceX32.BigInt().Sign() == 0 {
			continue
		}
		if math.SaturatingSubU64(now, o.BlockTimestamp) > window {
			continue
		}
		samples = append(samples, o)
	}
	if len(samples) < 2 {
		return zeroRange()
	}

	var (
		minPrice *big.Int
		maxPrice = big.NewInt(0)
		weighted = decimal.Zero
		total    = decimal.Zero
	)
	for i := 0; i+1 < len(samples); i++ {
		cur, next := samples[i], samples[i+1]
		dt := math.SaturatingSubU64(next.BlockTimestamp, cur.BlockTimestamp)
		if dt == 0 {
			continue
		}
		delta := u128.Wrapping(next.CumulativeToken0PriceX32).SubWrap(u128.Wrapping(cur.CumulativeToken0PriceX32))
		price := delta.Div64(dt).Big()

		if minPrice == nil || price.Cmp(minPrice) < 0 {
			minPrice = price
		}
		if price.Cmp(maxPrice) > 0 {
			maxPrice = price
		}
		dtDec := decimal.NewFromBigInt(new(big.Int).SetUint64(dt), 0)
		weighted = weighted.Add(decimal.NewFromBigInt(price, 0).Mul(dtDec))
		total = total.Add(dtDec)
	}
	if total.IsZero() {
		return zeroRange()
	}
	return PriceRange{
		Min:  minPrice,
		Max:  maxPrice,
		Twap: decimal_math.QuoTrunc(weighted, total).BigInt(),
	}
}

// volatilityComponent is min(VolatilityFactor * volatility, MaxFee - base),
// with volatility = |ln max - ln min| / |ln twap|. ok is false when the
// window carries no usable signal.
func volatilityComponent(r PriceRange, baseFee uint64) (component uint64, ok bool, err error) {
	if r.empty() {
		return 0, false, nil
	}
	lnMax, err := decimal_math.Ln(decimal.NewFromBigInt(r.Max, 0))
	if err != nil {
		return 0, false, shared.ErrMathOverflow
	}
	lnMin, err := decimal_math.Ln(decimal.NewFromBigInt(r.Min, 0))
	if err != nil {
		return 0, false, shared.ErrMathOverflow
	}
	lnTwap, err := decimal_math.Ln(decimal.NewFromBigInt(r.Twap, 0))
	if err != nil {
		return 0, false, shared.ErrMathOverflow
	}
	denominator := lnTwap.Abs()
	if denominator.IsZero() {
		return 0, false, nil
	}
	volatility := lnMax.Sub(lnMin).Abs().Div(denominator)
	scaled := volatility.Mul(decimal.NewFromInt(shared.FeeRateDenominator)).Truncate(0).BigInt()
	if !scaled.IsUint64() {
		return 0, false, shared.ErrMathOverflow
	}
	if baseFee > shared.MaxFee {
		return 0, false, shared.ErrMathOverflow
	}
	calculated := math.SaturatingMulU64(shared.VolatilityFactor, scaled.Uint64()) / shared.FeeRateDenominator
	return min(calculated, shared.MaxFee-baseFee), true, nil
}

// CalculateVolatileFee returns base + volatility component, capped at
// MaxFee. Falls back to baseFee when the window has too few samples.
func CalculateVolatileFee(now uint64, obs *states.ObservationState, baseFee uint64) (uint64, error) {
	component, ok, err := volatilityComponent(GetPriceRange(obs, now, shared.VolatilityWindow), baseFee)
	if err != nil {
		return 0, err
	}
	if !ok {
		return baseFee, nil
	}
	return min(baseFee+component, shared.MaxFee), nil
}

// CalculateImbalancedVolatileFee adds a liquidity imbalance surcharge on
// top of the volatility component.
func CalculateImbalancedVolatileFee(now uint64, obs *states.ObservationState, vault0, vault1 *big.Int, baseFee uint64) (uint64, error) {
	component, ok, err := volatilityComponent(GetPriceRange(obs, now, shared.VolatilityWindow), baseFee)
	if err != nil {
		return 0, err
	}
	if !ok {
		return baseFee, nil
	}

	totalLiquidity, err := math.Add(vault0, vault1)
	if err != nil {
		return 0, err
	}
	ratio := big.NewInt(0)
	if totalLiquidity.Sign() > 0 {
		if r, err := math.FloorDiv(vault0, shared.FeeRateDenominatorBig, totalLiquidity); err == nil {
			ratio = r
		}
	}
	imbalance := math.AbsDiff(ratio, big.NewInt(shared.FeeRateDenominator/2)).Uint64()
	imbalanceComponent := math.SaturatingMulU64(shared.ImbalanceFactor, imbalance) / shared.FeeRateDenominator

	fee := baseFee + component + imbalanceComponent
	return min(fee, shared.MaxFee), nil
}

// CalculateRangeVolatilityFee charges one basis point per percent of
// spread between the window's extreme prices, capped at MaxFeeVolatility.
func CalculateRangeVolatilityFee(now uint64, obs *states.ObservationState, baseFee uint64) (uint64, error) {
	r := GetPriceRange(obs, now, shared.VolatilityWindow)
	low := math.Min(r.Min, r.Max)
	if low.Sign() == 0 {
		return min(baseFee, shared.MaxFeeVolatility), nil
	}
	spread := new(big.Int).Quo(math.AbsDiff(r.Max, r.Min), low)
	volatility, err := math.Mul(spread, shared.FeeRateDenominatorBig)
	if err != nil {
		return 0, err
	}
	fee, err := math.Add(volatility.Quo(volatility, big.NewInt(100)), math.U128(baseFee))
	if err != nil {
		return 0, err
	}
	if fee.Cmp(big.NewInt(shared.MaxFeeVolatility)) > 0 {
		return shared.MaxFeeVolatility, nil
	}
	return fee.Uint64(), nil
}

// CalculateDynamicFee dispatches on the fee formula.
func CalculateDynamicFee(now uint64, obs *states.ObservationState, vault0, vault1 *big.Int, feeType shared.FeeType, baseFee uint64) (uint64, error) {
	switch feeType {
	case shared.FeeTypeVolatilityImbalance:
		return CalculateImbalancedVolatileFee(now, obs, vault0, vault1, baseFee)
	case shared.FeeTypeRange:
		return CalculateRangeVolatilityFee(now, obs, baseFee)
	default:
		return CalculateVolatileFee(now, obs, baseFee)
	}
}

// DynamicFeeRate is the trade fee rate for a swap against pool. Signed
// segmenter flow pays the base rate. A nonzero pool MaxTradeFeeRate caps
// the result.
func DynamicFeeRate(now uint64, obs *states.ObservationState, feeType shared.FeeType, baseFee uint64, pool *states.PoolState, isInvokedBySignedSegmenter bool) (uint64, error) {
	rate := baseFee
	if !isInvokedBySignedSegmenter {
		v0, v1, err := pool.VaultAmountWithoutFee()
		if err != nil {
			return 0, err
		}
		if rate, err = CalculateDynamicFee(now, obs, math.U128(v0), math.U128(v1), feeType, baseFee); err != nil {
			return 0, err
		}
	}
	if pool.MaxTradeFeeRate > 0 && rate > pool.MaxTradeFeeRate {
		rate = pool.MaxTradeFeeRate
	}
	return rate, nil
}

// DynamicFee is the fee charged on amount at rate, rounded up.
func DynamicFee(amount *big.Int, rate uint64) (*big.Int, error) {
	return math.CeilDiv(amount, math.U128(rate), shared.FeeRateDenominatorBig)
}

// CalculatePreFeeAmount recovers the gross amount from a post-fee amount:
// x = (y*D + (D-r) - 1) / (D-r).
func CalculatePreFeeAmount(postFeeAmount *big.Int, rate uint64) (*big.Int, error) {
	if rate == 0 {
		return new(big.Int).Set(postFeeAmount), nil
	}
	if rate >= shared.FeeRateDenominator {
		return nil, shared.ErrMathOverflow
	}
	denominator := math.U128(shared.FeeRateDenominator - rate)
	numerator, err := math.Mul(postFeeAmount, shared.FeeRateDenominatorBig)
	if err != nil {
		return nil, err
	}
	return math.CeilDiv(numerator, big.NewInt(1), denominator)
}
