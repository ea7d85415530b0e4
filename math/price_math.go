package math

import (
	"math/big"

	"github.com/krazyTry/gamma-go/shared"
)

// SpotPrice is the pool price of the source token in destination units,
// scaled by D9.
func SpotPrice(sourceReserve, destinationReserve *big.Int) (*big.Int, error) {
	return FloorDiv(destinationReserve, shared.D9Big, sourceReserve)
}

// OraclePriceForDirection orients the stored token0-by-token1 oracle price
// to the source->destination direction of the trade.
func OraclePriceForDirection(oraclePriceToken0ByToken1 *big.Int, direction shared.TradeDirection) (*big.Int, error) {
	if direction == shared.TradeDirectionZeroForOne {
		return Div(shared.D9TimesD9, oraclePriceToken0ByToken1)
	}
	return new(big.Int).Set(oraclePriceToken0ByToken1), nil
}

// RateDifference returns |a-b| relative to b, in ppm.
func RateDifference(a, b *big.Int) (*big.Int, error) {
	return FloorDiv(AbsDiff(a, b), shared.FeeRateDenominatorBig, b)
}

// ExecutionOraclePrice applies the swap premium to the oracle price.
func ExecutionOraclePrice(oraclePrice *big.Int, premiumRate uint64) (*big.Int, error) {
	premium, err := FloorDiv(oraclePrice, U128(premiumRate), shared.FeeRateDenominatorBig)
	if err != nil {
		return nil, err
	}
	return Add(oraclePrice, premium)
}
