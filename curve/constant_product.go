package curve

import (
	"math/big"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
)

// SwapBaseInputWithoutFees is the constant product output for an input
// that has already paid its fee:
//
//	out = floor(in * Y / (X + in))
//
// which equals Y - ceil(X*Y / (X+in)) and keeps (X+in)*(Y-out) >= X*Y.
func SwapBaseInputWithoutFees(sourceAmount, swapSourceAmount, swapDestinationAmount *big.Int) (*big.Int, error) {
	numerator, err := math.Mul(sourceAmount, swapDestinationAmount)
	if err != nil {
		return nil, err
	}
	denominator, err := math.Add(swapSourceAmount, sourceAmount)
	if err != nil {
		return nil, err
	}
	return math.Div(numerator, denominator)
}

// SwapBaseOutputWithoutFees is the input required to take destinationAmount
// out of the pool, rounded up:
//
//	in = ceil(out * X / (Y - out))
func SwapBaseOutputWithoutFees(destinationAmount, swapSourceAmount, swapDestinationAmount *big.Int) (*big.Int, error) {
	if destinationAmount.Cmp(swapDestinationAmount) >= 0 {
		return nil, shared.ErrMathOverflow
	}
	denominator := new(big.Int).Sub(swapDestinationAmount, destinationAmount)
	return math.CeilDiv(destinationAmount, swapSourceAmount, denominator)
}

// LpTokensToTradingTokens converts an LP amount into its share of both
// reserves. Withdrawals round down, deposits round up.
func LpTokensToTradingTokens(lpTokenAmount, lpTokenSupply, swapToken0Amount, swapToken1Amount *big.Int, round shared.RoundDirection) (shared.TradingTokenResult, error) {
	if lpTokenSupply.Sign() == 0 {
		return shared.TradingTokenResult{}, shared.ErrMathOverflow
	}
	token0, err := lpShare(lpTokenAmount, lpTokenSupply, swapToken0Amount, round)
	if err != nil {
		return shared.TradingTokenResult{}, err
	}
	token1, err := lpShare(lpTokenAmount, lpTokenSupply, swapToken1Amount, round)
	if err != nil {
		return shared.TradingTokenResult{}, err
	}
	if token0.Sign() == 0 || token1.Sign() == 0 {
		return shared.TradingTokenResult{}, shared.ErrZeroTradingTokens
	}
	return shared.TradingTokenResult{Token0Amount: token0, Token1Amount: token1}, nil
}

func lpShare(lp, supply, reserve *big.Int, round shared.RoundDirection) (*big.Int, error) {
	product, err := math.Mul(lp, reserve)
	if err != nil {
		return nil, err
	}
	amount, remainder := new(big.Int).QuoRem(product, supply, new(big.Int))
	if round == shared.RoundDirectionCeiling && remainder.Sign() > 0 && amount.Sign() > 0 {
		amount.Add(amount, big.NewInt(1))
	}
	return amount, nil
}
