package curve

import (
	"errors"
	"math/big"
	"testing"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
	"github.com/krazyTry/gamma-go/u128"
)

func testConfig() *states.AmmConfig {
	return &states.AmmConfig{
		TradeFeeRate:                 3000,
		ProtocolFeeRate:              100_000,
		FundFeeRate:                  100_000,
		MaxOraclePriceUpdateTimeDiff: 60,
	}
}

func testPool() *states.PoolState {
	return &states.PoolState{
		Token0VaultAmount:                1_000_000,
		Token1VaultAmount:                1_000_000,
		OraclePriceToken0ByToken1:        u128.FromUint64(1_000_000_000),
		OraclePriceUpdatedAt:             1000,
		AcceptablePriceDifference:        50_000,
		MaxAmountSwappableAtOraclePrice:  100_000,
		MinTradeRateAtOraclePrice:        1000,
		PricePremiumForSwapAtOraclePrice: 1000,
	}
}

func testParams(amount int64, now uint64) SwapParams {
	return NewSwapParams(big.NewInt(amount), shared.TradeDirectionZeroForOne, testConfig(), testPool(), &states.ObservationState{}, now, false)
}

func TestSwapBaseInput(t *testing.T) {
	p := testParams(100_000, 1070)
	result, err := SwapBaseInput(p)
	if err != nil {
		t.Fatal("SwapBaseInput() fail", err)
	}
	if result.DynamicFee.Int64() != 300 || result.DestinationAmountSwapped.Int64() != 90_661 {
		t.Fatalf("fee=%s out=%s", result.DynamicFee, result.DestinationAmountSwapped)
	}
	if result.ProtocolFee.Int64() != 30 || result.FundFee.Int64() != 30 || result.DynamicFeeRate != 3000 {
		t.Fatalf("protocol=%s fund=%s rate=%d", result.ProtocolFee, result.FundFee, result.DynamicFeeRate)
	}
	if result.NewSwapSourceAmount.Int64() != 1_100_000 || result.NewSwapDestinationAmount.Int64() != 909_339 {
		t.Fatalf("new reserves %s/%s", result.NewSwapSourceAmount, result.NewSwapDestinationAmount)
	}
	if err := CheckInvariant(p.SwapSourceAmount, p.SwapDestinationAmount, result); err != nil {
		t.Fatal("CheckInvariant() fail", err)
	}
}

func TestSwapBaseInputInvariant(t *testing.T) {
	reserves := [][2]int64{{1, 1}, {1000, 7}, {1_000_000, 1_000_000}, {5_000_000_000, 13}, {999_999_937, 1_000_000_007}}
	amounts := []int64{1, 2, 999, 1_000_000, 3_000_000_000}
	for _, r := range reserves {
		for _, amount := range amounts {
			p := testParams(amount, 1070)
			p.SwapSourceAmount, p.SwapDestinationAmount = big.NewInt(r[0]), big.NewInt(r[1])
			result, err := SwapBaseInput(p)
			if err != nil {
				t.Fatal("SwapBaseInput() fail", err)
			}
			if err := CheckInvariant(p.SwapSourceAmount, p.SwapDestinationAmount, result); err != nil {
				t.Fatalf("reserves=%v amount=%d", r, amount)
			}
			sum := new(big.Int).Add(result.ProtocolFee, result.FundFee)
			if sum.Cmp(result.DynamicFee) > 0 {
				t.Fatalf("protocol+fund exceeds fee for amount=%d", amount)
			}
		}
	}
}

func TestSwapBaseOutput(t *testing.T) {
	p := testParams(90_661, 1070)
	result, err := SwapBaseOutput(p)
	if err != nil {
		t.Fatal("SwapBaseOutput() fail", err)
	}
	if result.SourceAmountSwapped.Int64() != 100_000 || result.DynamicFee.Int64() != 300 {
		t.Fatalf("in=%s fee=%s", result.SourceAmountSwapped, result.DynamicFee)
	}
	if err := CheckInvariant(p.SwapSourceAmount, p.SwapDestinationAmount, result); err != nil {
		t.Fatal("CheckInvariant() fail", err)
	}

	back, err := SwapBaseInput(testParams(result.SourceAmountSwapped.Int64(), 1070))
	if err != nil {
		t.Fatal("SwapBaseInput() fail", err)
	}
	if back.DestinationAmountSwapped.Cmp(p.Amount) < 0 {
		t.Fatalf("base output input buys only %s", back.DestinationAmountSwapped)
	}

	drain := testParams(1_000_000, 1070)
	if _, err := SwapBaseOutput(drain); !errors.Is(err, shared.ErrMathOverflow) {
		t.Fatal("SwapBaseOutput() should fail when draining the pool", err)
	}
}

func TestSwapBaseOutputWithTransferFees(t *testing.T) {
	fee := &math.TransferFeeConfig{Older: math.TransferFee{MaxFee: 1_000_000_000, FeeBps: 100}, Newer: math.TransferFee{MaxFee: 1_000_000_000, FeeBps: 100}}
	result, err := SwapBaseOutputWithTransferFees(testParams(9900, 1070), fee, fee, 0)
	if err != nil {
		t.Fatal("SwapBaseOutputWithTransferFees() fail", err)
	}
	if result.OutputTransferAmount.Int64() != 10_000 || result.DestinationAmountSwapped.Int64() != 10_000 {
		t.Fatalf("output %s/%s", result.OutputTransferAmount, result.DestinationAmountSwapped)
	}
	if result.SourceAmountSwapped.Int64() != 10_133 || result.InputTransferAmount.Int64() != 10_235 {
		t.Fatalf("input %s/%s", result.SourceAmountSwapped, result.InputTransferAmount)
	}
}

func TestLpTokensToTradingTokens(t *testing.T) {
	floor, err := LpTokensToTradingTokens(big.NewInt(1), big.NewInt(3), big.NewInt(10), big.NewInt(20), shared.RoundDirectionFloor)
	if err != nil {
		t.Fatal("LpTokensToTradingTokens() fail", err)
	}
	if floor.Token0Amount.Int64() != 3 || floor.Token1Amount.Int64() != 6 {
		t.Fatalf("floor = %s/%s", floor.Token0Amount, floor.Token1Amount)
	}

	ceil, err := LpTokensToTradingTokens(big.NewInt(1), big.NewInt(3), big.NewInt(10), big.NewInt(21), shared.RoundDirectionCeiling)
	if err != nil {
		t.Fatal("LpTokensToTradingTokens() fail", err)
	}
	if ceil.Token0Amount.Int64() != 4 || ceil.Token1Amount.Int64() != 7 {
		t.Fatalf("ceiling = %s/%s", ceil.Token0Amount, ceil.Token1Amount)
	}

	if _, err := LpTokensToTradingTokens(big.NewInt(1), big.NewInt(100), big.NewInt(10), big.NewInt(1000), shared.RoundDirectionCeiling); !errors.Is(err, shared.ErrZeroTradingTokens) {
		t.Fatal("LpTokensToTradingTokens() should reject a zero side", err)
	}
	if _, err := LpTokensToTradingTokens(big.NewInt(1), big.NewInt(0), big.NewInt(10), big.NewInt(10), shared.RoundDirectionFloor); !errors.Is(err, shared.ErrMathOverflow) {
		t.Fatal("LpTokensToTradingTokens() zero supply", err)
	}
}

func TestSlippageChecks(t *testing.T) {
	if err := CheckMinimumOut(big.NewInt(99), big.NewInt(100)); !errors.Is(err, shared.ErrExceededSlippage) {
		t.Fatal("CheckMinimumOut() fail", err)
	}
	if err := CheckMinimumOut(big.NewInt(100), big.NewInt(100)); err != nil {
		t.Fatal("CheckMinimumOut() fail", err)
	}
	if err := CheckMaximumIn(big.NewInt(101), big.NewInt(100)); !errors.Is(err, shared.ErrExceededSlippage) {
		t.Fatal("CheckMaximumIn() fail", err)
	}
	if err := ValidateSupply(big.NewInt(0), big.NewInt(1)); !errors.Is(err, shared.ErrZeroTradingTokens) {
		t.Fatal("ValidateSupply() fail", err)
	}
}

func TestNewSwapParamsChargesImbalance(t *testing.T) {
	q32 := new(big.Int).Lsh(big.NewInt(1), 32)
	var obs states.ObservationState
	obs = obs.Update(1000, q32, q32)
	for i, price := range []*big.Int{q32, q32, new(big.Int).Lsh(q32, 1)} {
		obs = obs.Update(1000+uint64(i+1)*100, price, price)
	}
	cfg := testConfig()
	cfg.TradeFeeRate = 2500
	pool := testPool()
	pool.Token1VaultAmount = 3_000_000

	p := NewSwapParams(big.NewInt(1000), shared.TradeDirectionZeroForOne, cfg, pool, &obs, 1300, false)
	if p.FeeType != shared.FeeTypeVolatilityImbalance {
		t.Fatalf("fee type = %d", p.FeeType)
	}
	rate, err := p.dynamicFeeRate()
	if err != nil {
		t.Fatal("dynamicFeeRate() fail", err)
	}
	if rate != 3420+5000 {
		t.Fatalf("rate = %d, want volatility plus imbalance", rate)
	}

	p.FeeType = shared.FeeTypeVolatility
	if rate, err = p.dynamicFeeRate(); err != nil || rate != 3420 {
		t.Fatalf("volatility only rate=%d err=%v", rate, err)
	}
}
