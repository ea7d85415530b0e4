package curve

import (
	"math/big"
	"testing"

	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/u128"
)

func TestAmountToBeSwappedAtOraclePrice(t *testing.T) {
	got, err := AmountToBeSwappedAtOraclePrice(
		big.NewInt(100), big.NewInt(1000), big.NewInt(500),
		big.NewInt(1_000_000_000), big.NewInt(1_050_000_000), 50_000, 100_000,
	)
	if err != nil {
		t.Fatal("AmountToBeSwappedAtOraclePrice() fail", err)
	}
	if got.Int64() != 100 {
		t.Fatalf("tranche = %s", got)
	}

	// The reserve share caps the tranche however large the trade is.
	for _, amount := range []int64{101, 10_000, 1_000_000_000} {
		got, err := AmountToBeSwappedAtOraclePrice(
			big.NewInt(amount), big.NewInt(1000), big.NewInt(500),
			big.NewInt(1_000_000_000), big.NewInt(1_050_000_000), 50_000, 100_000,
		)
		if err != nil {
			t.Fatal("AmountToBeSwappedAtOraclePrice() fail", err)
		}
		if got.Int64() > 100 {
			t.Fatalf("amount=%d tranche=%s", amount, got)
		}
	}

	if _, err := AmountToBeSwappedAtOraclePrice(big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(1), shared.FeeRateDenominator+1, 0); err == nil {
		t.Fatal("acceptable difference above 100% should overflow")
	}
}

func TestOracleSwapBaseInput(t *testing.T) {
	p := testParams(100_000, 1050)
	result, decision, err := OracleSwapBaseInput(p)
	if err != nil {
		t.Fatal("OracleSwapBaseInput() fail", err)
	}
	if decision.Kind != DecisionOracleBlend || decision.OracleTranche.Int64() != 25_641 || decision.CurveTranche.Int64() != 74_359 {
		t.Fatalf("decision = %+v", decision)
	}
	if result.DestinationAmountSwapped.Int64() != 98_099 {
		t.Fatalf("out = %s", result.DestinationAmountSwapped)
	}
	if result.DynamicFee.Int64() != 301 || result.DynamicFeeRate != 3010 {
		t.Fatalf("fee=%s rate=%d", result.DynamicFee, result.DynamicFeeRate)
	}
	if result.ProtocolFee.Int64() != 30 || result.FundFee.Int64() != 30 {
		t.Fatalf("protocol=%s fund=%s", result.ProtocolFee, result.FundFee)
	}
	if result.NewSwapSourceAmount.Int64() != 1_100_000 || result.NewSwapDestinationAmount.Int64() != 901_901 {
		t.Fatalf("new reserves %s/%s", result.NewSwapSourceAmount, result.NewSwapDestinationAmount)
	}
}

// The curve leg is priced with the oracle fill removed from the source
// reserve and credited to the destination reserve.
func TestOracleSwapCurveLegReserves(t *testing.T) {
	p := testParams(100_000, 1050)
	result, decision, err := OracleSwapBaseInput(p)
	if err != nil {
		t.Fatal("OracleSwapBaseInput() fail", err)
	}

	oracleIn := new(big.Int).Sub(decision.OracleTranche, big.NewInt(77))
	oracleOut := new(big.Int).Quo(new(big.Int).Mul(oracleIn, big.NewInt(1_001_000_000)), big.NewInt(1_000_000_000))
	curveIn := new(big.Int).Sub(decision.CurveTranche, big.NewInt(224))
	curveOut, err := SwapBaseInputWithoutFees(curveIn,
		new(big.Int).Sub(p.SwapSourceAmount, oracleIn),
		new(big.Int).Add(p.SwapDestinationAmount, oracleOut))
	if err != nil {
		t.Fatal("SwapBaseInputWithoutFees() fail", err)
	}
	want := new(big.Int).Add(oracleOut, curveOut)
	if result.DestinationAmountSwapped.Cmp(want) != 0 {
		t.Fatalf("out = %s, want %s", result.DestinationAmountSwapped, want)
	}
	if oracleOut.Int64() != 25_589 || curveOut.Int64() != 72_510 {
		t.Fatalf("oracle leg %s curve leg %s", oracleOut, curveOut)
	}
}

func TestDecideFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		now    uint64
		mutate func(p *SwapParams)
		reason FallbackReason
	}{
		{"stale", 1070, func(p *SwapParams) {}, FallbackStale},
		{"future", 999, func(p *SwapParams) {}, FallbackStale},
		{"never updated", 1050, func(p *SwapParams) { p.Pool.OraclePriceUpdatedAt = 0 }, FallbackAbsent},
		{"zero price", 1050, func(p *SwapParams) { p.Pool.OraclePriceToken0ByToken1 = u128.FromUint64(0) }, FallbackAbsent},
		{"deviation", 1050, func(p *SwapParams) { p.Pool.OraclePriceToken0ByToken1 = u128.FromUint64(2_000_000_000) }, FallbackDeviation},
		{"zero tranche", 1050, func(p *SwapParams) { p.Pool.MaxAmountSwappableAtOraclePrice = 0 }, FallbackZeroTranche},
	}
	for _, c := range cases {
		p := testParams(100_000, c.now)
		c.mutate(&p)

		decision, err := Decide(p)
		if err != nil {
			t.Fatal(c.name, "Decide() fail", err)
		}
		if decision.Kind != DecisionCurveOnly || decision.Reason != c.reason {
			t.Fatalf("%s: decision=%v reason=%s", c.name, decision.Kind, decision.Reason)
		}

		oracle, _, err := OracleSwapBaseInput(p)
		if err != nil {
			t.Fatal(c.name, "OracleSwapBaseInput() fail", err)
		}
		plain, err := SwapBaseInput(p)
		if err != nil {
			t.Fatal(c.name, "SwapBaseInput() fail", err)
		}
		if oracle.DestinationAmountSwapped.Cmp(plain.DestinationAmountSwapped) != 0 ||
			oracle.DynamicFee.Cmp(plain.DynamicFee) != 0 ||
			oracle.NewSwapDestinationAmount.Cmp(plain.NewSwapDestinationAmount) != 0 ||
			oracle.DynamicFeeRate != plain.DynamicFeeRate {
			t.Fatalf("%s: fallback differs from curve", c.name)
		}
	}
}

func TestOracleSwapOneForZero(t *testing.T) {
	p := testParams(50_000, 1050)
	p.Direction = shared.TradeDirectionOneForZero
	p.SwapSourceAmount, p.SwapDestinationAmount = p.Pool.Reserves(shared.TradeDirectionOneForZero)

	result, decision, err := OracleSwapBaseInput(p)
	if err != nil {
		t.Fatal("OracleSwapBaseInput() fail", err)
	}
	if decision.Kind != DecisionOracleBlend {
		t.Fatalf("reason = %s", decision.Reason)
	}
	if decision.OracleTranche.Int64() != 25_641 || result.DynamicFee.Int64() != 151 {
		t.Fatalf("tranche=%s fee=%s", decision.OracleTranche, result.DynamicFee)
	}
	if result.NewSwapDestinationAmount.Sign() <= 0 || result.NewSwapSourceAmount.Int64() != 1_050_000 {
		t.Fatalf("new reserves %s/%s", result.NewSwapSourceAmount, result.NewSwapDestinationAmount)
	}
	if result.DynamicFeeRate < 3000 {
		t.Fatalf("effective rate %d below the curve rate", result.DynamicFeeRate)
	}
}
