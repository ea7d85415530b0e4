package states

import (
	"math/big"
	"testing"

	"github.com/krazyTry/gamma-go/shared"
)

func TestObservationUpdate(t *testing.T) {
	var state ObservationState
	price := big.NewInt(1 << 32)

	state = state.Update(100, price, price)
	if !state.Initialized || state.ObservationIndex != 0 || state.Observations[0].BlockTimestamp != 100 {
		t.Fatal("first Update() should initialize slot 0")
	}

	same := state.Update(100, price, price)
	if same.ObservationIndex != 0 {
		t.Fatal("Update() with zero elapsed time should be a no-op")
	}

	state = state.Update(110, price, big.NewInt(2<<32))
	if state.ObservationIndex != 1 {
		t.Fatalf("index = %d", state.ObservationIndex)
	}
	obs := state.Observations[1]
	if obs.CumulativeToken0PriceX32.BigInt().Cmp(new(big.Int).Lsh(big.NewInt(10), 32)) != 0 {
		t.Fatalf("cumulative0 = %s", obs.CumulativeToken0PriceX32.BigInt())
	}
	if obs.CumulativeToken1PriceX32.BigInt().Cmp(new(big.Int).Lsh(big.NewInt(20), 32)) != 0 {
		t.Fatalf("cumulative1 = %s", obs.CumulativeToken1PriceX32.BigInt())
	}
}

func TestObservationWrap(t *testing.T) {
	var state ObservationState
	price := big.NewInt(1 << 32)
	for i := 0; i < shared.ObservationNum+5; i++ {
		state = state.Update(uint64(1000+i), price, price)
	}
	if state.ObservationIndex != 4 {
		t.Fatalf("index = %d", state.ObservationIndex)
	}
	ordered := state.Ordered()
	if len(ordered) != shared.ObservationNum {
		t.Fatalf("len = %d", len(ordered))
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].BlockTimestamp <= ordered[i-1].BlockTimestamp {
			t.Fatalf("not ordered at %d", i)
		}
	}
	if ordered[len(ordered)-1].BlockTimestamp != uint64(1000+shared.ObservationNum+4) {
		t.Fatal("newest observation should be last")
	}
	latest, ok := state.Latest()
	if !ok || latest.BlockTimestamp != ordered[len(ordered)-1].BlockTimestamp {
		t.Fatal("Latest() fail")
	}
}

func TestObservationAccumulatorWraps(t *testing.T) {
	var state ObservationState
	huge := new(big.Int).Lsh(big.NewInt(1), 127)
	state = state.Update(1, huge, huge)
	state = state.Update(3, huge, huge)
	// 2^127 * 2 wraps to zero.
	if state.Observations[1].CumulativeToken0PriceX32.BigInt().Sign() != 0 {
		t.Fatalf("cumulative = %s", state.Observations[1].CumulativeToken0PriceX32.BigInt())
	}
}

func TestObservationStateCodec(t *testing.T) {
	var state ObservationState
	for i := 0; i < 3; i++ {
		state = state.Update(uint64(50+i*10), big.NewInt(3<<32), big.NewInt(1<<31))
	}
	data, err := state.Marshal()
	if err != nil {
		t.Fatal("state.Marshal() fail", err)
	}
	decoded, err := DecodeObservationState(data)
	if err != nil {
		t.Fatal("DecodeObservationState() fail", err)
	}
	if decoded.ObservationIndex != 2 || len(decoded.Ordered()) != 3 {
		t.Fatal("DecodeObservationState() mismatch")
	}
	if decoded.Observations[2].CumulativeToken0PriceX32.BigInt().Cmp(state.Observations[2].CumulativeToken0PriceX32.BigInt()) != 0 {
		t.Fatal("accumulator mismatch")
	}
}
