package states

import (
	"math/big"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/u128"
)

// Observation is one sample of the cumulative Q32 prices. Accumulators
// wrap modulo 2^128; only differences between samples are meaningful.
type Observation struct {
	BlockTimestamp           uint64
	CumulativeToken0PriceX32 binary.Uint128
	CumulativeToken1PriceX32 binary.Uint128
}

func (o *Observation) UnmarshalWithDecoder(dec *binary.Decoder) error {
	return DecodeFields(dec, &o.BlockTimestamp, &o.CumulativeToken0PriceX32, &o.CumulativeToken1PriceX32)
}

func (o Observation) MarshalWithEncoder(enc *binary.Encoder) error {
	return EncodeFields(enc, o.BlockTimestamp, o.CumulativeToken0PriceX32, o.CumulativeToken1PriceX32)
}

type ObservationState struct {
	Initialized      bool
	ObservationIndex uint16
	PoolID           solanago.PublicKey
	Observations     [shared.ObservationNum]Observation
	Padding          [4]uint64
}

// Update records the prices in effect since the last sample and returns
// the new state. Two updates within the same second keep the first.
func (s ObservationState) Update(blockTimestamp uint64, token0PriceX32, token1PriceX32 *big.Int) ObservationState {
	next := s
	idx := next.ObservationIndex
	if !next.Initialized {
		next.Initialized = true
		next.Observations[idx] = Observation{
			BlockTimestamp:           blockTimestamp,
			CumulativeToken0PriceX32: u128.FromUint64(0),
			CumulativeToken1PriceX32: u128.FromUint64(0),
		}
		return next
	}

	last := next.Observations[idx]
	if blockTimestamp <= last.BlockTimestamp {
		return next
	}
	delta := blockTimestamp - last.BlockTimestamp

	nextIdx := idx + 1
	if int(nextIdx) == shared.ObservationNum {
		nextIdx = 0
	}
	next.Observations[nextIdx] = Observation{
		BlockTimestamp:           blockTimestamp,
		CumulativeToken0PriceX32: accumulate(last.CumulativeToken0PriceX32, token0PriceX32, delta),
		CumulativeToken1PriceX32: accumulate(last.CumulativeToken1PriceX32, token1PriceX32, delta),
	}
	next.ObservationIndex = nextIdx
	return next
}

func accumulate(cumulative binary.Uint128, price *big.Int, delta uint64) binary.Uint128 {
	p := uint128.FromBig(new(big.Int).And(price, shared.MaxU128))
	return u128.FromWrapping(u128.Wrapping(cumulative).AddWrap(p.MulWrap64(delta)))
}

// Ordered returns the populated observations from oldest to newest.
func (s *ObservationState) Ordered() []Observation {
	if !s.Initialized {
		return nil
	}
	out := make([]Observation, 0, shared.ObservationNum)
	for i := 1; i <= shared.ObservationNum; i++ {
		o := s.Observations[(int(s.ObservationIndex)+i)%shared.ObservationNum]
		if o.BlockTimestamp != 0 {
			out = append(out, o)
		}
	}
	return out
}

// Latest returns the most recent observation.
func (s *ObservationState) Latest() (Observation, bool) {
	if !s.Initialized {
		return Observation{}, false
	}
	return s.Observations[s.ObservationIndex], true
}

func (s *ObservationState) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := ReadDiscriminator(dec, ObservationStateDiscriminator); err != nil {
		return err
	}
	if err := DecodeFields(dec, &s.Initialized, &s.ObservationIndex, &s.PoolID); err != nil {
		return err
	}
	if int(s.ObservationIndex) >= shared.ObservationNum {
		return shared.ErrInvalidAccountData
	}
	for i := range s.Observations {
		if err := s.Observations[i].UnmarshalWithDecoder(dec); err != nil {
			return err
		}
	}
	return dec.Decode(&s.Padding)
}

func (s ObservationState) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(ObservationStateDiscriminator[:], false); err != nil {
		return err
	}
	if err := EncodeFields(enc, s.Initialized, s.ObservationIndex, s.PoolID); err != nil {
		return err
	}
	for _, o := range s.Observations {
		if err := o.MarshalWithEncoder(enc); err != nil {
			return err
		}
	}
	return enc.Encode(s.Padding)
}

func (s ObservationState) Marshal() ([]byte, error) {
	return MarshalAccount(s)
}
