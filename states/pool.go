package states

import (
	"math/big"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/u128"
)

type PoolState struct {
	AmmConfig      solanago.PublicKey
	PoolCreator    solanago.PublicKey
	Token0Vault    solanago.PublicKey
	Token1Vault    solanago.PublicKey
	LpMint         solanago.PublicKey
	Token0Mint     solanago.PublicKey
	Token1Mint     solanago.PublicKey
	Token0Program  solanago.PublicKey
	Token1Program  solanago.PublicKey
	ObservationKey solanago.PublicKey

	AuthBump       uint8
	Status         uint8
	LpMintDecimals uint8
	Mint0Decimals  uint8
	Mint1Decimals  uint8

	LpSupply uint64

	ProtocolFeesToken0 uint64
	ProtocolFeesToken1 uint64
	FundFeesToken0     uint64
	FundFeesToken1     uint64

	OpenTime    uint64
	RecentEpoch uint64

	CumulativeTradeFeesToken0 binary.Uint128
	CumulativeTradeFeesToken1 binary.Uint128
	CumulativeVolumeToken0    binary.Uint128
	CumulativeVolumeToken1    binary.Uint128

	FilterRealVolume     bool
	LatestDynamicFeeRate uint64

	Token0VaultAmount uint64
	Token1VaultAmount uint64

	MaxTradeFeeRate  uint64
	PartnerShareRate uint64

	PartnerProtocolFeesToken0 uint64
	PartnerProtocolFeesToken1 uint64

	// D9 fixed point.
	OraclePriceToken0ByToken1 binary.Uint128
	OraclePriceUpdatedAt      uint64

	AcceptablePriceDifference        uint64
	MaxAmountSwappableAtOraclePrice  uint64
	MinTradeRateAtOraclePrice        uint64
	PricePremiumForSwapAtOraclePrice uint64

	Token0AmountInYield uint64
	Token1AmountInYield uint64

	Padding [16]uint64
}

// VaultAmountWithoutFee returns the reserves that back the curve, net of
// amounts deployed to a yield venue.
func (p *PoolState) VaultAmountWithoutFee() (uint64, uint64, error) {
	if p.Token0AmountInYield > p.Token0VaultAmount || p.Token1AmountInYield > p.Token1VaultAmount {
		return 0, 0, shared.ErrMathOverflow
	}
	return p.Token0VaultAmount - p.Token0AmountInYield, p.Token1VaultAmount - p.Token1AmountInYield, nil
}

// TokenPriceX32 returns token1/token0 and token0/token1 in Q32.
func (p *PoolState) TokenPriceX32() (*big.Int, *big.Int, error) {
	v0, v1, err := p.VaultAmountWithoutFee()
	if err != nil {
		return nil, nil, err
	}
	t0, t1 := math.U128(v0), math.U128(v1)
	price0, err := math.Div(new(big.Int).Lsh(t1, 32), t0)
	if err != nil {
		return nil, nil, err
	}
	price1, err := math.Div(new(big.Int).Lsh(t0, 32), t1)
	if err != nil {
		return nil, nil, err
	}
	return price0, price1, nil
}

// GetStatusByBit reports whether the operation is enabled. A set bit
// disables it.
func (p *PoolState) GetStatusByBit(bit shared.PoolStatusBitIndex) bool {
	return p.Status&(1<<uint8(bit)) == 0
}

// SetStatusByBit enables or disables an operation.
func (p *PoolState) SetStatusByBit(bit shared.PoolStatusBitIndex, enabled bool) {
	if enabled {
		p.Status &^= 1 << uint8(bit)
	} else {
		p.Status |= 1 << uint8(bit)
	}
}

// Reserves returns the (source, destination) vault amounts for a trade.
func (p *PoolState) Reserves(direction shared.TradeDirection) (*big.Int, *big.Int) {
	if direction == shared.TradeDirectionZeroForOne {
		return math.U128(p.Token0VaultAmount), math.U128(p.Token1VaultAmount)
	}
	return math.U128(p.Token1VaultAmount), math.U128(p.Token0VaultAmount)
}

// PoolDelta is the settlement of a single swap against the pool. Amounts
// are on the input side unless named otherwise.
type PoolDelta struct {
	Direction shared.TradeDirection

	ProtocolFee        uint64
	PartnerProtocolFee uint64
	FundFee            uint64
	ReferralAmount     uint64

	TradeFee *big.Int
	// AmountIn is what stays with the pool after the referral payout.
	AmountIn  uint64
	AmountOut uint64

	LatestDynamicFeeRate uint64
}

// ApplyDelta returns a copy of the pool with the swap settlement applied.
func (p PoolState) ApplyDelta(d PoolDelta) (PoolState, error) {
	next := p
	var err error

	in, out := &next.Token0VaultAmount, &next.Token1VaultAmount
	protocol, partner, fund := &next.ProtocolFeesToken0, &next.PartnerProtocolFeesToken0, &next.FundFeesToken0
	tradeFees, volIn, volOut := &next.CumulativeTradeFeesToken0, &next.CumulativeVolumeToken0, &next.CumulativeVolumeToken1
	if d.Direction == shared.TradeDirectionOneForZero {
		in, out = &next.Token1VaultAmount, &next.Token0VaultAmount
		protocol, partner, fund = &next.ProtocolFeesToken1, &next.PartnerProtocolFeesToken1, &next.FundFeesToken1
		tradeFees, volIn, volOut = &next.CumulativeTradeFeesToken1, &next.CumulativeVolumeToken1, &next.CumulativeVolumeToken0
	}

	if *protocol, err = math.AddU64(*protocol, d.ProtocolFee); err != nil {
		return p, err
	}
	if *partner, err = math.AddU64(*partner, d.PartnerProtocolFee); err != nil {
		return p, err
	}
	if *fund, err = math.AddU64(*fund, d.FundFee); err != nil {
		return p, err
	}
	tradeFee := d.TradeFee
	if tradeFee == nil {
		tradeFee = big.NewInt(0)
	}
	if *tradeFees, err = addU128(*tradeFees, tradeFee); err != nil {
		return p, err
	}
	if *volIn, err = addU128(*volIn, math.U128(d.AmountIn)); err != nil {
		return p, err
	}
	if *volOut, err = addU128(*volOut, math.U128(d.AmountOut)); err != nil {
		return p, err
	}

	vaultIn, err := math.AddU64(*in, d.AmountIn)
	if err != nil {
		return p, err
	}
	if d.FundFee+d.ProtocolFee < d.FundFee || d.FundFee+d.ProtocolFee > vaultIn {
		return p, shared.ErrMathOverflow
	}
	*in = vaultIn - d.FundFee - d.ProtocolFee
	if d.AmountOut > *out {
		return p, shared.ErrMathOverflow
	}
	*out -= d.AmountOut

	next.LatestDynamicFeeRate = d.LatestDynamicFeeRate
	return next, nil
}

func addU128(a binary.Uint128, b *big.Int) (binary.Uint128, error) {
	sum, err := math.Add(a.BigInt(), b)
	if err != nil {
		return a, err
	}
	return u128.FromBig(sum), nil
}

func (p *PoolState) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := ReadDiscriminator(dec, PoolStateDiscriminator); err != nil {
		return err
	}
	return DecodeFields(dec, p.fields()...)
}

func (p PoolState) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(PoolStateDiscriminator[:], false); err != nil {
		return err
	}
	return EncodeFields(enc, p.fields()...)
}

func (p PoolState) Marshal() ([]byte, error) {
	return MarshalAccount(p)
}

// fields lists the account layout in order.
func (p *PoolState) fields() []interface{} {
	return []interface{}{
		&p.AmmConfig, &p.PoolCreator, &p.Token0Vault, &p.Token1Vault, &p.LpMint,
		&p.Token0Mint, &p.Token1Mint, &p.Token0Program, &p.Token1Program, &p.ObservationKey,
		&p.AuthBump, &p.Status, &p.LpMintDecimals, &p.Mint0Decimals, &p.Mint1Decimals,
		&p.LpSupply,
		&p.ProtocolFeesToken0, &p.ProtocolFeesToken1, &p.FundFeesToken0, &p.FundFeesToken1,
		&p.OpenTime, &p.RecentEpoch,
		&p.CumulativeTradeFeesToken0, &p.CumulativeTradeFeesToken1,
		&p.CumulativeVolumeToken0, &p.CumulativeVolumeToken1,
		&p.FilterRealVolume, &p.LatestDynamicFeeRate,
		&p.Token0VaultAmount, &p.Token1VaultAmount,
		&p.MaxTradeFeeRate, &p.PartnerShareRate,
		&p.PartnerProtocolFeesToken0, &p.PartnerProtocolFeesToken1,
		&p.OraclePriceToken0ByToken1, &p.OraclePriceUpdatedAt,
		&p.AcceptablePriceDifference, &p.MaxAmountSwappableAtOraclePrice,
		&p.MinTradeRateAtOraclePrice, &p.PricePremiumForSwapAtOraclePrice,
		&p.Token0AmountInYield, &p.Token1AmountInYield,
		&p.Padding,
	}
}
