package shared

import (
	"math/big"
)

// Enums and common types shared by math, curve and the account states.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

// RoundDirection selects how LP conversions round.
type RoundDirection uint8

const (
	// RoundDirectionFloor is used on withdraw.
	RoundDirectionFloor RoundDirection = 0
	// RoundDirectionCeiling is used on deposit.
	RoundDirectionCeiling RoundDirection = 1
)

type TradeDirection uint8

const (
	TradeDirectionZeroForOne TradeDirection = 0
	TradeDirectionOneForZero TradeDirection = 1
)

func (d TradeDirection) String() string {
	switch d {
	case TradeDirectionZeroForOne:
		return "ZeroForOne"
	case TradeDirectionOneForZero:
		return "OneForZero"
	default:
		return "Unknown"
	}
}

// Opposite returns the reverse trade direction.
func (d TradeDirection) Opposite() TradeDirection {
	if d == TradeDirectionZeroForOne {
		return TradeDirectionOneForZero
	}
	return TradeDirectionZeroForOne
}

// FeeType selects the dynamic fee formula.
type FeeType uint8

const (
	FeeTypeVolatility          FeeType = 0
	FeeTypeVolatilityImbalance FeeType = 1
	FeeTypeRange               FeeType = 2

	// DefaultFeeType is the formula the on-chain program charges.
	DefaultFeeType = FeeTypeVolatilityImbalance
)

type PoolStatusBitIndex uint8

const (
	PoolStatusBitDeposit  PoolStatusBitIndex = 0
	PoolStatusBitWithdraw PoolStatusBitIndex = 1
	PoolStatusBitSwap     PoolStatusBitIndex = 2
)

// SwapResult is produced by every swap calculator. Amounts are in the
// pool's native units.
type SwapResult struct {
	NewSwapSourceAmount      *big.Int
	NewSwapDestinationAmount *big.Int
	SourceAmountSwapped      *big.Int
	DestinationAmountSwapped *big.Int
	DynamicFee               *big.Int
	ProtocolFee              *big.Int
	FundFee                  *big.Int
	DynamicFeeRate           uint64
}

// TradingTokenResult is the token pair backing an LP amount.
type TradingTokenResult struct {
	Token0Amount *big.Int
	Token1Amount *big.Int
}

const (
	FeeRateDenominator = 1_000_000

	// D9 is the fixed-point scale of oracle and spot prices.
	D9 = 1_000_000_000

	MaxFee           = 100_000
	VolatilityFactor = 30_000
	ImbalanceFactor  = 20_000
	VolatilityWindow = 3600
	MaxFeeVolatility = 10_000

	ObservationNum = 100

	MaxRewards     = 3
	PartnerSize    = 5
	MaxNameLen     = 20
	SecondsInADay  = 86_400
	MaxRewardDelay = 5 * SecondsInADay

	ReferralShareBps  = 10_000
	TransferFeeBpsMax = 10_000
)

var (
	MaxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	U64Max  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))

	FeeRateDenominatorBig = big.NewInt(FeeRateDenominator)
	D9Big                 = big.NewInt(D9)
	D9TimesD9             = new(big.Int).Mul(big.NewInt(D9), big.NewInt(D9))
)
