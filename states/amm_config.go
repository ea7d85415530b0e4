package states

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/math"
)

// AmmConfig holds the fee schedule and oracle limits shared by every pool
// created under it.
type AmmConfig struct {
	Bump              uint8
	DisableCreatePool bool
	Index             uint16

	// Rates are parts per shared.FeeRateDenominator. Protocol and fund rates
	// apply to the collected trade fee, not to the trade amount.
	TradeFeeRate    uint64
	ProtocolFeeRate uint64
	FundFeeRate     uint64
	CreatePoolFee   uint64

	ProtocolOwner solanago.PublicKey
	FundOwner     solanago.PublicKey

	MaxOpenTime                  uint64
	MaxOraclePriceUpdateTimeDiff uint64

	ReferralProject solanago.PublicKey
	Padding         [14]uint64
}

// Validate checks the config-time fee invariants.
func (c *AmmConfig) Validate() error {
	return math.ValidateFeeRates(c.TradeFeeRate, c.ProtocolFeeRate, c.FundFeeRate)
}

func (c *AmmConfig) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := ReadDiscriminator(dec, AmmConfigDiscriminator); err != nil {
		return err
	}
	return DecodeFields(dec,
		&c.Bump, &c.DisableCreatePool, &c.Index,
		&c.TradeFeeRate, &c.ProtocolFeeRate, &c.FundFeeRate, &c.CreatePoolFee,
		&c.ProtocolOwner, &c.FundOwner,
		&c.MaxOpenTime, &c.MaxOraclePriceUpdateTimeDiff,
		&c.ReferralProject, &c.Padding,
	)
}

func (c AmmConfig) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(AmmConfigDiscriminator[:], false); err != nil {
		return err
	}
	return EncodeFields(enc,
		c.Bump, c.DisableCreatePool, c.Index,
		c.TradeFeeRate, c.ProtocolFeeRate, c.FundFeeRate, c.CreatePoolFee,
		c.ProtocolOwner, c.FundOwner,
		c.MaxOpenTime, c.MaxOraclePriceUpdateTimeDiff,
		c.ReferralProject, c.Padding,
	)
}

// Marshal encodes the account including its discriminator.
func (c AmmConfig) Marshal() ([]byte, error) {
	return MarshalAccount(c)
}
