package math

import (
	"math/big"

	"github.com/krazyTry/gamma-go/shared"
)

// TransferFee is one epoch entry of a token-2022 transfer fee config.
type TransferFee struct {
	Epoch  uint64
	MaxFee uint64
	FeeBps uint16
}

// TransferFeeConfig carries the older and newer fee schedules of a mint.
// A nil *TransferFeeConfig means the mint charges no transfer fee.
type TransferFeeConfig struct {
	WithheldAmount uint64
	Older          TransferFee
	Newer          TransferFee
}

// FeeForEpoch returns the older fee until the newer one becomes effective.
func (c *TransferFeeConfig) FeeForEpoch(epoch uint64) TransferFee {
	if epoch < c.Newer.Epoch {
		return c.Older
	}
	return c.Newer
}

type TransferFeeIncludedAmount struct {
	Amount      *big.Int
	TransferFee *big.Int
}

type TransferFeeExcludedAmount struct {
	Amount      *big.Int
	TransferFee *big.Int
}

func transferPreFeeAmount(fee TransferFee, postFeeAmount *big.Int) *big.Int {
	maximumFee := U128(fee.MaxFee)
	if postFeeAmount.Sign() == 0 {
		return big.NewInt(0)
	}
	if fee.FeeBps == 0 {
		return new(big.Int).Set(postFeeAmount)
	}
	if fee.FeeBps == shared.TransferFeeBpsMax {
		return new(big.Int).Add(postFeeAmount, maximumFee)
	}
	oneInBps := big.NewInt(shared.TransferFeeBpsMax)
	numerator := new(big.Int).Mul(postFeeAmount, oneInBps)
	denominator := new(big.Int).Sub(oneInBps, big.NewInt(int64(fee.FeeBps)))
	raw := new(big.Int).Add(numerator, denominator)
	raw.Sub(raw, big.NewInt(1))
	raw.Quo(raw, denominator)

	if new(big.Int).Sub(raw, postFeeAmount).Cmp(maximumFee) >= 0 {
		return new(big.Int).Add(postFeeAmount, maximumFee)
	}
	return raw
}

// TransferFeeAmount is the fee withheld when amount is transferred.
func TransferFeeAmount(fee TransferFee, amount *big.Int) *big.Int {
	if fee.FeeBps == 0 || amount.Sign() == 0 {
		return big.NewInt(0)
	}
	maximumFee := U128(fee.MaxFee)
	if fee.FeeBps == shared.TransferFeeBpsMax {
		return maximumFee
	}
	out := new(big.Int).Mul(amount, big.NewInt(int64(fee.FeeBps)))
	out.Quo(out, big.NewInt(shared.TransferFeeBpsMax))
	if out.Cmp(maximumFee) > 0 {
		return maximumFee
	}
	return out
}

// TransferInverseFee is the fee that must be added to postFeeAmount so the
// receiver still gets postFeeAmount.
func TransferInverseFee(fee TransferFee, postFeeAmount *big.Int) *big.Int {
	return TransferFeeAmount(fee, transferPreFeeAmount(fee, postFeeAmount))
}

func CalculateTransferFeeIncludedAmount(excluded *big.Int, cfg *TransferFeeConfig, epoch uint64) TransferFeeIncludedAmount {
	if excluded.Sign() == 0 {
		return TransferFeeIncludedAmount{Amount: big.NewInt(0), TransferFee: big.NewInt(0)}
	}
	if cfg == nil {
		return TransferFeeIncludedAmount{Amount: new(big.Int).Set(excluded), TransferFee: big.NewInt(0)}
	}
	fee := TransferInverseFee(cfg.FeeForEpoch(epoch), excluded)
	return TransferFeeIncludedAmount{Amount: new(big.Int).Add(excluded, fee), TransferFee: fee}
}

func CalculateTransferFeeExcludedAmount(included *big.Int, cfg *TransferFeeConfig, epoch uint64) TransferFeeExcludedAmount {
	if cfg == nil {
		return TransferFeeExcludedAmount{Amount: new(big.Int).Set(included), TransferFee: big.NewInt(0)}
	}
	fee := TransferFeeAmount(cfg.FeeForEpoch(epoch), included)
	return TransferFeeExcludedAmount{Amount: new(big.Int).Sub(included, fee), TransferFee: fee}
}
