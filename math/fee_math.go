package math

import (
	"errors"
	"math/big"

	"github.com/krazyTry/gamma-go/shared"
)

// CeilDiv computes ceil(amount*numerator/denominator). Fees round up.
func CeilDiv(amount, numerator, denominator *big.Int) (*big.Int, error) {
	product, err := Mul(amount, numerator)
	if err != nil {
		return nil, err
	}
	sum, err := Add(product, denominator)
	if err != nil {
		return nil, err
	}
	sum, err = Sub(sum, big.NewInt(1))
	if err != nil {
		return nil, err
	}
	return Div(sum, denominator)
}

// FloorDiv computes floor(amount*numerator/denominator).
func FloorDiv(amount, numerator, denominator *big.Int) (*big.Int, error) {
	product, err := Mul(amount, numerator)
	if err != nil {
		return nil, err
	}
	return Div(product, denominator)
}

// ProtocolFee is the protocol share of a collected trade fee. The rate is
// in parts of the fee, not of the trade.
func ProtocolFee(fee *big.Int, protocolFeeRate uint64) (*big.Int, error) {
	return staticFee(fee, protocolFeeRate)
}

// FundFee is the fund share of a collected trade fee.
func FundFee(fee *big.Int, fundFeeRate uint64) (*big.Int, error) {
	return staticFee(fee, fundFeeRate)
}

func staticFee(fee *big.Int, rate uint64) (*big.Int, error) {
	out, err := FloorDiv(fee, U128(rate), shared.FeeRateDenominatorBig)
	if err != nil {
		return nil, shared.ErrInvalidFee
	}
	return out, nil
}

// PartnerProtocolFee is the slice of the protocol fee routed to partners.
func PartnerProtocolFee(protocolFee *big.Int, partnerShareRate uint64) (*big.Int, error) {
	return FloorDiv(protocolFee, U128(partnerShareRate), shared.FeeRateDenominatorBig)
}

// ReferralResult splits an amount between a referrer and the remainder.
type ReferralResult struct {
	ReferralAmount      *big.Int
	AmountAfterReferral *big.Int
}

// ReferralAmount takes shareBps out of amount for the referrer.
func ReferralAmount(amount *big.Int, shareBps uint16) (ReferralResult, error) {
	if shareBps > shared.ReferralShareBps {
		return ReferralResult{}, errors.New("referral share exceeds 100%")
	}
	referral, err := FloorDiv(amount, big.NewInt(int64(shareBps)), big.NewInt(shared.ReferralShareBps))
	if err != nil {
		return ReferralResult{}, err
	}
	after, err := Sub(amount, referral)
	if err != nil {
		after = big.NewInt(0)
	}
	return ReferralResult{ReferralAmount: referral, AmountAfterReferral: after}, nil
}

// ValidateFeeRates checks the config-time fee invariants.
func ValidateFeeRates(tradeFeeRate, protocolFeeRate, fundFeeRate uint64) error {
	if tradeFeeRate >= shared.FeeRateDenominator ||
		protocolFeeRate >= shared.FeeRateDenominator ||
		fundFeeRate >= shared.FeeRateDenominator {
		return shared.ErrInvalidFee
	}
	if protocolFeeRate+fundFeeRate > shared.FeeRateDenominator {
		return shared.ErrInvalidFee
	}
	return nil
}
