package curve

import (
	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
)

// ReferralShare routes part of the protocol and fund fees to a referrer.
type ReferralShare struct {
	ShareBps uint16
}

// Settle turns a swap result into the pool counters the caller applies.
// Referral comes out of the protocol and fund fees first, then partners
// take PartnerShareRate of what is left of the protocol fee.
func Settle(pool *states.PoolState, result shared.SwapResult, direction shared.TradeDirection, referral *ReferralShare) (states.PoolDelta, error) {
	protocolFee, err := math.ToU64(result.ProtocolFee)
	if err != nil {
		return states.PoolDelta{}, err
	}
	fundFee, err := math.ToU64(result.FundFee)
	if err != nil {
		return states.PoolDelta{}, err
	}
	amountIn, err := math.ToU64(result.SourceAmountSwapped)
	if err != nil {
		return states.PoolDelta{}, err
	}
	amountOut, err := math.ToU64(result.DestinationAmountSwapped)
	if err != nil {
		return states.PoolDelta{}, err
	}

	var referralAmount uint64
	if referral != nil {
		fromProtocol, err := math.ReferralAmount(result.ProtocolFee, referral.ShareBps)
		if err != nil {
			return states.PoolDelta{}, err
		}
		fromFund, err := math.ReferralAmount(result.FundFee, referral.ShareBps)
		if err != nil {
			return states.PoolDelta{}, err
		}
		total, err := math.Add(fromProtocol.ReferralAmount, fromFund.ReferralAmount)
		if err != nil {
			return states.PoolDelta{}, err
		}
		if total.Sign() != 0 {
			referralAmount = total.Uint64()
			protocolFee = fromProtocol.AmountAfterReferral.Uint64()
			fundFee = fromFund.AmountAfterReferral.Uint64()
			if referralAmount > amountIn {
				return states.PoolDelta{}, shared.ErrMathOverflow
			}
			amountIn -= referralAmount
		}
	}

	partner, err := math.PartnerProtocolFee(math.U128(protocolFee), pool.PartnerShareRate)
	if err != nil {
		return states.PoolDelta{}, err
	}
	partnerFee, err := math.ToU64(partner)
	if err != nil {
		return states.PoolDelta{}, shared.ErrMathError
	}
	if partnerFee > protocolFee {
		return states.PoolDelta{}, shared.ErrMathOverflow
	}

	return states.PoolDelta{
		Direction:            direction,
		ProtocolFee:          protocolFee - partnerFee,
		PartnerProtocolFee:   partnerFee,
		FundFee:              fundFee,
		ReferralAmount:       referralAmount,
		TradeFee:             result.DynamicFee,
		AmountIn:             amountIn,
		AmountOut:            amountOut,
		LatestDynamicFeeRate: result.DynamicFeeRate,
	}, nil
}
