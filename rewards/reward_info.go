package rewards

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/shared"
)

// RewardInfo is one linearly emitted reward stream.
type RewardInfo struct {
	StartAt           uint64
	EndRewardsAt      uint64
	Mint              solanago.PublicKey
	TotalToDisburse   uint64
	EmissionPerSecond uint64
	TotalLeftInEscrow uint64
	RewardedBy        solanago.PublicKey
}

// NewRewardInfo creates a stream paying amount evenly over [start, end].
// A stream may not be scheduled more than MaxRewardDelay ahead of now.
func NewRewardInfo(start, end, amount, now uint64) (RewardInfo, error) {
	if start > end {
		return RewardInfo{}, shared.ErrInvalidRewardTime
	}
	if start > now+shared.MaxRewardDelay {
		return RewardInfo{}, shared.ErrInvalidRewardTime
	}
	if end == start {
		return RewardInfo{}, shared.ErrMathOverflow
	}
	return RewardInfo{
		StartAt:           start,
		EndRewardsAt:      end,
		TotalToDisburse:   amount,
		EmissionPerSecond: amount / (end - start),
		TotalLeftInEscrow: amount,
	}, nil
}

// IsActive reports whether the stream still accrues or still owes tokens.
// A stream that has not started yet is active.
func (r *RewardInfo) IsActive(now uint64) bool {
	return r.EndRewardsAt > now || r.TotalLeftInEscrow > 0
}
