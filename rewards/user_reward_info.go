package rewards

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
)

// UserRewardInfo is one user's position in one reward stream.
type UserRewardInfo struct {
	UserPoolLpAccount       solanago.PublicKey
	RewardInfo              solanago.PublicKey
	TotalClaimed            uint64
	TotalRewards            uint64
	RewardsLastCalculatedAt uint64
}

// ClaimableRewards is what has accrued and not been claimed yet.
func (u *UserRewardInfo) ClaimableRewards() uint64 {
	return math.SaturatingSubU64(u.TotalRewards, u.TotalClaimed)
}

// Claim pays out everything claimable from the stream's escrow.
func (u UserRewardInfo) Claim(reward RewardInfo) (UserRewardInfo, RewardInfo, uint64, error) {
	amount := u.ClaimableRewards()
	if amount > reward.TotalLeftInEscrow {
		return u, reward, 0, shared.ErrMathOverflow
	}
	u.TotalClaimed = u.TotalRewards
	reward.TotalLeftInEscrow -= amount
	return u, reward, amount, nil
}

// UserLpSnapshot is the user's LP balance right after a change at Timestamp.
type UserLpSnapshot struct {
	LpAmount  uint64
	Timestamp uint64
}

// GlobalUserLpRecentChange keeps the user's LP changes that have not been
// priced for every active stream yet.
type GlobalUserLpRecentChange struct {
	RewardsCalculatedUpto [shared.MaxRewards]uint64
	LpSnapshots           []UserLpSnapshot
}

// Clone returns a deep copy.
func (r GlobalUserLpRecentChange) Clone() GlobalUserLpRecentChange {
	out := r
	out.LpSnapshots = append([]UserLpSnapshot(nil), r.LpSnapshots...)
	return out
}

// AppendSnapshot records an LP change. Nothing is kept while no stream is
// active.
func (r *GlobalUserLpRecentChange) AppendSnapshot(lpOwnedByUser, timestamp uint64, global *GlobalRewardInfo) {
	if !global.HasAnyActiveRewards() {
		return
	}
	r.LpSnapshots = append(r.LpSnapshots, UserLpSnapshot{LpAmount: lpOwnedByUser, Timestamp: timestamp})
}

// RemoveInactiveSnapshots drops snapshots every active stream has priced.
// The last snapshot before the cutoff stays: it is the balance in effect
// when the next calculation starts.
func (r *GlobalUserLpRecentChange) RemoveInactiveSnapshots(global *GlobalRewardInfo) {
	if !global.HasAnyActiveRewards() {
		r.LpSnapshots = nil
		return
	}

	cutoff, found := uint64(0), false
	for slot, k := range global.ActiveBoostedRewardInfo {
		if k.IsZero() {
			continue
		}
		if !found || r.RewardsCalculatedUpto[slot] < cutoff {
			cutoff, found = r.RewardsCalculatedUpto[slot], true
		}
	}

	drop := 0
	for drop+1 < len(r.LpSnapshots) && r.LpSnapshots[drop+1].Timestamp <= cutoff {
		drop++
	}
	r.LpSnapshots = r.LpSnapshots[drop:]
}

// lpAt is the user's balance at ts: the latest snapshot at or before ts,
// or current when none is recorded. Snapshots hold the balance after a
// change, so time before the first recorded change is priced at the
// balance that change produced.
func (r *GlobalUserLpRecentChange) lpAt(ts, current uint64) uint64 {
	lp := current
	for _, s := range r.LpSnapshots {
		if s.Timestamp > ts {
			break
		}
		lp = s.LpAmount
	}
	return lp
}
