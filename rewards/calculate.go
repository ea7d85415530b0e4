package rewards

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
)

// ClaimResult carries the updated copies of every account the calculation
// touches, plus what was accrued by this call.
type ClaimResult struct {
	User    UserRewardInfo
	Recent  GlobalUserLpRecentChange
	Global  GlobalRewardInfo
	Accrued uint64
}

// CalculateClaimableRewards prices the user's LP against the reward stream
// key from the last calculation up to now, then prunes state no active
// stream needs. The inputs are left untouched.
func CalculateClaimableRewards(
	user UserRewardInfo,
	userLp, lpSupply uint64,
	recent GlobalUserLpRecentChange,
	global GlobalRewardInfo,
	key solanago.PublicKey,
	reward RewardInfo,
	now uint64,
) (ClaimResult, error) {
	res := ClaimResult{User: user, Recent: recent.Clone(), Global: global.Clone()}

	slot := res.Global.SlotOf(key)
	if slot < 0 || user.RewardsLastCalculatedAt >= now {
		return res, nil
	}

	cursor := max(reward.StartAt, user.RewardsLastCalculatedAt)
	intervals := Intervals(cursor, now, reward.EndRewardsAt, userLp, res.Recent.LpSnapshots, res.Global.Snapshots)
	if len(intervals) > 0 && lpSupply == 0 {
		return ClaimResult{}, shared.ErrMathOverflow
	}

	for i, iv := range intervals {
		amount, err := accrue(reward.EmissionPerSecond, iv.End-iv.Start, iv.UserLp, lpSupply)
		if err != nil {
			return ClaimResult{}, err
		}
		if res.Accrued, err = math.AddU64(res.Accrued, amount); err != nil {
			return ClaimResult{}, err
		}
		// A segment split by user LP changes is covered once, at its end.
		if i == len(intervals)-1 || intervals[i+1].SnapshotIndex != iv.SnapshotIndex {
			res.Global.cover(slot, iv.SnapshotIndex, iv.UserLp, lpSupply)
		}
		res.User.RewardsLastCalculatedAt = iv.End
	}

	var err error
	if res.User.TotalRewards, err = math.AddU64(res.User.TotalRewards, res.Accrued); err != nil {
		return ClaimResult{}, err
	}
	res.Recent.RewardsCalculatedUpto[slot] = now

	res.Global.RemoveInactiveRewards(key, &reward, now)
	res.Global.RemoveAllInactiveSnapshots()
	res.Recent.RemoveInactiveSnapshots(&res.Global)
	return res, nil
}

// accrue is emission * duration * userLp / lpSupply in checked u128.
func accrue(emissionPerSecond, duration, userLp, lpSupply uint64) (uint64, error) {
	total, err := math.Mul(math.U128(emissionPerSecond), math.U128(duration))
	if err != nil {
		return 0, err
	}
	share, err := math.FloorDiv(total, math.U128(userLp), math.U128(lpSupply))
	if err != nil {
		return 0, err
	}
	return math.ToU64(share)
}
