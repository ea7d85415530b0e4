package rewards

import (
	encbin "encoding/binary"
	"fmt"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
)

var (
	RewardInfoDiscriminator               = states.Discriminator("RewardInfo")
	GlobalRewardInfoDiscriminator         = states.Discriminator("GlobalRewardInfo")
	UserRewardInfoDiscriminator           = states.Discriminator("UserRewardInfo")
	GlobalUserLpRecentChangeDiscriminator = states.Discriminator("GlobalUserLpRecentChange")
)

func (r *RewardInfo) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := states.ReadDiscriminator(dec, RewardInfoDiscriminator); err != nil {
		return err
	}
	return states.DecodeFields(dec,
		&r.StartAt, &r.EndRewardsAt, &r.Mint,
		&r.TotalToDisburse, &r.EmissionPerSecond, &r.TotalLeftInEscrow,
		&r.RewardedBy,
	)
}

func (r RewardInfo) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(RewardInfoDiscriminator[:], false); err != nil {
		return err
	}
	return states.EncodeFields(enc,
		r.StartAt, r.EndRewardsAt, r.Mint,
		r.TotalToDisburse, r.EmissionPerSecond, r.TotalLeftInEscrow,
		r.RewardedBy,
	)
}

func (u *UserRewardInfo) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := states.ReadDiscriminator(dec, UserRewardInfoDiscriminator); err != nil {
		return err
	}
	return states.DecodeFields(dec,
		&u.UserPoolLpAccount, &u.RewardInfo,
		&u.TotalClaimed, &u.TotalRewards, &u.RewardsLastCalculatedAt,
	)
}

func (u UserRewardInfo) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(UserRewardInfoDiscriminator[:], false); err != nil {
		return err
	}
	return states.EncodeFields(enc,
		u.UserPoolLpAccount, u.RewardInfo,
		u.TotalClaimed, u.TotalRewards, u.RewardsLastCalculatedAt,
	)
}

func (g *GlobalRewardInfo) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := states.ReadDiscriminator(dec, GlobalRewardInfoDiscriminator); err != nil {
		return err
	}
	if err := states.DecodeFields(dec, &g.ActiveBoostedRewardInfo, &g.MinStartTime); err != nil {
		return err
	}
	n, err := dec.ReadUint32(encbin.LittleEndian)
	if err != nil {
		return err
	}
	if err := checkLen(dec, n, 40); err != nil {
		return err
	}
	g.Snapshots = make([]Snapshot, n)
	for i := range g.Snapshots {
		s := &g.Snapshots[i]
		if err := states.DecodeFields(dec, &s.RewardCalculatedForLpAmount, &s.TotalLpAmount, &s.Timestamp); err != nil {
			return err
		}
	}
	return dec.Decode(&g.RewardCalculatedForLpAmount)
}

func (g GlobalRewardInfo) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(GlobalRewardInfoDiscriminator[:], false); err != nil {
		return err
	}
	if err := states.EncodeFields(enc, g.ActiveBoostedRewardInfo, g.MinStartTime); err != nil {
		return err
	}
	if err := enc.WriteUint32(uint32(len(g.Snapshots)), encbin.LittleEndian); err != nil {
		return err
	}
	for _, s := range g.Snapshots {
		if err := states.EncodeFields(enc, s.RewardCalculatedForLpAmount, s.TotalLpAmount, s.Timestamp); err != nil {
			return err
		}
	}
	return enc.Encode(g.RewardCalculatedForLpAmount)
}

func (r *GlobalUserLpRecentChange) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := states.ReadDiscriminator(dec, GlobalUserLpRecentChangeDiscriminator); err != nil {
		return err
	}
	if err := dec.Decode(&r.RewardsCalculatedUpto); err != nil {
		return err
	}
	n, err := dec.ReadUint32(encbin.LittleEndian)
	if err != nil {
		return err
	}
	if err := checkLen(dec, n, 16); err != nil {
		return err
	}
	r.LpSnapshots = make([]UserLpSnapshot, n)
	for i := range r.LpSnapshots {
		if err := states.DecodeFields(dec, &r.LpSnapshots[i].LpAmount, &r.LpSnapshots[i].Timestamp); err != nil {
			return err
		}
	}
	return nil
}

func (r GlobalUserLpRecentChange) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(GlobalUserLpRecentChangeDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.Encode(r.RewardsCalculatedUpto); err != nil {
		return err
	}
	if err := enc.WriteUint32(uint32(len(r.LpSnapshots)), encbin.LittleEndian); err != nil {
		return err
	}
	for _, s := range r.LpSnapshots {
		if err := states.EncodeFields(enc, s.LpAmount, s.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes the account including its discriminator.
func (r RewardInfo) Marshal() ([]byte, error) { return states.MarshalAccount(r) }

func (u UserRewardInfo) Marshal() ([]byte, error) { return states.MarshalAccount(u) }

func (g GlobalRewardInfo) Marshal() ([]byte, error) { return states.MarshalAccount(g) }

func (r GlobalUserLpRecentChange) Marshal() ([]byte, error) { return states.MarshalAccount(r) }

func checkLen(dec *binary.Decoder, n uint32, itemSize int) error {
	if int(n)*itemSize > dec.Remaining() {
		return fmt.Errorf("%w: %d items exceed %d remaining bytes", shared.ErrInvalidAccountData, n, dec.Remaining())
	}
	return nil
}

// Decode helpers for raw account data.

func DecodeRewardInfo(data []byte) (RewardInfo, error) {
	var out RewardInfo
	err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data))
	return out, err
}

func DecodeGlobalRewardInfo(data []byte) (GlobalRewardInfo, error) {
	var out GlobalRewardInfo
	err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data))
	return out, err
}

func DecodeUserRewardInfo(data []byte) (UserRewardInfo, error) {
	var out UserRewardInfo
	err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data))
	return out, err
}

func DecodeGlobalUserLpRecentChange(data []byte) (GlobalUserLpRecentChange, error) {
	var out GlobalUserLpRecentChange
	err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data))
	return out, err
}
