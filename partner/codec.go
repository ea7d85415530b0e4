package partner

import (
	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/gamma-go/states"
)

var (
	PartnerDiscriminator          = states.Discriminator("Partner")
	PoolPartnerInfosDiscriminator = states.Discriminator("PoolPartnerInfos")
)

func (p *Partner) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := states.ReadDiscriminator(dec, PartnerDiscriminator); err != nil {
		return err
	}
	if err := states.DecodeFields(dec, &p.Name, &p.Authority, &p.PoolState, &p.Token0TokenAccount, &p.Token1TokenAccount); err != nil {
		return err
	}
	return p.Validate()
}

func (p Partner) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := enc.WriteBytes(PartnerDiscriminator[:], false); err != nil {
		return err
	}
	return states.EncodeFields(enc, p.Name, p.Authority, p.PoolState, p.Token0TokenAccount, p.Token1TokenAccount)
}

func (i *PartnerInfo) UnmarshalWithDecoder(dec *binary.Decoder) error {
	return states.DecodeFields(dec,
		&i.Partner, &i.LpTokenLinkedWithPartner,
		&i.TotalClaimedFeeAmountToken0, &i.TotalClaimedFeeAmountToken1,
		&i.TotalEarnedFeeAmountToken0, &i.TotalEarnedFeeAmountToken1,
	)
}

func (i PartnerInfo) MarshalWithEncoder(enc *binary.Encoder) error {
	return states.EncodeFields(enc,
		i.Partner, i.LpTokenLinkedWithPartner,
		i.TotalClaimedFeeAmountToken0, i.TotalClaimedFeeAmountToken1,
		i.TotalEarnedFeeAmountToken0, i.TotalEarnedFeeAmountToken1,
	)
}

func (p *PoolPartnerInfos) UnmarshalWithDecoder(dec *binary.Decoder) error {
	if err := states.ReadDiscriminator(dec, PoolPartnerInfosDiscriminator); err != nil {
		return err
	}
	if err := states.DecodeFields(dec, &p.LastObservedFeeAmountToken0, &p.LastObservedFeeAmountToken1); err != nil {
		return err
	}
	for i := range p.Infos {
		if err := p.Infos[i].UnmarshalWithDecoder(dec); err != nil {
			return err
		}
	}
	return nil
}

func (p PoolPartnerInfos) MarshalWithEncoder(enc *binary.Encoder) error {
	if err := enc.WriteBytes(PoolPartnerInfosDiscriminator[:], false); err != nil {
		return err
	}
	if err := states.EncodeFields(enc, p.LastObservedFeeAmountToken0, p.LastObservedFeeAmountToken1); err != nil {
		return err
	}
	for _, info := range p.Infos {
		if err := info.MarshalWithEncoder(enc); err != nil {
			return err
		}
	}
	return nil
}

func (p Partner) Marshal() ([]byte, error) { return states.MarshalAccount(p) }

func (p PoolPartnerInfos) Marshal() ([]byte, error) { return states.MarshalAccount(p) }

func DecodePartner(data []byte) (Partner, error) {
	var out Partner
	err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data))
	return out, err
}

func DecodePoolPartnerInfos(data []byte) (PoolPartnerInfos, error) {
	var out PoolPartnerInfos
	err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data))
	return out, err
}
