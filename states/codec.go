package states

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/gamma-go/shared"
)

var (
	AmmConfigDiscriminator        = Discriminator("AmmConfig")
	PoolStateDiscriminator        = Discriminator("PoolState")
	ObservationStateDiscriminator = Discriminator("ObservationState")
)

// Discriminator is the Anchor account tag, sha256("account:"+name)[:8].
func Discriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

func ReadDiscriminator(dec *binary.Decoder, want [8]byte) error {
	got, err := dec.ReadNBytes(8)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want[:]) {
		return fmt.Errorf("%w: discriminator %x, want %x", shared.ErrInvalidAccountData, got, want[:])
	}
	return nil
}

// DecodeFields decodes borsh fields in order.
func DecodeFields(dec *binary.Decoder, fields ...interface{}) error {
	for _, f := range fields {
		if err := dec.Decode(f); err != nil {
			return err
		}
	}
	return nil
}

func EncodeFields(enc *binary.Encoder, fields ...interface{}) error {
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

func DecodeAmmConfig(data []byte) (AmmConfig, error) {
	var out AmmConfig
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data)); err != nil {
		return AmmConfig{}, err
	}
	return out, nil
}

func DecodePoolState(data []byte) (PoolState, error) {
	var out PoolState
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data)); err != nil {
		return PoolState{}, err
	}
	return out, nil
}

func DecodeObservationState(data []byte) (ObservationState, error) {
	var out ObservationState
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data)); err != nil {
		return ObservationState{}, err
	}
	return out, nil
}

type BorshMarshaler interface {
	MarshalWithEncoder(enc *binary.Encoder) error
}

func MarshalAccount(v BorshMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := v.MarshalWithEncoder(binary.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
