package rpc

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/krazyTry/gamma-go/internal/config"
	"github.com/krazyTry/gamma-go/internal/logger"
	"github.com/krazyTry/gamma-go/partner"
	"github.com/krazyTry/gamma-go/rewards"
	"github.com/krazyTry/gamma-go/states"
)

const defaultConfigCacheSize = 64

// Options tunes a StateService.
type Options struct {
	Commitment solanarpc.CommitmentType
	// ProgramID, when set, is checked against the owner of every program
	// account read.
	ProgramID       solanago.PublicKey
	ConfigCacheSize int
}

// StateService loads and decodes pool accounts over JSON-RPC. AmmConfig
// accounts rarely change and are cached by address.
type StateService struct {
	client     *solanarpc.Client
	commitment solanarpc.CommitmentType
	programID  solanago.PublicKey
	configs    *lru.Cache[solanago.PublicKey, states.AmmConfig]
	log        zerolog.Logger
}

func NewStateService(client *solanarpc.Client, opts Options) (*StateService, error) {
	if opts.Commitment == "" {
		opts.Commitment = solanarpc.CommitmentFinalized
	}
	if opts.ConfigCacheSize <= 0 {
		opts.ConfigCacheSize = defaultConfigCacheSize
	}
	configs, err := lru.New[solanago.PublicKey, states.AmmConfig](opts.ConfigCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "config cache")
	}
	return &StateService{
		client:     client,
		commitment: opts.Commitment,
		programID:  opts.ProgramID,
		configs:    configs,
		log:        logger.GetForComponent("rpc"),
	}, nil
}

// NewStateServiceFromConfig dials cfg.RPCURL.
func NewStateServiceFromConfig(cfg *config.Config) (*StateService, error) {
	return NewStateService(solanarpc.New(cfg.RPCURL), Options{
		Commitment:      cfg.CommitmentType(),
		ProgramID:       cfg.ProgramKey(),
		ConfigCacheSize: cfg.ConfigCacheSize,
	})
}

// PoolAccounts is everything a quote needs for one pool.
type PoolAccounts struct {
	Address      solanago.PublicKey
	Config       states.AmmConfig
	Pool         states.PoolState
	Observations states.ObservationState
}

func (s *StateService) checkOwner(key solanago.PublicKey, acc *solanarpc.Account) error {
	if s.programID.IsZero() || acc.Owner.Equals(s.programID) {
		return nil
	}
	return errors.Errorf("account %s owned by %s, want %s", key, acc.Owner, s.programID)
}

// fetch reads one program account and hands its data to decode.
func (s *StateService) fetch(ctx context.Context, key solanago.PublicKey, what string, decode func([]byte) error) error {
	out, err := s.client.GetAccountInfoWithOpts(ctx, key, &solanarpc.GetAccountInfoOpts{
		Commitment: s.commitment,
		Encoding:   solanago.EncodingBase64,
	})
	if err != nil {
		return errors.Wrapf(err, "get %s account %s", what, key)
	}
	if out == nil || out.Value == nil {
		return errors.Wrapf(solanarpc.ErrNotFound, "%s account %s", what, key)
	}
	if err := s.checkOwner(key, out.Value); err != nil {
		return err
	}
	if err := decode(out.GetBinary()); err != nil {
		return errors.Wrapf(err, "decode %s account %s", what, key)
	}
	return nil
}

// GetAmmConfig returns the config at key, from cache when possible.
func (s *StateService) GetAmmConfig(ctx context.Context, key solanago.PublicKey) (states.AmmConfig, error) {
	if cfg, ok := s.configs.Get(key); ok {
		s.log.Debug().Stringer("config", key).Msg("amm config cache hit")
		return cfg, nil
	}
	var cfg states.AmmConfig
	err := s.fetch(ctx, key, "amm config", func(data []byte) (err error) {
		cfg, err = states.DecodeAmmConfig(data)
		return err
	})
	if err != nil {
		return states.AmmConfig{}, err
	}
	s.configs.Add(key, cfg)
	return cfg, nil
}

func (s *StateService) GetPoolState(ctx context.Context, key solanago.PublicKey) (states.PoolState, error) {
	var pool states.PoolState
	err := s.fetch(ctx, key, "pool", func(data []byte) (err error) {
		pool, err = states.DecodePoolState(data)
		return err
	})
	return pool, err
}

func (s *StateService) GetObservationState(ctx context.Context, key solanago.PublicKey) (states.ObservationState, error) {
	var obs states.ObservationState
	err := s.fetch(ctx, key, "observation", func(data []byte) (err error) {
		obs, err = states.DecodeObservationState(data)
		return err
	})
	return obs, err
}

// GetPoolStates loads several pools in one call.
func (s *StateService) GetPoolStates(ctx context.Context, keys []solanago.PublicKey) ([]states.PoolState, error) {
	accs, err := s.getMultiple(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]states.PoolState, 0, len(keys))
	for i, acc := range accs {
		pool, err := states.DecodePoolState(acc.Data.GetBinary())
		if err != nil {
			return nil, errors.Wrapf(err, "decode pool account %s", keys[i])
		}
		out = append(out, pool)
	}
	return out, nil
}

// GetPoolAccounts loads a pool and then its config and observation
// accounts. The two dependents share one getMultipleAccounts call unless
// the config is cached.
func (s *StateService) GetPoolAccounts(ctx context.Context, key solanago.PublicKey) (PoolAccounts, error) {
	pool, err := s.GetPoolState(ctx, key)
	if err != nil {
		return PoolAccounts{}, err
	}
	out := PoolAccounts{Address: key, Pool: pool}

	if cfg, ok := s.configs.Get(pool.AmmConfig); ok {
		out.Config = cfg
		if out.Observations, err = s.GetObservationState(ctx, pool.ObservationKey); err != nil {
			return PoolAccounts{}, err
		}
		return out, nil
	}

	accs, err := s.getMultiple(ctx, []solanago.PublicKey{pool.AmmConfig, pool.ObservationKey})
	if err != nil {
		return PoolAccounts{}, err
	}
	if out.Config, err = states.DecodeAmmConfig(accs[0].Data.GetBinary()); err != nil {
		return PoolAccounts{}, errors.Wrapf(err, "decode amm config account %s", pool.AmmConfig)
	}
	if out.Observations, err = states.DecodeObservationState(accs[1].Data.GetBinary()); err != nil {
		return PoolAccounts{}, errors.Wrapf(err, "decode observation account %s", pool.ObservationKey)
	}
	s.configs.Add(pool.AmmConfig, out.Config)
	return out, nil
}

// getMultiple fails when any key is missing.
func (s *StateService) getMultiple(ctx context.Context, keys []solanago.PublicKey) ([]*solanarpc.Account, error) {
	return s.getMultipleOwned(ctx, keys, true)
}

func (s *StateService) getMultipleOwned(ctx context.Context, keys []solanago.PublicKey, programOwned bool) ([]*solanarpc.Account, error) {
	res, err := s.client.GetMultipleAccountsWithOpts(ctx, keys, &solanarpc.GetMultipleAccountsOpts{
		Commitment: s.commitment,
		Encoding:   solanago.EncodingBase64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "get multiple accounts")
	}
	if len(res.Value) != len(keys) {
		return nil, errors.Errorf("get multiple accounts: %d results for %d keys", len(res.Value), len(keys))
	}
	for i, acc := range res.Value {
		if acc == nil {
			return nil, errors.Wrapf(solanarpc.ErrNotFound, "account %s", keys[i])
		}
		if !programOwned {
			continue
		}
		if err := s.checkOwner(keys[i], acc); err != nil {
			return nil, err
		}
	}
	return res.Value, nil
}

func (s *StateService) GetRewardInfo(ctx context.Context, key solanago.PublicKey) (rewards.RewardInfo, error) {
	var info rewards.RewardInfo
	err := s.fetch(ctx, key, "reward info", func(data []byte) (err error) {
		info, err = rewards.DecodeRewardInfo(data)
		return err
	})
	return info, err
}

func (s *StateService) GetGlobalRewardInfo(ctx context.Context, key solanago.PublicKey) (rewards.GlobalRewardInfo, error) {
	var info rewards.GlobalRewardInfo
	err := s.fetch(ctx, key, "global reward info", func(data []byte) (err error) {
		info, err = rewards.DecodeGlobalRewardInfo(data)
		return err
	})
	return info, err
}

func (s *StateService) GetPoolPartnerInfos(ctx context.Context, key solanago.PublicKey) (partner.PoolPartnerInfos, error) {
	var infos partner.PoolPartnerInfos
	err := s.fetch(ctx, key, "pool partners", func(data []byte) (err error) {
		infos, err = partner.DecodePoolPartnerInfos(data)
		return err
	})
	return infos, err
}

// CurrentEpoch is the cluster epoch that selects a transfer fee.
func (s *StateService) CurrentEpoch(ctx context.Context) (uint64, error) {
	info, err := s.client.GetEpochInfo(ctx, s.commitment)
	if err != nil {
		return 0, errors.Wrap(err, "get epoch info")
	}
	return info.Epoch, nil
}
