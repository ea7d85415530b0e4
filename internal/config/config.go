package config

import (
	"os"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the gamma tools.
type Config struct {
	RPCURL          string `mapstructure:"rpc_url"`
	Commitment      string `mapstructure:"commitment"`
	LogLevel        string `mapstructure:"log_level"`
	ConfigCacheSize int    `mapstructure:"config_cache_size"`
	ProgramID       string `mapstructure:"program_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc_url", rpc.MainNetBeta_RPC)
	v.SetDefault("commitment", string(rpc.CommitmentFinalized))
	v.SetDefault("log_level", "info")
	v.SetDefault("config_cache_size", 64)
	v.SetDefault("program_id", "")
}

// Load reads configuration in priority order: defaults, the optional file
// at path, then GAMMA_ environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	v.SetEnvPrefix("GAMMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc_url is required")
	}
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return errors.Errorf("unknown commitment %q", c.Commitment)
	}
	if c.ConfigCacheSize <= 0 {
		return errors.Errorf("config_cache_size must be positive, got %d", c.ConfigCacheSize)
	}
	if c.ProgramID != "" {
		if _, err := solanago.PublicKeyFromBase58(c.ProgramID); err != nil {
			return errors.Wrap(err, "program_id")
		}
	}
	return nil
}

// CommitmentType returns the configured commitment for rpc calls.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// ProgramKey returns the configured program id, or the zero key when
// owner checks are disabled.
func (c *Config) ProgramKey() solanago.PublicKey {
	if c.ProgramID == "" {
		return solanago.PublicKey{}
	}
	return solanago.MustPublicKeyFromBase58(c.ProgramID)
}
