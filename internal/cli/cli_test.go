package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/gamma-go/states"
	"github.com/krazyTry/gamma-go/u128"
)

func fixtureAccounts(t *testing.T, configKey, observationKey solanago.PublicKey) (cfg, pool, obs []byte) {
	t.Helper()
	var err error
	cfg, err = states.AmmConfig{TradeFeeRate: 3000, ProtocolFeeRate: 100_000, FundFeeRate: 100_000, MaxOraclePriceUpdateTimeDiff: 60}.Marshal()
	require.NoError(t, err)
	pool, err = states.PoolState{
		AmmConfig:                        configKey,
		ObservationKey:                   observationKey,
		Token0VaultAmount:                1_000_000,
		Token1VaultAmount:                1_000_000,
		OraclePriceToken0ByToken1:        u128.FromUint64(1_000_000_000),
		OraclePriceUpdatedAt:             1000,
		AcceptablePriceDifference:        50_000,
		MaxAmountSwappableAtOraclePrice:  100_000,
		MinTradeRateAtOraclePrice:        1000,
		PricePremiumForSwapAtOraclePrice: 1000,
	}.Marshal()
	require.NoError(t, err)
	obs, err = states.ObservationState{}.Marshal()
	require.NoError(t, err)
	return cfg, pool, obs
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	cfg, pool, obs := fixtureAccounts(t, solanago.PublicKey{}, solanago.PublicKey{})
	b64 := base64.StdEncoding.EncodeToString
	req := fmt.Sprintf(`{"sourceAmountToBeSwapped":"100000","ammConfigData":"%s","poolStateData":"%s","observationStateData":"%s","zeroForOne":true}`,
		b64(cfg), b64(pool), b64(obs))

	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(req), 0o600))

	out, err := run(t, "", "quote", "--now", "1050", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "98099", gjson.Get(out, "destinationAmountSwapped").String())

	out, err = run(t, req, "quote", "--now", "1050", "--kind", "base-input")
	require.NoError(t, err)
	assert.Equal(t, "90661", gjson.Get(out, "destinationAmountSwapped").String())

	_, err = run(t, req, "quote", "--kind", "limit")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gamma-quote version "+Version)
}

func TestPoolCommand(t *testing.T) {
	poolKey, configKey, obsKey := solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey()
	cfg, pool, obs := fixtureAccounts(t, configKey, obsKey)
	accounts := map[string][]byte{poolKey.String(): pool, configKey.String(): cfg, obsKey.String(): obs}

	account := func(key string) string {
		data, ok := accounts[key]
		if !ok {
			return "null"
		}
		return fmt.Sprintf(`{"data":["%s","base64"],"executable":false,"lamports":1,"owner":"%s","rentEpoch":0}`,
			base64.StdEncoding.EncodeToString(data), solanago.SystemProgramID)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req := gjson.ParseBytes(body)
		var result string
		switch req.Get("method").String() {
		case "getAccountInfo":
			result = fmt.Sprintf(`{"context":{"slot":1},"value":%s}`, account(req.Get("params.0").String()))
		case "getMultipleAccounts":
			var items []string
			for _, k := range req.Get("params.0").Array() {
				items = append(items, account(k.String()))
			}
			result = fmt.Sprintf(`{"context":{"slot":1},"value":[%s]}`, strings.Join(items, ","))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, req.Get("id").Raw, result)
	}))
	defer srv.Close()
	t.Setenv("GAMMA_RPC_URL", srv.URL)

	out, err := run(t, "", "pool", poolKey.String(), "--now", "1070", "--kind", "base-input", "--amount", "100000", "--apply")
	require.NoError(t, err)
	assert.Equal(t, poolKey.String(), gjson.Get(out, "pool").String())
	assert.Equal(t, "90661", gjson.Get(out, "result.destinationAmountSwapped").String())
	assert.Equal(t, "1099940", gjson.Get(out, "after.token0").String())
	assert.Equal(t, "909339", gjson.Get(out, "after.token1").String())
	assert.Equal(t, "3000", gjson.Get(out, "after.latestDynamicFeeRate").String())

	_, err = run(t, "", "pool", poolKey.String(), "--amount", "1", "--kind", "oracle", "--transfer-fees")
	assert.ErrorContains(t, err, "--transfer-fees")

	_, err = run(t, "", "pool", "not-a-key", "--amount", "1")
	assert.Error(t, err)
}
