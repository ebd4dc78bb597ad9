package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blocknative/dinghy/cmd/dinghy/config"
	"github.com/blocknative/dinghy/structs"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flashbots/go-boost-utils/types"
	"github.com/stretchr/testify/require"
)

func TestLoadNetwork(t *testing.T) {
	t.Parallel()

	c := config.NewChainConfig()
	require.True(t, c.LoadNetwork("main"))
	require.Equal(t, "mainnet", c.Name)
	require.Equal(t, config.GenesisForkVersionMainnet, c.GenesisForkVersion)
	require.Equal(t, structs.ForkBellatrix, c.Schedule.ForkVersion(structs.Slot(194047)*structs.SlotsPerEpoch))
	require.Equal(t, structs.ForkCapella, c.Schedule.ForkVersion(structs.Slot(194048)*structs.SlotsPerEpoch))
	require.Equal(t, structs.ForkDeneb, c.Schedule.ForkVersion(structs.Slot(269568)*structs.SlotsPerEpoch))

	require.False(t, c.LoadNetwork("ropsten"))
	require.Equal(t, []string{"goerli", "holesky", "mainnet", "sepolia"}, config.Networks())
}

func TestBuilderDomain(t *testing.T) {
	t.Parallel()

	c := config.NewChainConfig()
	require.True(t, c.LoadNetwork("mainnet"))
	domain, err := c.BuilderDomain()
	require.NoError(t, err)
	require.Equal(t, types.Domain(types.ComputeDomain(types.DomainTypeAppBuilder, [4]byte{}, types.Root{})), domain)
	require.Equal(t, "0x00000001f5a5fd42d16a20302798ef6ed309979b43003d2320d9f0e8ea9831a9", hexutil.Encode(domain[:]))

	c.GenesisForkVersion = "0x0102"
	_, err = c.BuilderDomain()
	require.Error(t, err)
}

func TestReadNetworkConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "networks.json"), []byte(`{
		"devnet": {"GenesisForkVersion": "0x10000038", "BellatrixForkEpoch": 0, "CapellaForkEpoch": 5}
	}`), 0o600))

	c := config.NewChainConfig()
	require.NoError(t, c.ReadNetworkConfig(dir, "devnet"))
	require.Equal(t, "0x10000038", c.GenesisForkVersion)
	require.Equal(t, structs.ForkCapella, c.Schedule.ForkVersion(5*structs.SlotsPerEpoch))
	require.Equal(t, structs.FarFutureEpoch, c.Schedule.DenebEpoch)

	require.ErrorIs(t, c.ReadNetworkConfig(dir, "other"), config.ErrUnknownNetwork)
	require.ErrorIs(t, c.ReadNetworkConfig(t.TempDir(), "devnet"), config.ErrUnknownNetwork)
}

func TestReadCustomConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
PRESET_BASE: 'mainnet'
CONFIG_NAME: 'kurtosis'
GENESIS_FORK_VERSION: 0x10000038
BELLATRIX_FORK_VERSION: 0x30000038
BELLATRIX_FORK_EPOCH: 0
CAPELLA_FORK_EPOCH: 1
DENEB_FORK_EPOCH: 18446744073709551615
`), 0o600))

	c := config.NewChainConfig()
	require.NoError(t, c.ReadCustomConfig(dir))
	require.Equal(t, "kurtosis", c.Name)
	require.Equal(t, "0x10000038", c.GenesisForkVersion)
	require.Equal(t, structs.ForkBellatrix, c.Schedule.ForkVersion(0))
	require.Equal(t, structs.ForkCapella, c.Schedule.ForkVersion(structs.SlotsPerEpoch))
	require.Equal(t, structs.FarFutureEpoch, c.Schedule.DenebEpoch)

	domain, err := c.BuilderDomain()
	require.NoError(t, err)
	require.Equal(t, types.Domain(types.ComputeDomain(types.DomainTypeAppBuilder, [4]byte{0x10, 0x00, 0x00, 0x38}, types.Root{})), domain)

	require.Error(t, c.ReadCustomConfig(filepath.Join(dir, "missing.yaml")))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("CAPELLA_FORK_EPOCH: 1\n"), 0o600))
	require.Error(t, c.ReadCustomConfig(broken))
}
