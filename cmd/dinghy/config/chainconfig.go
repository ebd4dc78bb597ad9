package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blocknative/dinghy/structs"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/flashbots/go-boost-utils/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var ErrUnknownNetwork = errors.New("unknown network")

const (
	GenesisForkVersionMainnet = "0x00000000"
	GenesisForkVersionSepolia = "0x90000069"
	GenesisForkVersionGoerli  = "0x00001020"
	GenesisForkVersionHolesky = "0x01017000"
)

// Network is a chain parameter set. Epochs that are not set are never
// reached.
type Network struct {
	GenesisForkVersion string  `json:"GenesisForkVersion"`
	BellatrixForkEpoch *uint64 `json:"BellatrixForkEpoch,omitempty"`
	CapellaForkEpoch   *uint64 `json:"CapellaForkEpoch,omitempty"`
	DenebForkEpoch     *uint64 `json:"DenebForkEpoch,omitempty"`
}

func epoch(e uint64) *uint64 { return &e }

var builtin = map[string]Network{
	"mainnet": {
		GenesisForkVersion: GenesisForkVersionMainnet,
		BellatrixForkEpoch: epoch(144896),
		CapellaForkEpoch:   epoch(194048),
		DenebForkEpoch:     epoch(269568),
	},
	"sepolia": {
		GenesisForkVersion: GenesisForkVersionSepolia,
		BellatrixForkEpoch: epoch(100),
		CapellaForkEpoch:   epoch(56832),
		DenebForkEpoch:     epoch(132608),
	},
	"goerli": {
		GenesisForkVersion: GenesisForkVersionGoerli,
		BellatrixForkEpoch: epoch(112260),
		CapellaForkEpoch:   epoch(162304),
		DenebForkEpoch:     epoch(231680),
	},
	"holesky": {
		GenesisForkVersion: GenesisForkVersionHolesky,
		BellatrixForkEpoch: epoch(0),
		CapellaForkEpoch:   epoch(256),
		DenebForkEpoch:     epoch(29696),
	},
}

// Networks lists the built-in network names.
func Networks() []string {
	names := maps.Keys(builtin)
	slices.Sort(names)
	return names
}

// ChainConfig holds the parameters used for domain separation and fork
// activation.
type ChainConfig struct {
	Name               string
	GenesisForkVersion string
	Schedule           structs.ForkSchedule
}

func NewChainConfig() *ChainConfig {
	return &ChainConfig{}
}

// LoadNetwork loads a built-in network and reports whether it is known.
func (c *ChainConfig) LoadNetwork(network string) bool {
	name := strings.ToLower(network)
	if name == "main" {
		name = "mainnet"
	}

	n, ok := builtin[name]
	if !ok {
		return false
	}
	c.apply(name, n)
	return true
}

// ReadNetworkConfig loads network from datadir/networks.json.
func (c *ChainConfig) ReadNetworkConfig(datadir, network string) (err error) {
	jsonFile, err := os.Open(filepath.Join(datadir, "networks.json"))
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrUnknownNetwork, network, err.Error())
	}
	defer jsonFile.Close()

	var networks map[string]Network
	if err := json.NewDecoder(jsonFile).Decode(&networks); err != nil {
		return err
	}

	n, ok := networks[network]
	if !ok {
		return fmt.Errorf("%w: %s not found in %s", ErrUnknownNetwork, network, filepath.Join(datadir, "networks.json"))
	}

	c.apply(network, n)
	return nil
}

type consensusConfig struct {
	ConfigName         string `yaml:"CONFIG_NAME"`
	GenesisForkVersion string `yaml:"GENESIS_FORK_VERSION"`
	BellatrixForkEpoch string `yaml:"BELLATRIX_FORK_EPOCH"`
	CapellaForkEpoch   string `yaml:"CAPELLA_FORK_EPOCH"`
	DenebForkEpoch     string `yaml:"DENEB_FORK_EPOCH"`
}

// ReadCustomConfig loads a consensus config.yaml. path may be the file or a
// directory containing it.
func (c *ChainConfig) ReadCustomConfig(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		path = filepath.Join(path, "config.yaml")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cc consensusConfig
	if err := yaml.Unmarshal(b, &cc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if cc.GenesisForkVersion == "" {
		return fmt.Errorf("%s: missing GENESIS_FORK_VERSION", path)
	}

	var n Network
	n.GenesisForkVersion = cc.GenesisForkVersion
	if n.BellatrixForkEpoch, err = parseEpoch(cc.BellatrixForkEpoch); err != nil {
		return fmt.Errorf("BELLATRIX_FORK_EPOCH: %w", err)
	}
	if n.CapellaForkEpoch, err = parseEpoch(cc.CapellaForkEpoch); err != nil {
		return fmt.Errorf("CAPELLA_FORK_EPOCH: %w", err)
	}
	if n.DenebForkEpoch, err = parseEpoch(cc.DenebForkEpoch); err != nil {
		return fmt.Errorf("DENEB_FORK_EPOCH: %w", err)
	}

	name := cc.ConfigName
	if name == "" {
		name = "custom"
	}
	c.apply(name, n)
	return nil
}

func parseEpoch(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	e, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *ChainConfig) apply(name string, n Network) {
	c.Name = name
	c.GenesisForkVersion = n.GenesisForkVersion
	c.Schedule = structs.ForkSchedule{
		BellatrixEpoch: epochOrFarFuture(n.BellatrixForkEpoch),
		CapellaEpoch:   epochOrFarFuture(n.CapellaForkEpoch),
		DenebEpoch:     epochOrFarFuture(n.DenebForkEpoch),
	}
}

func epochOrFarFuture(e *uint64) structs.Epoch {
	if e == nil {
		return structs.FarFutureEpoch
	}
	return structs.Epoch(*e)
}

// BuilderDomain is the builder signing domain: the genesis fork version with
// a zero genesis validators root.
func (c *ChainConfig) BuilderDomain() (types.Domain, error) {
	return ComputeDomain(types.DomainTypeAppBuilder, c.GenesisForkVersion, types.Root{})
}

// ComputeDomain computes the signing domain
func ComputeDomain(domainType types.DomainType, forkVersionHex string, genesisValidatorsRoot types.Root) (domain types.Domain, err error) {
	forkVersionBytes, err := hexutil.Decode(forkVersionHex)
	if err != nil || len(forkVersionBytes) != 4 {
		return domain, errors.New("invalid fork version passed")
	}
	var forkVersion [4]byte
	copy(forkVersion[:], forkVersionBytes)
	return types.ComputeDomain(domainType, forkVersion, genesisValidatorsRoot), nil
}
