package output

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/deployer"
	"github.com/compose-network/governance-deployer/internal/infra/filesystem"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testRecord(t *testing.T) *deployer.Record {
	t.Helper()

	record := deployer.NewRecord()
	require.NoError(t, record.Add(deployer.Deployment{
		Name:        contracts.ContractNameUniTimelock,
		Address:     common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		TxHash:      common.HexToHash("0xaa"),
		BlockNumber: 1,
		DeployedAt:  time.Date(2021, 6, 11, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, record.Add(deployer.Deployment{
		Name:        contracts.ContractNameUni,
		Address:     common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
		TxHash:      common.HexToHash("0xbb"),
		BlockNumber: 2,
		DeployedAt:  time.Date(2021, 6, 11, 0, 0, 1, 0, time.UTC),
	}))
	return record
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(filesystem.NewStore(dir))
	record := testRecord(t)
	compiled := map[contracts.ContractName]contracts.CompiledContract{
		contracts.ContractNameUni: {RawABI: "[\n  {\"type\": \"constructor\", \"inputs\": []}\n]"},
	}

	path, err := writer.Write("simulated", "uni-governance", big.NewInt(1337), record, compiled)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("simulated", "uni-governance.json"), path)

	got, err := writer.Read("simulated", "uni-governance")
	require.NoError(t, err)
	assert.Equal(t, uint64(1337), got.ChainInfo.ChainID)
	assert.Equal(t, "uni-governance", got.Script)
	assert.Equal(t, record.Addresses(), got.Addresses)
	assert.Equal(t, record.Deployments(), got.Deployments)

	raw, err := os.ReadFile(filepath.Join(dir, "simulated", "uni-governance.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `abi: '[{"type":"constructor","inputs":[]}]'`)

	var summary struct {
		ChainID   uint64 `yaml:"chain-id"`
		Contracts map[string]struct {
			Address common.Address `yaml:"address"`
			Block   uint64 `yaml:"block"`
		} `yaml:"contracts"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &summary))
	assert.Equal(t, uint64(1337), summary.ChainID)
	timelock, err := record.Address(contracts.ContractNameUniTimelock)
	require.NoError(t, err)
	assert.Equal(t, timelock, summary.Contracts["unitimelock"].Address)
	// Addresses are written through MarshalText, which is lowercase hex.
	assert.Contains(t, string(raw), "0x5fbdb2315678afecb367f032d93f642f64180aa3")
	assert.Equal(t, uint64(2), summary.Contracts["uni"].Block)
}

func TestWriterReadMissingRecord(t *testing.T) {
	writer := NewWriter(filesystem.NewStore(t.TempDir()))

	_, err := writer.Read("kovan", "meta-governor")
	assert.ErrorContains(t, err, "could not read deployment record for meta-governor on kovan")
}

func TestWriterRequiresChainID(t *testing.T) {
	writer := NewWriter(filesystem.NewStore(t.TempDir()))

	_, err := writer.Write("simulated", "meta-governor", nil, deployer.NewRecord(), nil)
	assert.ErrorContains(t, err, "chain ID is required")
}
