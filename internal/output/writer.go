package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/deployer"
	"github.com/compose-network/governance-deployer/internal/infra/filesystem"
	"github.com/compose-network/governance-deployer/internal/logger"
)

type store interface {
	filesystem.Reader
	filesystem.Writer
}

// Writer persists deployment records below <deployments>/<network>/.
type Writer struct {
	store  store
	logger *slog.Logger
}

func NewWriter(store store) *Writer {
	return &Writer{
		store:  store,
		logger: logger.Named("output_writer"),
	}
}

// Write stores record as <script>.json and <script>.yaml and returns the JSON path.
func (w *Writer) Write(network, script string, chainID *big.Int, record *deployer.Record, compiled map[contracts.ContractName]contracts.CompiledContract) (string, error) {
	if chainID == nil {
		return "", fmt.Errorf("chain ID is required")
	}

	recordFile := RecordFile{
		ChainInfo:   ChainInfo{ChainID: chainID.Uint64()},
		Network:     network,
		Script:      script,
		Addresses:   record.Addresses(),
		Deployments: record.Deployments(),
	}

	jsonPath := recordPath(network, script)
	if err := w.store.WriteJSON(jsonPath, recordFile); err != nil {
		return "", fmt.Errorf("could not write deployment record: %w", err)
	}

	summary := Summary{
		Network:   network,
		ChainID:   chainID.Uint64(),
		Script:    script,
		Contracts: make(map[string]ContractConfig, record.Len()),
	}
	for _, d := range record.Deployments() {
		summary.Contracts[strings.ToLower(string(d.Name))] = ContractConfig{
			Address: d.Address,
			TxHash:  d.TxHash,
			Block:   d.BlockNumber,
			ABI:     SingleQuotedString(compactJSON(compiled[d.Name].RawABI)),
		}
	}

	yamlPath := filepath.Join(network, script+".yaml")
	if err := w.store.WriteYAML(yamlPath, summary); err != nil {
		return "", fmt.Errorf("could not write deployment summary: %w", err)
	}

	w.logger.
		With("network", network).
		With("script", script).
		With("record", jsonPath).
		With("summary", yamlPath).
		Info("deployment output written")

	return jsonPath, nil
}

// Read loads the record a previous run wrote for script on network.
func (w *Writer) Read(network, script string) (RecordFile, error) {
	var recordFile RecordFile
	if err := w.store.ReadJSON(recordPath(network, script), &recordFile); err != nil {
		return RecordFile{}, fmt.Errorf("could not read deployment record for %s on %s: %w", script, network, err)
	}

	return recordFile, nil
}

func recordPath(network, script string) string {
	return filepath.Join(network, script+".json")
}

func compactJSON(jsonStr string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(jsonStr)); err != nil {
		return jsonStr
	}
	return buf.String()
}
