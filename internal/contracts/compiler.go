package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

type (
	// solc produces `solc --combined-json abi,bin` output for the given sources,
	// which are relative to sourcesDir. Implementations live in package solc.
	solc interface {
		CombinedJSON(ctx context.Context, sourcesDir string, sources []string) ([]byte, error)
	}

	// Compiler compiles Solidity contracts into Hardhat style artifacts
	Compiler struct {
		contractsDir string
		artifactsDir string
		solc         solc
		logger       *slog.Logger
	}

	combinedOutput struct {
		Contracts map[string]struct {
			ABI json.RawMessage `json:"abi"`
			Bin string          `json:"bin"`
		} `json:"contracts"`
		Version string `json:"version"`
	}
)

// NewCompiler creates a new contract compiler
func NewCompiler(contractsDir, artifactsDir string, solc solc) *Compiler {
	return &Compiler{
		contractsDir: contractsDir,
		artifactsDir: artifactsDir,
		solc:         solc,
		logger:       logger.Named("contracts_compiler"),
	}
}

// Compile compiles every source below the contracts directory and writes one
// artifact per requested contract.
func (c *Compiler) Compile(ctx context.Context, names []ContractName) error {
	c.logger.
		With("contracts_dir", c.contractsDir).
		Info("starting contract compilation")

	sources, err := c.sources()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no solidity sources found in %s", c.contractsDir)
	}

	c.logger.With("sources", sources).Debug("running solc")
	raw, err := c.solc.CombinedJSON(ctx, c.contractsDir, sources)
	if err != nil {
		return fmt.Errorf("solc failed: %w", err)
	}

	artifacts, err := parseCombinedOutput(raw)
	if err != nil {
		return err
	}

	for _, name := range names {
		artifact, ok := artifacts[name]
		if !ok {
			return fmt.Errorf("%w: solc output has no %s", ErrUnknownContract, name)
		}

		// Validate before persisting so a broken artifact never reaches the deployer.
		if _, err := parseArtifact(artifact); err != nil {
			return fmt.Errorf("invalid compiler output for %s: %w", name, err)
		}

		path := filepath.Join(c.artifactsDir, "contracts", filepath.Base(artifact.SourceName), string(name)+".json")
		if err := writeArtifact(path, artifact); err != nil {
			return fmt.Errorf("failed to write artifact for %s: %w", name, err)
		}

		c.logger.With("contract", name).With("path", path).Info("contract compiled")
	}

	c.logger.Info("contracts compiled successfully")

	return nil
}

func (c *Compiler) sources() ([]string, error) {
	var sources []string
	err := filepath.WalkDir(c.contractsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(path) != ".sol" {
			return nil
		}

		rel, err := filepath.Rel(c.contractsDir, path)
		if err != nil {
			return err
		}
		sources = append(sources, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources in %s: %w", c.contractsDir, err)
	}

	sort.Strings(sources)
	return sources, nil
}

// parseCombinedOutput indexes solc combined JSON by contract name. Keys in the
// output have the form "<source path>:<contract name>".
func parseCombinedOutput(raw []byte) (map[ContractName]Artifact, error) {
	var output combinedOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("failed to parse solc output: %w", err)
	}

	artifacts := make(map[ContractName]Artifact, len(output.Contracts))
	for key, compiled := range output.Contracts {
		idx := strings.LastIndex(key, ":")
		if idx < 0 {
			return nil, fmt.Errorf("unexpected contract key '%s' in solc output", key)
		}
		sourceName, name := key[:idx], key[idx+1:]

		abiJSON, err := normalizeABI(compiled.ABI)
		if err != nil {
			return nil, fmt.Errorf("failed to read ABI of %s: %w", key, err)
		}

		if existing, ok := artifacts[ContractName(name)]; ok {
			return nil, fmt.Errorf("contract %s is defined in both %s and %s", name, existing.SourceName, sourceName)
		}

		artifacts[ContractName(name)] = Artifact{
			Format:       artifactFormat,
			ContractName: name,
			SourceName:   sourceName,
			ABI:          abiJSON,
			Bytecode:     "0x" + strings.TrimPrefix(compiled.Bin, "0x"),
		}
	}

	return artifacts, nil
}

// normalizeABI accepts the ABI either as a JSON array or, as older solc
// releases emit it, as a string holding the array.
func normalizeABI(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(trimmed, &unquoted); err != nil {
			return nil, err
		}
		trimmed = []byte(unquoted)
	}

	if _, err := abi.JSON(bytes.NewReader(trimmed)); err != nil {
		return nil, err
	}

	return json.RawMessage(trimmed), nil
}

func writeArtifact(path string, artifact Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}
