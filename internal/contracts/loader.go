package contracts

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Loader reads compiled contract artifacts from a build directory.
type Loader struct {
	artifactsDir string
	logger       *slog.Logger
}

// NewLoader creates a loader for artifacts stored below artifactsDir
func NewLoader(artifactsDir string) *Loader {
	return &Loader{
		artifactsDir: artifactsDir,
		logger:       logger.Named("contracts_loader"),
	}
}

// Load loads the requested contracts. Every name must resolve to exactly one artifact.
func (l *Loader) Load(names ...ContractName) (map[ContractName]CompiledContract, error) {
	if _, err := os.Stat(l.artifactsDir); err != nil {
		return nil, fmt.Errorf("artifacts directory not available. Directory: '%s': %w", l.artifactsDir, err)
	}

	paths, err := l.index()
	if err != nil {
		return nil, err
	}

	loaded := make(map[ContractName]CompiledContract, len(names))
	for _, name := range names {
		candidates := paths[name]
		switch len(candidates) {
		case 0:
			return nil, fmt.Errorf("%w: no artifact for %s in %s", ErrUnknownContract, name, l.artifactsDir)
		case 1:
		default:
			return nil, fmt.Errorf("ambiguous artifacts for %s: %s", name, strings.Join(candidates, ", "))
		}

		contract, err := readArtifact(candidates[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		contract.Name = name
		loaded[name] = contract

		l.logger.With("contract", name).With("path", candidates[0]).Debug("artifact loaded")
	}

	return loaded, nil
}

// index maps artifact file names to their paths. Debug files written next to
// Hardhat artifacts are skipped.
func (l *Loader) index() (map[ContractName][]string, error) {
	paths := make(map[ContractName][]string)

	err := filepath.WalkDir(l.artifactsDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}

		base := entry.Name()
		if filepath.Ext(base) != ".json" || strings.HasSuffix(base, ".dbg.json") {
			return nil
		}

		name := ContractName(strings.TrimSuffix(base, ".json"))
		paths[name] = append(paths[name], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifacts directory: %w", err)
	}

	return paths, nil
}

func readArtifact(path string) (CompiledContract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CompiledContract{}, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return CompiledContract{}, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	return parseArtifact(artifact)
}

// parseArtifact turns an artifact into a deployable contract
func parseArtifact(artifact Artifact) (CompiledContract, error) {
	if len(artifact.ABI) == 0 {
		return CompiledContract{}, errors.New("artifact has no ABI")
	}

	parsedABI, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return CompiledContract{}, fmt.Errorf("failed to parse ABI for %s: %w", artifact.ContractName, err)
	}

	bytecodeHex := strings.TrimPrefix(strings.TrimSpace(artifact.Bytecode), "0x")
	if bytecodeHex == "" {
		return CompiledContract{}, fmt.Errorf("%w: %s", ErrEmptyBytecode, artifact.ContractName)
	}
	if strings.Contains(bytecodeHex, "__") {
		return CompiledContract{}, fmt.Errorf("bytecode of %s has unlinked library placeholders", artifact.ContractName)
	}
	bytecode, err := hex.DecodeString(bytecodeHex)
	if err != nil {
		return CompiledContract{}, fmt.Errorf("bytecode of %s is not valid hex: %w", artifact.ContractName, err)
	}

	return CompiledContract{
		Name:     ContractName(artifact.ContractName),
		ABI:      parsedABI,
		RawABI:   string(artifact.ABI),
		Bytecode: bytecode,
	}, nil
}
