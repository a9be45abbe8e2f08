package contracts_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/contracts/contractstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSolc struct {
	output     []byte
	err        error
	sourcesDir string
	sources    []string
}

func (f *fakeSolc) CombinedJSON(_ context.Context, sourcesDir string, sources []string) ([]byte, error) {
	f.sourcesDir = sourcesDir
	f.sources = sources
	return f.output, f.err
}

// combinedJSON renders solc output for every stub contract. stringABI mimics
// releases that emit the ABI as an escaped string.
func combinedJSON(stringABI bool) []byte {
	var entries []string
	for name, abiJSON := range contractstest.ConstructorABIs {
		compact := strings.Join(strings.Fields(abiJSON), "")
		abiField := compact
		if stringABI {
			abiField = fmt.Sprintf("%q", compact)
		}
		entries = append(entries, fmt.Sprintf(`"%s.sol:%s":{"abi":%s,"bin":"%s"}`,
			name, name, abiField, strings.TrimPrefix(contractstest.StubBytecode, "0x")))
	}
	return []byte(`{"contracts":{` + strings.Join(entries, ",") + `},"version":"0.8.0+commit.c7dfd78e"}`)
}

func writeSources(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{"MetaGovernor.sol", "uni/Uni.sol", "README.md"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("// SPDX-License-Identifier: MIT\n"), 0644))
	}
	return dir
}

func TestCompilerWritesLoadableArtifacts(t *testing.T) {
	for _, stringABI := range []bool{false, true} {
		t.Run(fmt.Sprintf("string_abi=%v", stringABI), func(t *testing.T) {
			sourcesDir := writeSources(t)
			artifactsDir := t.TempDir()
			solc := &fakeSolc{output: combinedJSON(stringABI)}

			names := []contracts.ContractName{contracts.ContractNameMetaGovernor, contracts.ContractNameUni}
			require.NoError(t, contracts.NewCompiler(sourcesDir, artifactsDir, solc).Compile(context.Background(), names))

			assert.Equal(t, sourcesDir, solc.sourcesDir)
			assert.Equal(t, []string{"MetaGovernor.sol", "uni/Uni.sol"}, solc.sources)
			assert.FileExists(t, filepath.Join(artifactsDir, "contracts", "MetaGovernor.sol", "MetaGovernor.json"))

			loaded, err := contracts.NewLoader(artifactsDir).Load(names...)
			require.NoError(t, err)
			assert.Len(t, loaded[contracts.ContractNameMetaGovernor].ABI.Constructor.Inputs, 3)
			assert.Len(t, loaded[contracts.ContractNameUni].ABI.Constructor.Inputs, 3)
		})
	}
}

func TestCompilerErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("solc failure", func(t *testing.T) {
		solc := &fakeSolc{err: errors.New("ParserError")}
		err := contracts.NewCompiler(writeSources(t), t.TempDir(), solc).Compile(ctx, []contracts.ContractName{contracts.ContractNameUni})
		assert.ErrorContains(t, err, "solc failed: ParserError")
	})

	t.Run("missing contract", func(t *testing.T) {
		solc := &fakeSolc{output: combinedJSON(false)}
		err := contracts.NewCompiler(writeSources(t), t.TempDir(), solc).Compile(ctx, []contracts.ContractName{"GovernorBravo"})
		assert.ErrorIs(t, err, contracts.ErrUnknownContract)
	})

	t.Run("no sources", func(t *testing.T) {
		solc := &fakeSolc{output: combinedJSON(false)}
		err := contracts.NewCompiler(t.TempDir(), t.TempDir(), solc).Compile(ctx, []contracts.ContractName{contracts.ContractNameUni})
		assert.ErrorContains(t, err, "no solidity sources found")
	})

	t.Run("malformed output", func(t *testing.T) {
		solc := &fakeSolc{output: []byte(`{"contracts":{"Uni":{"abi":[],"bin":""}}}`)}
		err := contracts.NewCompiler(writeSources(t), t.TempDir(), solc).Compile(ctx, []contracts.ContractName{contracts.ContractNameUni})
		assert.ErrorContains(t, err, "unexpected contract key 'Uni'")
	})
}
