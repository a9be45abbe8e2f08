// Package contractstest writes stand-in artifacts for the governance
// contracts, so deployments can run against a simulated chain without solc.
package contractstest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const (
	// StubBytecode copies a 10 byte runtime (which returns the word 1) and
	// ignores any appended constructor arguments.
	StubBytecode = "0x600a600c600039600a6000f3600160005260206000f3"
	// StubRuntime is the code StubBytecode leaves at the deployed address.
	StubRuntime = "0x600160005260206000f3"
	// RevertingBytecode reverts in the constructor.
	RevertingBytecode = "0x60006000fd"
)

// ConstructorABIs holds the constructor signatures of the deployed contracts.
var ConstructorABIs = map[string]string{
	"MetaGovernor": `[{"inputs":[
		{"internalType":"address","name":"aaveGovernor_","type":"address"},
		{"internalType":"address","name":"compoundGovernor_","type":"address"},
		{"internalType":"address","name":"uniGovernor_","type":"address"}
	],"stateMutability":"nonpayable","type":"constructor"}]`,
	"UniTimelock": `[{"inputs":[
		{"internalType":"address","name":"admin_","type":"address"},
		{"internalType":"uint256","name":"delay_","type":"uint256"}
	],"stateMutability":"nonpayable","type":"constructor"}]`,
	"Uni": `[{"inputs":[
		{"internalType":"address","name":"account","type":"address"},
		{"internalType":"address","name":"minter_","type":"address"},
		{"internalType":"uint256","name":"mintingAllowedAfter_","type":"uint256"}
	],"stateMutability":"nonpayable","type":"constructor"}]`,
	"UniGovernorAlpha": `[{"inputs":[
		{"internalType":"address","name":"timelock_","type":"address"},
		{"internalType":"address","name":"uni_","type":"address"}
	],"stateMutability":"nonpayable","type":"constructor"}]`,
}

// WriteArtifacts writes a Hardhat style artifact for every contract in
// ConstructorABIs below dir and returns dir. bytecode overrides StubBytecode
// per contract name.
func WriteArtifacts(t testing.TB, dir string, bytecode map[string]string) string {
	t.Helper()

	for name, abiJSON := range ConstructorABIs {
		code := StubBytecode
		if override, ok := bytecode[name]; ok {
			code = override
		}

		artifact := map[string]any{
			"_format":      "hh-sol-artifact-1",
			"contractName": name,
			"sourceName":   "contracts/" + name + ".sol",
			"abi":          json.RawMessage(abiJSON),
			"bytecode":     code,
		}
		artifactDir := filepath.Join(dir, "contracts", name+".sol")
		writeJSON(t, filepath.Join(artifactDir, name+".json"), artifact)
		writeJSON(t, filepath.Join(artifactDir, name+".dbg.json"), map[string]any{
			"_format":   "hh-sol-dbg-1",
			"buildInfo": "../../build-info/stub.json",
		})
	}

	return dir
}

func writeJSON(t testing.TB, path string, data any) {
	t.Helper()

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
