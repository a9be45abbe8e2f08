package solc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// combinedJSONArgs asks solc for ABI and creation bytecode of every contract.
func combinedJSONArgs(sources []string) []string {
	return append([]string{"--combined-json", "abi,bin", "--base-path", "."}, sources...)
}

// Local runs a solc binary found on the host.
type Local struct {
	Binary string
}

func (s Local) CombinedJSON(ctx context.Context, sourcesDir string, sources []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.Binary, combinedJSONArgs(sources)...)
	cmd.Dir = sourcesDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", s.Binary, err, strings.TrimSpace(stderr.String()))
	}

	return output, nil
}
