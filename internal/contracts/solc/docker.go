package solc

import (
	"context"

	"github.com/compose-network/governance-deployer/internal/infra/docker"
)

// Docker runs solc from a pinned compiler image.
type Docker struct {
	Client *docker.Client
	Image  string
}

const dockerSourcesDir = "/sources"

func (s Docker) CombinedJSON(ctx context.Context, sourcesDir string, sources []string) ([]byte, error) {
	if err := s.Client.EnsureImage(ctx, s.Image); err != nil {
		return nil, err
	}

	result, err := s.Client.Run(ctx, docker.RunOptions{
		Image:    s.Image,
		Cmd:      combinedJSONArgs(sources),
		WorkDir:  dockerSourcesDir,
		InputDir: sourcesDir,
	})
	if err != nil {
		return nil, err
	}

	return result.Stdout, nil
}
