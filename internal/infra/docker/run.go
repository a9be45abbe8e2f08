package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/moby/go-archive"
)

type (
	RunOptions struct {
		Image   string
		Cmd     []string
		WorkDir string
		// InputDir is copied into WorkDir before the container starts.
		InputDir string
	}

	RunResult struct {
		Stdout []byte
		Stderr []byte
	}
)

// Run runs a one-shot container, waits for it to exit and returns its output.
// The container is removed afterwards.
func (c *Client) Run(ctx context.Context, opts RunOptions) (result RunResult, err error) {
	if opts.InputDir != "" && opts.WorkDir == "" {
		return RunResult{}, errors.New("work dir is required when an input dir is given")
	}

	resp, err := c.cli.ContainerCreate(ctx, &container.Config{
		Image:      opts.Image,
		Cmd:        opts.Cmd,
		WorkingDir: opts.WorkDir,
	}, &container.HostConfig{}, nil, nil, "")
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to create container: %w", err)
	}
	containerID := resp.ID

	defer func() {
		if rmErr := c.cli.ContainerRemove(context.WithoutCancel(ctx), containerID, container.RemoveOptions{Force: true}); rmErr != nil {
			c.logger.With("container_id", containerID).With("err", rmErr.Error()).Warn("failed to remove container")
		}
	}()

	if opts.InputDir != "" {
		if err := c.copyDir(ctx, containerID, opts.InputDir, opts.WorkDir); err != nil {
			return RunResult{}, err
		}
	}

	attachResp, err := c.cli.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attachResp.Close()

	var stdout, stderr bytes.Buffer
	copied := make(chan error, 1)
	go func() {
		_, copyErr := stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader)
		copied <- copyErr
	}()

	if err := c.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return RunResult{}, fmt.Errorf("failed to start container: %w", err)
	}

	c.logger.With("image", opts.Image).With("container_id", containerID).Debug("container started")

	statusCh, errCh := c.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	var exitCode int64
	select {
	case err := <-errCh:
		if err != nil {
			return RunResult{}, fmt.Errorf("error waiting for container: %w", err)
		}
	case status := <-statusCh:
		exitCode = status.StatusCode
	}

	select {
	case copyErr := <-copied:
		if copyErr != nil {
			return RunResult{}, fmt.Errorf("failed to read container output: %w", copyErr)
		}
	case <-ctx.Done():
		return RunResult{}, ctx.Err()
	}

	result = RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if exitCode != 0 {
		if stderr.Len() > 0 {
			return result, fmt.Errorf("container exited with code %d: %s", exitCode, stderr.String())
		}
		return result, fmt.Errorf("container exited with code %d", exitCode)
	}

	return result, nil
}

func (c *Client) copyDir(ctx context.Context, containerID, srcDir, dstDir string) error {
	content, err := archive.TarWithOptions(srcDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", srcDir, err)
	}
	defer content.Close()

	if err := c.cli.CopyToContainer(ctx, containerID, dstDir, content, container.CopyToContainerOptions{}); err != nil {
		return fmt.Errorf("failed to copy %s into container: %w", srcDir, err)
	}

	return nil
}
