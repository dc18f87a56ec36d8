package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"asset-library/internal/metrics"
)

// ErrNoRenderer is returned when model previews are requested but no
// renderer command is configured.
var ErrNoRenderer = errors.New("no model renderer configured")

// CommandRenderer renders model previews with an external program. The
// program receives the model file on stdin and must write a PNG or JPEG to
// stdout. It is expected to frame the model, apply a neutral material, light
// it and rasterize a single view.
type CommandRenderer struct {
	Command []string
}

// NewCommandRenderer returns nil when command is empty.
func NewCommandRenderer(command []string) *CommandRenderer {
	if len(command) == 0 {
		return nil
	}
	return &CommandRenderer{Command: append([]string(nil), command...)}
}

// RenderPreview runs the configured command on model.
func (r *CommandRenderer) RenderPreview(ctx context.Context, model []byte) ([]byte, error) {
	if r == nil || len(r.Command) == 0 {
		return nil, ErrNoRenderer
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(model)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	metrics.ExternalToolDuration.WithLabelValues("renderer").Observe(time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("renderer: %w", ctxErr)
		}
		return nil, fmt.Errorf("renderer failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, errors.New("renderer produced no output")
	}
	return stdout.Bytes(), nil
}
