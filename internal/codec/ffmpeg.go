package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"asset-library/internal/logging"
	"asset-library/internal/metrics"
)

// maxStderr bounds how much tool output is carried in an error.
const maxStderr = 512

// FFmpeg decodes video frames and uncommon still formats by piping PNG
// output from the ffmpeg binary. Every invocation runs under Timeout.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration
	// MaxWidth caps the width of extracted video frames.
	MaxWidth int
}

// New returns an FFmpeg adapter.
func New(ffmpegPath, ffprobePath string, timeout time.Duration, maxWidth int) *FFmpeg {
	return &FFmpeg{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Timeout:     timeout,
		MaxWidth:    maxWidth,
	}
}

// Available reports whether the ffmpeg binary can be found.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.FFmpegPath)
	return err == nil
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns the container duration of path in seconds.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	out, err := f.run(ctx, "ffprobe", f.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, err
	}
	return parseDuration(out)
}

func parseDuration(out []byte) (float64, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}

// ExtractFrame returns a PNG of the frame at pct (0..1) of the duration of
// the video at path, no wider than MaxWidth. When probing or seeking fails
// the first frame is used instead.
func (f *FFmpeg) ExtractFrame(ctx context.Context, path string, pct float64) ([]byte, error) {
	filter := fmt.Sprintf("scale='min(%d,iw)':-2", f.MaxWidth)

	if duration, err := f.Duration(ctx, path); err == nil && duration > 0 {
		offset := strconv.FormatFloat(duration*pct, 'f', 3, 64)
		out, err := f.pipePNG(ctx, path, filter, "-ss", offset)
		if err == nil {
			return out, nil
		}
		logging.Debug("Seek to %ss failed for %s: %v, using first frame", offset, path, err)
	} else if err != nil {
		logging.Debug("ffprobe failed for %s: %v, using first frame", path, err)
	}

	metrics.ThumbnailFallbacksTotal.WithLabelValues("seek", "first_frame").Inc()
	return f.pipePNG(ctx, path, filter)
}

// TranscodeStillFormat decodes the first frame of any still ffmpeg can read
// and scales it with Lanczos to fit within maxDim on both sides.
func (f *FFmpeg) TranscodeStillFormat(ctx context.Context, path string, maxDim int) ([]byte, error) {
	filter := fmt.Sprintf(
		"scale='min(%d,iw)':'min(%d,ih)':force_original_aspect_ratio=decrease:flags=lanczos",
		maxDim, maxDim)
	return f.pipePNG(ctx, path, filter)
}

// pipePNG runs ffmpeg on path and returns its single-frame PNG output.
// preInput args are placed before -i so seeking is input-side.
func (f *FFmpeg) pipePNG(ctx context.Context, path, filter string, preInput ...string) ([]byte, error) {
	args := append([]string{"-hide_banner", "-loglevel", "error"}, preInput...)
	args = append(args,
		"-i", path,
		"-frames:v", "1",
		"-vf", filter,
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	out, err := f.run(ctx, "ffmpeg", f.FFmpegPath, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}
	return out, nil
}

func (f *FFmpeg) run(ctx context.Context, tool, bin string, args ...string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	metrics.ExternalToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %v", tool, f.Timeout)
		}
		return nil, fmt.Errorf("%s failed: %w: %s", tool, err, truncate(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return s[:maxStderr] + "..."
	}
	return s
}
