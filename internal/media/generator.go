package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"asset-library/internal/assettypes"
	"asset-library/internal/filesystem"
	"asset-library/internal/logging"
	"asset-library/internal/metrics"
	"asset-library/internal/store"

	"github.com/disintegration/imaging"
)

// ImageScaler decodes a still from disk and returns it scaled to fit within
// maxW x maxH, encoded.
type ImageScaler interface {
	ScaleToFit(ctx context.Context, path string, maxW, maxH int) ([]byte, error)
}

// VideoCodec decodes frames through an external codec.
type VideoCodec interface {
	ExtractFrame(ctx context.Context, path string, pct float64) ([]byte, error)
	TranscodeStillFormat(ctx context.Context, path string, maxDim int) ([]byte, error)
}

// SceneRenderer turns model bytes into an encoded preview image.
type SceneRenderer interface {
	RenderPreview(ctx context.Context, model []byte) ([]byte, error)
}

// Options configures a Generator. Nil collaborators disable the strategies
// that need them.
type Options struct {
	Scaler       ImageScaler
	Codec        VideoCodec
	Renderer     SceneRenderer
	MaxDimension int
	// Timeout bounds each collaborator call.
	Timeout time.Duration
}

// Generator writes <entry>/thumbnail.png for every kind of source. Each
// strategy reports success as a bool: a failed thumbnail is logged and
// counted, never returned as an error.
type Generator struct {
	scaler   ImageScaler
	codec    VideoCodec
	renderer SceneRenderer
	maxDim   int
	timeout  time.Duration
}

// NewGenerator returns a Generator. MaxDimension defaults to 512.
func NewGenerator(opts Options) *Generator {
	maxDim := opts.MaxDimension
	if maxDim <= 0 {
		maxDim = 512
	}
	return &Generator{
		scaler:   opts.Scaler,
		codec:    opts.Codec,
		renderer: opts.Renderer,
		maxDim:   maxDim,
		timeout:  opts.Timeout,
	}
}

// MaxDimension returns the longest side of generated thumbnails.
func (g *Generator) MaxDimension() int {
	return g.maxDim
}

// HasRenderer reports whether model previews can be rendered in-process.
func (g *Generator) HasRenderer() bool {
	return g.renderer != nil
}

// ForFile picks the strategy matching the extension of src.
func (g *Generator) ForFile(ctx context.Context, src, entryDir string) bool {
	switch assettypes.Classify(src) {
	case assettypes.SourceVideo:
		return g.ForVideo(ctx, src, entryDir)
	case assettypes.SourceStill:
		return g.ForStill(ctx, src, entryDir)
	case assettypes.SourceWideGamut:
		return g.ForWideGamut(ctx, src, entryDir)
	case assettypes.SourceModel:
		return g.ForModel(ctx, src, entryDir)
	default:
		logging.Debug("No thumbnail strategy for %s", src)
		return false
	}
}

// ForVideo uses the frame at 10% of the duration.
func (g *Generator) ForVideo(ctx context.Context, src, entryDir string) bool {
	return g.generate(ctx, "video", src, entryDir, func(ctx context.Context) (image.Image, error) {
		if g.codec == nil {
			return nil, fmt.Errorf("no video codec configured")
		}
		data, err := g.codec.ExtractFrame(ctx, src, 0.10)
		if err != nil {
			return nil, err
		}
		return decodeBytes(data)
	})
}

// ForStill decodes common formats in-process and falls back to the
// wide-gamut path when that fails.
func (g *Generator) ForStill(ctx context.Context, src, entryDir string) bool {
	return g.generate(ctx, "still", src, entryDir, func(ctx context.Context) (image.Image, error) {
		return g.decodeStill(ctx, src)
	})
}

// ForWideGamut decodes with the image scaler, then with the codec.
func (g *Generator) ForWideGamut(ctx context.Context, src, entryDir string) bool {
	return g.generate(ctx, "wide_gamut", src, entryDir, func(ctx context.Context) (image.Image, error) {
		return g.decodeWideGamut(ctx, src)
	})
}

// ForSequence thumbnails the frame at index floor(len(frames)*0.1).
// frames must already be in playback order.
func (g *Generator) ForSequence(ctx context.Context, frames []string, entryDir string) bool {
	if len(frames) == 0 {
		logging.Warn("Thumbnail skipped for %s: sequence has no frames", entryDir)
		metrics.ThumbnailGenerationsTotal.WithLabelValues("sequence", "error").Inc()
		return false
	}
	frame := frames[SequenceFrameIndex(len(frames))]
	return g.generate(ctx, "sequence", frame, entryDir, func(ctx context.Context) (image.Image, error) {
		if assettypes.Classify(frame) == assettypes.SourceWideGamut {
			return g.decodeWideGamut(ctx, frame)
		}
		return g.decodeStill(ctx, frame)
	})
}

// SequenceFrameIndex returns the representative frame of a sequence.
func SequenceFrameIndex(frameCount int) int {
	if frameCount <= 1 {
		return 0
	}
	return frameCount / 10
}

// ForModel renders the model file at src.
func (g *Generator) ForModel(ctx context.Context, src, entryDir string) bool {
	return g.generate(ctx, "model", src, entryDir, func(ctx context.Context) (image.Image, error) {
		if g.renderer == nil {
			return nil, ErrNoRenderer
		}
		model, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		data, err := g.renderer.RenderPreview(ctx, model)
		if err != nil {
			return nil, err
		}
		return decodeBytes(data)
	})
}

// SaveEncoded stores an already rendered preview. The bytes are decoded to
// validate them and re-encoded as a fitted PNG.
func (g *Generator) SaveEncoded(entryDir string, data []byte) error {
	start := time.Now()

	img, err := decodeBytes(data)
	if err == nil {
		err = g.write(img, entryDir)
	} else {
		err = fmt.Errorf("%w: %v", assettypes.ErrDecode, err)
	}

	metrics.ThumbnailGenerationDuration.WithLabelValues("encoded").Observe(time.Since(start).Seconds())
	metrics.ThumbnailGenerationsTotal.WithLabelValues("encoded", metrics.StatusLabel(err)).Inc()
	return err
}

func (g *Generator) decodeStill(ctx context.Context, src string) (image.Image, error) {
	img, err := LoadImageConstrained(src, MaxImageDimension, MaxImagePixels)
	if err == nil {
		return img, nil
	}

	logging.Debug("In-process decode failed for %s: %v, trying wide-gamut path", src, err)
	metrics.ThumbnailFallbacksTotal.WithLabelValues("still", "wide_gamut").Inc()
	return g.decodeWideGamut(ctx, src)
}

func (g *Generator) decodeWideGamut(ctx context.Context, src string) (image.Image, error) {
	var scalerErr error
	if g.scaler != nil {
		data, err := g.scaler.ScaleToFit(ctx, src, g.maxDim, g.maxDim)
		if err == nil {
			img, decodeErr := decodeBytes(data)
			if decodeErr == nil {
				return img, nil
			}
			err = decodeErr
		}
		scalerErr = err
		logging.Debug("Scaler failed for %s: %v, trying codec", src, err)
		metrics.ThumbnailFallbacksTotal.WithLabelValues("vips", "ffmpeg").Inc()
	}

	if g.codec == nil {
		if scalerErr != nil {
			return nil, scalerErr
		}
		return nil, fmt.Errorf("no decoder available for %s", src)
	}

	data, err := g.codec.TranscodeStillFormat(ctx, src, g.maxDim)
	if err != nil {
		return nil, err
	}
	return decodeBytes(data)
}

// generate runs decode under the collaborator timeout, fits and writes the
// result. Panics in decoders are recovered and reported as failure.
func (g *Generator) generate(ctx context.Context, source, src, entryDir string, decode func(context.Context) (image.Image, error)) (ok bool) {
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			ok = false
		}
		metrics.ThumbnailGenerationDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
		metrics.ThumbnailGenerationsTotal.WithLabelValues(source, metrics.StatusLabel(err)).Inc()
		if err != nil {
			logging.Warn("Thumbnail generation failed for %s (%s): %v", src, source, err)
		} else {
			logging.Debug("Thumbnail generated for %s in %v", src, time.Since(start))
		}
	}()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	img, err := decode(ctx)
	if err != nil {
		return false
	}
	if img == nil {
		err = fmt.Errorf("decoder returned no image")
		return false
	}
	if err = g.write(img, entryDir); err != nil {
		return false
	}
	return true
}

func (g *Generator) write(img image.Image, entryDir string) error {
	thumb := imaging.Fit(img, g.maxDim, g.maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return filesystem.WriteFileAtomic(store.ThumbnailPath(entryDir), buf.Bytes(), 0o644)
}
