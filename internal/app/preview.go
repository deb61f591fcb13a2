package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/preview"
	"github.com/specialistvlad/pulseduck/internal/sequence"
)

// Publish sends the preview snapshot of s to the socket.io server in opts.
func (a *App) Publish(ctx context.Context, s *sequence.Sequence, opts preview.DialOptions) error {
	ctx = a.Context(ctx)
	emitter, err := a.DialPreview(ctx, opts)
	if err != nil {
		return err
	}
	defer a.ClosePreview(emitter)

	return preview.NewPublisher(emitter).Publish(ctx, s)
}

// WatchFile publishes the snapshot of s through emitter, then re-reads path
// every interval until ctx is done. Option values of a changed file are
// copied onto s and every preview key they alter is published on its own.
// The caller owns emitter.
func (a *App) WatchFile(ctx context.Context, path string, s *sequence.Sequence, emitter preview.Emitter, interval time.Duration) error {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	if interval <= 0 {
		return fmt.Errorf("invalid watch interval %s: must be positive", interval)
	}

	modTime, err := fileModTime(path)
	if err != nil {
		return err
	}

	pub := preview.NewPublisher(emitter)
	if err := pub.Publish(ctx, s); err != nil {
		return err
	}
	stop := pub.Watch(ctx, s)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("Watching sequence file.", "path", path, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching sequence file.", "path", path)
			return nil
		case <-ticker.C:
		}

		current, err := fileModTime(path)
		if err != nil {
			logger.Warn("Cannot stat sequence file.", "path", path, "error", err)
			continue
		}
		if current.Equal(modTime) {
			continue
		}
		modTime = current

		reloaded, err := a.LoadSequence(ctx, path)
		var partial *sequence.PartialLoadError
		if err != nil && !(errors.As(err, &partial) && reloaded != nil) {
			logger.Warn("Reloading sequence failed.", "path", path, "error", err)
			continue
		}
		changed, err := preview.Sync(s, reloaded)
		if err != nil {
			logger.Warn("Applying reloaded sequence failed.", "path", path, "error", err)
			continue
		}
		logger.Debug("Applied reloaded sequence.", "path", path, "changed", changed)
	}
}

// DialPreview connects the preview channel described by opts.
func (a *App) DialPreview(ctx context.Context, opts preview.DialOptions) (preview.Emitter, error) {
	emitter, err := preview.Dial(a.Context(ctx), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect preview channel: %w", err)
	}
	return emitter, nil
}

// ClosePreview closes emitter, logging a failure.
func (a *App) ClosePreview(emitter preview.Emitter) {
	if err := emitter.Close(); err != nil {
		a.logger.Warn("Closing preview channel failed.", "error", err)
	}
}

func fileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat sequence file: %w", err)
	}
	return info.ModTime(), nil
}
