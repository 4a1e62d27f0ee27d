package exchange

import (
	"context"
	"fmt"
	"log/slog"
)

// FrameSource is the optical capture port. Next blocks until the scanner
// recognizes a code and returns its text, or the context is cancelled. There
// is no timeout: a scan runs until cancelled or a payload is recognized.
type FrameSource interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// Scan reads recognized optical codes until one decodes into a dataset.
// Frames that are not a sync payload (someone else's code, a partial read)
// are logged and skipped; the camera keeps streaming. The capture resource
// is released on cancellation, on successful decode, and on capture failure.
func Scan(ctx context.Context, src FrameSource) (*Dataset, error) {
	defer func() {
		if err := src.Close(); err != nil {
			slog.WarnContext(ctx, "Failed to release capture source", "error", err)
		}
	}()

	for {
		frame, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("capture frame: %w", err)
		}

		ds, err := Decode([]byte(frame))
		if err != nil {
			slog.DebugContext(ctx, "Ignoring unrecognized frame", "error", err)
			continue
		}
		return ds, nil
	}
}
