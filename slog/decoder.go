package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cbprofile"
)

// Ensure LoggingProfileDecoder implements cbprofile.ProfileDecoder.
var _ cbprofile.ProfileDecoder = (*LoggingProfileDecoder)(nil)

// LoggingProfileDecoder wraps a ProfileDecoder with logging.
type LoggingProfileDecoder struct {
	next   cbprofile.ProfileDecoder
	logger *slog.Logger
}

// NewLoggingProfileDecoder creates a new LoggingProfileDecoder.
func NewLoggingProfileDecoder(next cbprofile.ProfileDecoder, logger *slog.Logger) *LoggingProfileDecoder {
	return &LoggingProfileDecoder{next: next, logger: logger}
}

// DecodeProfile logs the decoded profile's name and section count.
func (d *LoggingProfileDecoder) DecodeProfile(ctx context.Context, b cbprofile.Browser, req cbprofile.ProfileRequest) (p *cbprofile.Profile, err error) {
	defer func(begin time.Time) {
		var name string
		var sections int
		if p != nil {
			name = p.Name
			sections = p.Sections.Len()
		}
		d.logger.Info("decode profile",
			"url", req.URL,
			"name", name,
			"sections", sections,
			"elevated", req.Elevated,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DecodeProfile(ctx, b, req)
}
