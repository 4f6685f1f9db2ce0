// Package reliability exports strategy history to object storage and keeps
// the local database healthy.
package reliability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/praxos/vaults/internal/events"
	"github.com/rs/zerolog"
)

const exportTimestampFormat = "2006-01-02T150405Z"

// Snapshotter writes the strategy history as JSON and returns how many
// strategies it wrote
type Snapshotter interface {
	ExportJSON(w io.Writer) (int, error)
}

// ExportRecorder receives export outcomes
type ExportRecorder interface {
	ExportSucceeded(bytes int)
	ExportFailed()
}

type noopExportRecorder struct{}

func (noopExportRecorder) ExportSucceeded(int) {}
func (noopExportRecorder) ExportFailed()       {}

// ExportResult describes one uploaded snapshot
type ExportResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Bytes int    `json:"bytes"`
}

// ExportService uploads JSON snapshots of the strategy history
type ExportService struct {
	source       Snapshotter
	uploader     Uploader
	eventManager *events.Manager
	metrics      ExportRecorder
	prefix       string
	now          func() time.Time
	log          zerolog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	source Snapshotter,
	uploader Uploader,
	eventManager *events.Manager,
	prefix string,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{
		source:       source,
		uploader:     uploader,
		eventManager: eventManager,
		metrics:      noopExportRecorder{},
		prefix:       prefix,
		now:          time.Now,
		log:          log.With().Str("service", "strategy_export").Logger(),
	}
}

// SetRecorder installs a metrics recorder
func (s *ExportService) SetRecorder(r ExportRecorder) {
	if r == nil {
		r = noopExportRecorder{}
	}
	s.metrics = r
}

// ExportStrategies uploads the current history to
// <prefix>strategies/<timestamp>.json. An empty history uploads nothing and
// returns a nil result.
func (s *ExportService) ExportStrategies(ctx context.Context) (*ExportResult, error) {
	startTime := s.now()

	var buf bytes.Buffer
	count, err := s.source.ExportJSON(&buf)
	if err != nil {
		s.metrics.ExportFailed()
		return nil, fmt.Errorf("failed to snapshot strategies: %w", err)
	}
	if count == 0 {
		s.log.Debug().Msg("No strategies to export")
		return nil, nil
	}

	key := s.objectKey(startTime)
	size := buf.Len()

	if err := s.uploader.Upload(ctx, key, &buf, int64(size)); err != nil {
		s.metrics.ExportFailed()
		return nil, fmt.Errorf("failed to upload strategy export: %w", err)
	}

	s.metrics.ExportSucceeded(size)
	s.eventManager.EmitTyped("reliability", &events.StrategiesExportedData{
		Key:   key,
		Count: count,
		Bytes: size,
	})

	s.log.Info().
		Str("key", key).
		Int("strategies", count).
		Int("bytes", size).
		Dur("duration_ms", s.now().Sub(startTime)).
		Msg("Strategy export uploaded")

	return &ExportResult{Key: key, Count: count, Bytes: size}, nil
}

func (s *ExportService) objectKey(t time.Time) string {
	name := t.UTC().Format(exportTimestampFormat) + ".json"
	return s.prefix + path.Join("strategies", name)
}
