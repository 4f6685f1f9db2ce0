package reliability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/praxos/vaults/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (f *fakeUploader) Upload(ctx context.Context, key string, body io.Reader, size int64) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

type staticSnapshot struct {
	items []map[string]string
	err   error
}

func (s staticSnapshot) ExportJSON(w io.Writer) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	items := s.items
	if items == nil {
		items = []map[string]string{}
	}
	return len(s.items), json.NewEncoder(w).Encode(items)
}

type countingRecorder struct {
	ok, failed, bytes int
}

func (c *countingRecorder) ExportSucceeded(n int) { c.ok++; c.bytes += n }
func (c *countingRecorder) ExportFailed()         { c.failed++ }

func newTestExportService(src Snapshotter, up Uploader, prefix string) (*ExportService, *events.Bus) {
	bus := events.NewBus(zerolog.Nop())
	svc := NewExportService(src, up, events.NewManager(bus, zerolog.Nop()), prefix, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	return svc, bus
}

func TestExportStrategies_Uploads(t *testing.T) {
	up := newFakeUploader()
	src := staticSnapshot{items: []map[string]string{{"strategy_id": "a"}, {"strategy_id": "b"}}}
	svc, bus := newTestExportService(src, up, "prod/")
	rec := &countingRecorder{}
	svc.SetRecorder(rec)

	var published []*events.Event
	bus.Subscribe(events.StrategiesExported, func(e *events.Event) { published = append(published, e) })

	res, err := svc.ExportStrategies(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "prod/strategies/2025-03-04T050607Z.json", res.Key)
	assert.Equal(t, 2, res.Count)

	body, ok := up.objects[res.Key]
	require.True(t, ok)
	assert.Equal(t, res.Bytes, len(body))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded, 2)

	assert.Equal(t, 1, rec.ok)
	assert.Equal(t, res.Bytes, rec.bytes)
	require.Len(t, published, 1)
	assert.Equal(t, res.Key, published[0].Data["key"])
}

func TestExportStrategies_EmptyHistory(t *testing.T) {
	up := newFakeUploader()
	svc, _ := newTestExportService(staticSnapshot{}, up, "")

	res, err := svc.ExportStrategies(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, up.objects)
}

func TestExportStrategies_Failures(t *testing.T) {
	t.Run("upload error", func(t *testing.T) {
		up := newFakeUploader()
		up.err = errors.New("bucket gone")
		svc, _ := newTestExportService(staticSnapshot{items: []map[string]string{{}}}, up, "")
		rec := &countingRecorder{}
		svc.SetRecorder(rec)

		_, err := svc.ExportStrategies(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket gone")
		assert.Equal(t, 1, rec.failed)
	})

	t.Run("snapshot error", func(t *testing.T) {
		svc, _ := newTestExportService(staticSnapshot{err: errors.New("boom")}, newFakeUploader(), "")
		_, err := svc.ExportStrategies(context.Background())
		require.Error(t, err)
	})
}

func TestObjectKey_NoPrefix(t *testing.T) {
	svc, _ := newTestExportService(staticSnapshot{}, newFakeUploader(), "")
	key := svc.objectKey(time.Date(2024, 12, 31, 23, 59, 0, 0, time.FixedZone("X", 3600)))
	assert.Equal(t, "strategies/2024-12-31T225900Z.json", key)
	assert.False(t, bytes.HasPrefix([]byte(key), []byte("/")))
}
