package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/praxos/vaults/internal/events"
	"github.com/praxos/vaults/internal/reliability"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 0 * * * *", &countingJob{name: "six-field"}))
	require.NoError(t, s.AddJob("0 * * * *", &countingJob{name: "five-field"}))
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "descriptor"}))

	err := s.AddJob("not a schedule", &countingJob{name: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	err = s.AddJob("@hourly", &countingJob{name: "six-field"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.ElementsMatch(t, []string{"six-field", "five-field", "descriptor"}, s.Jobs())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "tick"}
	failing := &countingJob{name: "fail", err: errors.New("boom")}

	require.NoError(t, s.AddJob("@every 1s", job))
	require.NoError(t, s.AddJob("@every 1s", failing))

	s.Start()
	require.Eventually(t, func() bool {
		return job.runs.Load() >= 1 && failing.runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "manual", err: errors.New("nope")}

	err := s.RunNow(job)
	assert.EqualError(t, err, "nope")
	assert.Equal(t, int32(1), job.runs.Load())
}

type memoryUploader struct {
	keys []string
}

func (m *memoryUploader) Upload(ctx context.Context, key string, body io.Reader, size int64) error {
	m.keys = append(m.keys, key)
	_, err := io.Copy(io.Discard, body)
	return err
}

type oneStrategy struct{}

func (oneStrategy) ExportJSON(w io.Writer) (int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode([]string{"x"}); err != nil {
		return 0, err
	}
	_, err := w.Write(buf.Bytes())
	return 1, err
}

func TestExportJob(t *testing.T) {
	up := &memoryUploader{}
	bus := events.NewBus(zerolog.Nop())
	svc := reliability.NewExportService(oneStrategy{}, up, events.NewManager(bus, zerolog.Nop()), "", zerolog.Nop())

	job := NewExportJob(svc)
	assert.Equal(t, "strategy_export", job.Name())
	require.NoError(t, job.Run())
	require.Len(t, up.keys, 1)
	assert.Contains(t, up.keys[0], "strategies/")
}
