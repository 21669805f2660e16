package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoJob struct {
	Val  string `json:"val"`
	seen chan string
}

func (j *echoJob) JobName() string { return "echo" }

func (j *echoJob) Handle(context.Context) error {
	j.seen <- j.Val
	return nil
}

type failJob struct {
	attempts *atomic.Int32
}

func (j *failJob) JobName() string { return "fail" }

func (j *failJob) Handle(context.Context) error {
	j.attempts.Add(1)
	return errors.New("always fails")
}

// startManager runs one worker until the test ends. Jobs registered after
// Start are still found: the registry is consulted per job.
func startManager(t *testing.T, opts ...Option) (*Manager, context.Context) {
	t.Helper()
	opts = append([]Option{WithBackoff(func(int) time.Duration { return time.Millisecond })}, opts...)
	m := New(NewMemoryDriver(10), opts...)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx, 1)
	t.Cleanup(func() { cancel(); m.Wait() })
	return m, ctx
}

func TestDispatchAndProcess(t *testing.T) {
	seen := make(chan string, 1)
	m, ctx := startManager(t)
	m.Register("echo", func() Job { return &echoJob{seen: seen} })

	require.NoError(t, m.Dispatch(ctx, &echoJob{Val: "RCP-1A2B3C4D"}))

	select {
	case got := <-seen:
		assert.Equal(t, "RCP-1A2B3C4D", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestFailedJobIsRetriedThenPersisted(t *testing.T) {
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&FailedJobRecord{}))

	m, ctx := startManager(t, WithMaxRetry(2), WithFailedJobStore(db))
	attempts := &atomic.Int32{}
	m.Register("fail", func() Job { return &failJob{attempts: attempts} })
	require.NoError(t, m.Dispatch(ctx, &failJob{attempts: &atomic.Int32{}}))

	require.Eventually(t, func() bool { return len(m.FailedJobs()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 2, attempts.Load())

	var rec FailedJobRecord
	require.Eventually(t, func() bool { return db.First(&rec).Error == nil }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "fail", rec.JobType)
	assert.Equal(t, 2, rec.Attempts)
	assert.Equal(t, "always fails", rec.Error)
}

func TestUnregisteredJobIsRecorded(t *testing.T) {
	m, ctx := startManager(t)
	require.NoError(t, m.Dispatch(ctx, &echoJob{Val: "x"}))

	require.Eventually(t, func() bool { return len(m.FailedJobs()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, m.FailedJobs()[0].Err, ErrUnknownJob)
}

func TestDispatchAfterWithMemoryDriver(t *testing.T) {
	driver := NewMemoryDriver(1)
	m := New(driver)

	require.NoError(t, m.DispatchAfter(context.Background(), &echoJob{Val: "later"}, 20*time.Millisecond))
	assert.Equal(t, 0, driver.Len())
	require.Eventually(t, func() bool { return driver.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMemoryDriverPushHonoursContext(t *testing.T) {
	d := NewMemoryDriver(1)
	require.NoError(t, d.Push(context.Background(), []byte("a")))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Push(ctx, []byte("b")), context.DeadlineExceeded)
}
