package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/workerpool"
	"github.com/stretchr/testify/assert"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string
	bus.Listen("unit.created", func(_ context.Context, p interface{}) error {
		got = append(got, "first:"+p.(string))
		return nil
	})
	bus.Listen("unit.created", func(_ context.Context, p interface{}) error {
		got = append(got, "second:"+p.(string))
		return errors.New("ignored")
	})
	bus.Listen("unit.deleted", func(context.Context, interface{}) error {
		t.Fatal("wrong event")
		return nil
	})

	bus.Fire(context.Background(), "unit.created", "AB12CD")
	assert.Equal(t, []string{"first:AB12CD", "second:AB12CD"}, got)
}

func TestFireAsyncUsesPoolAndDetachesContext(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Shutdown()
	bus := NewBus(pool)

	var wg sync.WaitGroup
	wg.Add(1)
	var ctxErr error
	bus.Listen("sale.confirmed", func(ctx context.Context, _ interface{}) error {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		ctxErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.FireAsync(ctx, "sale.confirmed", nil)
	cancel()

	wg.Wait()
	assert.NoError(t, ctxErr, "listener context must outlive the request")
}

func TestNilBusIsNoop(t *testing.T) {
	var bus *Bus
	bus.Fire(context.Background(), "x", nil)
	bus.FireAsync(context.Background(), "x", nil)
}
