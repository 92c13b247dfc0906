package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer(t *testing.T) {
	t.Parallel()

	t.Run("first wait returns immediately", func(t *testing.T) {
		t.Parallel()

		p := newPacer(time.Hour)
		start := time.Now()
		require.NoError(t, p.Wait(context.Background()))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("only a marked fetch arms the delay", func(t *testing.T) {
		t.Parallel()

		p := newPacer(50 * time.Millisecond)
		require.NoError(t, p.Wait(context.Background()))

		p.Mark()
		start := time.Now()
		require.NoError(t, p.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("unmarked failures stay fast", func(t *testing.T) {
		t.Parallel()

		p := newPacer(time.Hour)
		require.NoError(t, p.Wait(context.Background()))
		// No Mark between waits, so a skipped URL costs nothing.
		start := time.Now()
		require.NoError(t, p.Wait(context.Background()))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("cancellation interrupts an armed wait", func(t *testing.T) {
		t.Parallel()

		p := newPacer(time.Hour)
		p.Mark()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)
	})
}
