package rotation_test

import (
	"context"
	"testing"
	"time"

	"etqan-payroll/internal/rotation"

	"github.com/stretchr/testify/assert"
)

func TestScheduler(t *testing.T) {
	t.Run("invalid expression", func(t *testing.T) {
		_, err := rotation.NewScheduler(context.Background(), "not a cron", time.UTC, func(context.Context) {})
		assert.Error(t, err)
	})

	t.Run("next firing is computed", func(t *testing.T) {
		s, err := rotation.NewScheduler(context.Background(), "0 6 1 * *", time.UTC, func(context.Context) {})
		assert.NoError(t, err)

		s.Start()
		defer s.Stop(context.Background())

		assert.Eventually(t, func() bool { return !s.Next().IsZero() }, time.Second, 5*time.Millisecond)
		next := s.Next()
		assert.Equal(t, 1, next.Day())
		assert.Equal(t, 6, next.Hour())
	})
}
