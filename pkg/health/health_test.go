package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDependencyChecker_AllHealthy проверяет статус при доступных зависимостях
func TestDependencyChecker_AllHealthy(t *testing.T) {
	checker := NewDependencyChecker("v1.0.0", time.Second)
	checker.Register("postgres", func(ctx context.Context) error { return nil })
	checker.Register("redis", func(ctx context.Context) error { return nil })

	status := checker.Check(context.Background())
	require.NotNil(t, status)
	assert.True(t, status.Healthy())
	assert.Equal(t, "v1.0.0", status.Version)
	assert.False(t, status.Timestamp.IsZero())
	assert.Len(t, status.Services, 2)
}

// TestDependencyChecker_OneUnhealthy проверяет деградацию при ошибке зависимости
func TestDependencyChecker_OneUnhealthy(t *testing.T) {
	checker := NewDependencyChecker("v1.0.0", time.Second)
	checker.Register("postgres", func(ctx context.Context) error { return nil })
	checker.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	status := checker.Check(context.Background())
	assert.False(t, status.Healthy())
	assert.Equal(t, "healthy", status.Services["postgres"].Status)
	assert.Equal(t, "connection refused", status.Services["redis"].Details)
}

// TestDependencyChecker_Timeout проверяет, что зависшая проверка ограничена таймаутом
func TestDependencyChecker_Timeout(t *testing.T) {
	checker := NewDependencyChecker("v1.0.0", 20*time.Millisecond)
	checker.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := checker.Check(context.Background())
	assert.False(t, status.Healthy())
}

// TestHandler проверяет HTTP обработчик
func TestHandler(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		wantCode int
	}{
		{"healthy", nil, http.StatusOK},
		{"unhealthy", errors.New("down"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewDependencyChecker("v1.0.0", time.Second)
			checker.Register("postgres", func(ctx context.Context) error { return tt.checkErr })

			w := httptest.NewRecorder()
			Handler(checker).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var body HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body.Services, "postgres")
		})
	}
}

// TestLiveHandler проверяет live check
func TestLiveHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LiveHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}
