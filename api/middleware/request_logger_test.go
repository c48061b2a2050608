// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/vault/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
	warnings   int
}

func (m *mockLogger) With(_ ...any) log.Logger { return m }
func (m *mockLogger) Trace(_ string, _ ...any) {}
func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) Crit(_ string, _ ...any) {}
func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any) {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Handler() slog.Handler { return nil }
func (m *mockLogger) Info(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }
func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.warnings++
	m.loggedData = append(m.loggedData, ctx...)
}

func TestRequestLoggerHandler(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		threshold time.Duration
		delay     time.Duration
		shouldLog bool
		slow      bool
	}{
		{"enabled", true, 0, 0, true, false},
		{"disabled", false, 0, 0, false, false},
		{"disabled fast request", false, time.Hour, 0, false, false},
		{"disabled slow request", false, time.Millisecond, 20 * time.Millisecond, true, true},
		{"enabled slow request", true, time.Millisecond, 20 * time.Millisecond, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			var gotBody string
			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				buf := new(strings.Builder)
				_, _ = io.Copy(buf, r.Body)
				gotBody = buf.String()
				time.Sleep(tt.delay)
				w.WriteHeader(http.StatusAccepted)
			}))

			req := httptest.NewRequest(http.MethodPost, "/stakes", strings.NewReader(`{"caller":"0x01"}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusAccepted, rec.Code)
			assert.Equal(t, `{"caller":"0x01"}`, gotBody, "body must reach the handler")
			if tt.shouldLog {
				assert.Contains(t, logger.loggedData, "/stakes")
				assert.Contains(t, logger.loggedData, `{"caller":"0x01"}`)
				assert.Contains(t, logger.loggedData, http.StatusAccepted)
				if tt.slow {
					assert.Equal(t, 1, logger.warnings)
				} else {
					assert.Zero(t, logger.warnings)
				}
			} else {
				assert.Empty(t, logger.loggedData)
			}
		})
	}
}
