package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/skylane/flight-seat-booking/internal/clock"
	"github.com/skylane/flight-seat-booking/internal/model"
)

// testNow is the fixed instant handler tests run at.
var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func testClock() clock.Clock { return clock.NewFixed(testNow) }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newJSONContext builds an echo context carrying a JSON body and
// returns it with its response recorder.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seatsJSON(t *testing.T, seats []model.Seat) []byte {
	t.Helper()
	bs, err := json.Marshal(seats)
	require.NoError(t, err)
	return bs
}
