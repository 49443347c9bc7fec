package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncCommand(t *testing.T) {
	before := testutil.ToFloat64(CommandsTotal.WithLabelValues("help", "ok"))

	IncCommand("help", "ok")
	IncCommand("help", "ok")

	assert.Equal(t, before+2, testutil.ToFloat64(CommandsTotal.WithLabelValues("help", "ok")))
}

func TestMetricsEndpointExposesCommands(t *testing.T) {
	IncCommand("start", "image_missing")

	ts := httptest.NewServer(promhttp.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `stickershot_commands_total{command="start",outcome="image_missing"}`))
}
