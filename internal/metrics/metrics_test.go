package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRegistered(t *testing.T) {
	m := New()
	m.LLMRequests.WithLabelValues("roadmap", "gemini-2.5-flash", "ok").Inc()
	m.Transitions.WithLabelValues("dashboard", "exam").Inc()
	m.Mastery.Set(74)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("roadmap", "gemini-2.5-flash", "ok")))
	assert.Equal(t, 74.0, testutil.ToFloat64(m.Mastery))

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "scholarprep_llm_requests_total")
	assert.Contains(t, names, "scholarprep_session_transitions_total")
}

func TestHandlerServesText(t *testing.T) {
	m := New()
	m.ExamsFinished.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "scholarprep_exams_finished_total 1"))
}
