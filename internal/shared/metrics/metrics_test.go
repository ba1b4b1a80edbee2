package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r, err := NewRecorder()
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	r.ObserveDelivery("success")
	r.ObserveDelivery("failure")
	r.ObserveDelivery("success")
	r.ObserveEmailSend("internal", 20*time.Millisecond, errors.New("smtp down"))

	if got := testutil.ToFloat64(r.deliveries.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful deliveries, got %v", got)
	}
	if got := testutil.ToFloat64(r.emailSends.WithLabelValues("internal", "error")); got != 1 {
		t.Fatalf("expected 1 failed internal send, got %v", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveDelivery("success")
	r.ObserveRecommendations(3, nil)
	r.ObserveEmailSend("submitter", time.Second, nil)
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	r, err := NewRecorder()
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	r.ObserveRecommendations(4, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler(r))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `btoolme_recommendations_total{result="ok"} 1`) {
		t.Fatalf("expected recommendations counter in output:\n%s", resp.Body.String())
	}
}
