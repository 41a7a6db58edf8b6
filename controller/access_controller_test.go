// controller/access_controller_test.go
package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/controller"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	pdp_model "github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/model"
)

var loggerOnce sync.Once

func initTestLogger(t *testing.T) {
	t.Helper()
	loggerOnce.Do(func() {
		dir, err := os.MkdirTemp("", "controller-test-logs")
		require.NoError(t, err)
		logger.InitLogger(dir)
	})
}

// stubAccessService returns a canned decision and records the last request
// it was handed.
type stubAccessService struct {
	decision    pdp_model.AccessDecision
	lastRequest pdp_model.AccessRequest
}

func (s *stubAccessService) ProcessAccess(_ context.Context, request pdp_model.AccessRequest) pdp_model.AccessDecision {
	s.lastRequest = request
	return s.decision
}

func setupAccessRouter(svc *stubAccessService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/")
	controller.NewAccessController(svc).RegisterRoutes(api)
	return r
}

func TestProcessAccessAllowed(t *testing.T) {
	initTestLogger(t)

	svc := &stubAccessService{decision: pdp_model.Allow()}
	router := setupAccessRouter(svc)

	body := strings.NewReader(`{"badge_id":"B1","resource_id":"R1","timestamp":"2026-08-24T09:30:00Z"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/access", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var decision pdp_model.AccessDecision
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decision))
	assert.Equal(t, pdp_model.DecisionAllow, decision.Decision)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)

	assert.Equal(t, "B1", svc.lastRequest.BadgeID)
	assert.Equal(t, "R1", svc.lastRequest.ResourceID)
	assert.Equal(t, 2026, svc.lastRequest.Timestamp.Year())
}

func TestProcessAccessDeniedReturnsForbidden(t *testing.T) {
	initTestLogger(t)

	svc := &stubAccessService{
		decision: pdp_model.Deny(pdp_model.ReasonNoPermission, "no governing profile permits access"),
	}
	router := setupAccessRouter(svc)

	body := strings.NewReader(`{"badge_id":"B1","resource_id":"R1","timestamp":"2026-08-24T09:30:00Z"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/access", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var decision pdp_model.AccessDecision
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decision))
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)
	assert.Equal(t, "no governing profile permits access", decision.Message)
}

func TestProcessAccessMalformedBodyStillEvaluated(t *testing.T) {
	initTestLogger(t)

	// The pipeline owns request validation, so even unparsable bodies must
	// reach the service (as a zero-valued request) and come back as a
	// denial rather than a bare 400.
	svc := &stubAccessService{
		decision: pdp_model.Deny(pdp_model.ReasonInvalidRequest, "badge id is required"),
	}
	router := setupAccessRouter(svc)

	body := strings.NewReader(`{not json`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/access", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.lastRequest.BadgeID)
	assert.Empty(t, svc.lastRequest.ResourceID)

	var decision pdp_model.AccessDecision
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decision))
	assert.Equal(t, pdp_model.ReasonInvalidRequest, decision.ReasonCode)
}
