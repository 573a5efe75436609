package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
	"github.com/bibbank/loan-decision-service/internal/domain/model"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/pkg/auth"
)

func newRouter(m *mocks, jwt *auth.JWTService, checks map[string]ReadinessCheck) http.Handler {
	return NewRouter(RouterConfig{
		Applications: m.handler(),
		Health:       NewHealthHandler("loan-decision-service", checks, testLogger()),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
		JWT:    jwt,
		Logger: testLogger(),
	})
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const evaluateBody = `{
  "loanPurpose": "home purchase",
  "loanAmount": 300000,
  "annualIncome": "120000",
  "creditScore": 780,
  "employmentStatus": "employed",
  "monthlyDebt": 1000
}`

func TestEvaluate(t *testing.T) {
	m := newMocks()
	var got dto.EvaluateApplicationRequest
	m.evaluate.executeFunc = func(_ context.Context, req dto.EvaluateApplicationRequest) (dto.EvaluationResponse, error) {
		got = req
		return dto.EvaluationResponse{LoanType: "mortgage", RiskScore: 5, ApprovalStatus: "approved"}, nil
	}

	rec := do(t, newRouter(m, nil, nil), http.MethodPost, "/api/v1/evaluations", evaluateBody, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeBody[dto.EvaluationResponse](t, rec)
	assert.Equal(t, "approved", resp.ApprovalStatus)

	require.NotNil(t, got.LoanAmount)
	assert.Equal(t, "300000", got.LoanAmount.String())
	assert.Equal(t, "120000", got.AnnualIncome.String())
	assert.Equal(t, 780, *got.CreditScore)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantFields []string
	}{
		{
			name:       "validation",
			err:        &model.ValidationError{Violations: []model.Violation{{Field: "creditScore", Message: "must be between 300 and 850"}, {Field: "loanAmount", Message: "is required"}}},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"creditScore", "loanAmount"},
		},
		{name: "not found", err: fmt.Errorf("find application: %w", port.ErrApplicationNotFound), wantStatus: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("save application: %w", port.ErrVersionConflict), wantStatus: http.StatusConflict},
		{name: "unexpected", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			m.get.executeFunc = func(context.Context, dto.GetApplicationRequest) (dto.ApplicationResponse, error) {
				return dto.ApplicationResponse{}, tt.err
			}

			rec := do(t, newRouter(m, nil, nil), http.MethodGet, "/api/v1/applications/"+uuid.NewString(), "", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeBody[errorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
			var fields []string
			for _, v := range resp.Violations {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	rec := do(t, newRouter(newMocks(), nil, nil), http.MethodPost, "/api/v1/applications", `{"loanAmount":`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[errorResponse](t, rec)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "body", resp.Violations[0].Field)
}

func TestRoutesPassParameters(t *testing.T) {
	id := uuid.NewString()

	t.Run("get", func(t *testing.T) {
		m := newMocks()
		m.get.executeFunc = func(_ context.Context, req dto.GetApplicationRequest) (dto.ApplicationResponse, error) {
			return dto.ApplicationResponse{ID: req.ApplicationID}, nil
		}
		rec := do(t, newRouter(m, nil, nil), http.MethodGet, "/api/v1/applications/"+id, "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id, decodeBody[dto.ApplicationResponse](t, rec).ID)
	})

	t.Run("list", func(t *testing.T) {
		m := newMocks()
		var got dto.ListApplicationsRequest
		m.list.executeFunc = func(_ context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error) {
			got = req
			return dto.ListApplicationsResponse{Total: 0, Limit: req.Limit, Offset: req.Offset}, nil
		}
		rec := do(t, newRouter(m, nil, nil), http.MethodGet, "/api/v1/applications?status=approved&limit=5&offset=10&userId=u-1", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, dto.ListApplicationsRequest{Status: "approved", UserID: "u-1", Limit: 5, Offset: 10}, got)
	})

	t.Run("list bad limit", func(t *testing.T) {
		rec := do(t, newRouter(newMocks(), nil, nil), http.MethodGet, "/api/v1/applications?limit=ten", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update status", func(t *testing.T) {
		m := newMocks()
		var got dto.UpdateStatusRequest
		m.update.executeFunc = func(_ context.Context, req dto.UpdateStatusRequest) (dto.ApplicationResponse, error) {
			got = req
			return dto.ApplicationResponse{ID: req.ApplicationID, ApprovalStatus: req.Status}, nil
		}
		rec := do(t, newRouter(m, nil, nil), http.MethodPut, "/api/v1/applications/"+id+"/status",
			`{"status":"rejected","reason":"Income not verified","reviewedBy":"officer-3"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, dto.UpdateStatusRequest{ApplicationID: id, Status: "rejected", Reason: "Income not verified", ReviewedBy: "officer-3"}, got)
	})

	t.Run("submit", func(t *testing.T) {
		m := newMocks()
		m.submit.executeFunc = func(_ context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error) {
			return dto.ApplicationResponse{ID: id, ApplicantName: req.ApplicantName, UserID: req.UserID}, nil
		}
		body := `{"applicantName":"Grace","applicantEmail":"g@example.com","applicantPhone":"1","userId":"spoofed",` + strings.TrimPrefix(evaluateBody, "{")
		rec := do(t, newRouter(m, nil, nil), http.MethodPost, "/api/v1/applications", body, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "/api/v1/applications/"+id, rec.Header().Get("Location"))
		resp := decodeBody[dto.ApplicationResponse](t, rec)
		assert.Equal(t, "Grace", resp.ApplicantName)
		assert.Empty(t, resp.UserID, "userId is never read from the body")
	})
}

func TestAuthenticatedRoutes(t *testing.T) {
	jwt, err := auth.NewJWTService(auth.JWTConfig{Secret: "rest-test-secret", Issuer: "loan-decision-test", Expiration: time.Hour})
	require.NoError(t, err)

	customerID := uuid.New()
	customer, err := jwt.GenerateToken(customerID, []string{auth.RoleCustomer})
	require.NoError(t, err)
	operator, err := jwt.GenerateToken(uuid.New(), []string{auth.RoleOperator})
	require.NoError(t, err)

	m := newMocks()
	var submitted dto.SubmitApplicationRequest
	m.submit.executeFunc = func(_ context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error) {
		submitted = req
		return dto.ApplicationResponse{ID: uuid.NewString()}, nil
	}
	var listed dto.ListApplicationsRequest
	m.list.executeFunc = func(_ context.Context, req dto.ListApplicationsRequest) (dto.ListApplicationsResponse, error) {
		listed = req
		return dto.ListApplicationsResponse{}, nil
	}
	var fetched dto.GetApplicationRequest
	m.get.executeFunc = func(_ context.Context, req dto.GetApplicationRequest) (dto.ApplicationResponse, error) {
		fetched = req
		return dto.ApplicationResponse{ID: req.ApplicationID}, nil
	}
	router := newRouter(m, jwt, nil)
	statusPath := "/api/v1/applications/" + uuid.NewString() + "/status"

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{name: "no token", method: http.MethodPost, path: "/api/v1/evaluations", body: evaluateBody, wantStatus: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodPost, path: "/api/v1/evaluations", body: evaluateBody, token: "junk", wantStatus: http.StatusUnauthorized},
		{name: "customer evaluates", method: http.MethodPost, path: "/api/v1/evaluations", body: evaluateBody, token: customer, wantStatus: http.StatusOK},
		{name: "customer cannot update status", method: http.MethodPut, path: statusPath, body: `{"status":"approved"}`, token: customer, wantStatus: http.StatusForbidden},
		{name: "operator updates status", method: http.MethodPut, path: statusPath, body: `{"status":"approved"}`, token: operator, wantStatus: http.StatusOK},
		{name: "health is public", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics is public", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	t.Run("submission is tied to caller", func(t *testing.T) {
		body := `{"applicantName":"Grace","applicantEmail":"g@example.com","applicantPhone":"1",` + strings.TrimPrefix(evaluateBody, "{")
		rec := do(t, router, http.MethodPost, "/api/v1/applications", body, customer)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, customerID.String(), submitted.UserID)
	})

	t.Run("customer list is scoped", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/applications?userId=someone-else", "", customer)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, customerID.String(), listed.UserID)
	})

	t.Run("customer fetch is scoped", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/applications/"+uuid.NewString(), "", customer)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, customerID.String(), fetched.OwnerID)
	})

	t.Run("operator fetch is not scoped", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/applications/"+uuid.NewString(), "", operator)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, fetched.OwnerID)
	})

	t.Run("operator list is not scoped", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/applications?userId=someone-else", "", operator)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "someone-else", listed.UserID)
	})
}

func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		router := newRouter(newMocks(), nil, map[string]ReadinessCheck{
			"database": func(context.Context) error { return nil },
		})
		rec := do(t, router, http.MethodGet, "/readyz", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", decodeBody[map[string]any](t, rec)["status"])
	})

	t.Run("not ready", func(t *testing.T) {
		router := newRouter(newMocks(), nil, map[string]ReadinessCheck{
			"database": func(context.Context) error { return errors.New("connection refused") },
		})
		rec := do(t, router, http.MethodGet, "/readyz", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "unavailable", body["status"])
		assert.Equal(t, map[string]any{"database": "connection refused"}, body["failures"])
	})

	t.Run("liveness", func(t *testing.T) {
		rec := do(t, newRouter(newMocks(), nil, nil), http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "loan-decision-service", decodeBody[map[string]any](t, rec)["service"])
	})
}
