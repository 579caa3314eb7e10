package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycengine/internal/decision"
	decisionhandler "kycengine/internal/decision/handler"
	decisionmetrics "kycengine/internal/decision/metrics"
	"kycengine/internal/domain"
	"kycengine/internal/platform/logger"
	"kycengine/internal/platform/metrics"
	"kycengine/pkg/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	appMetrics := metrics.New("test")
	svc, err := decision.New(
		decision.NewEngine(decision.Config{}),
		decision.WithMetrics(decisionmetrics.NewWithRegisterer(appMetrics.Registry)),
	)
	require.NoError(t, err)
	return newRouter(svc, appMetrics, logger.Discard())
}

func corporateProfile(id string) *domain.Profile {
	return &domain.Profile{
		CustomerID: id,
		CompanyIdentity: &domain.CompanyIdentity{
			RazonSocial:    "Grupo Alfa S.A. de C.V.",
			RFC:            "GAL010101AB1",
			FolioMercantil: "N-2019012345",
			Shareholders: []domain.Shareholder{
				{Name: "Ana Ruiz", Shares: 700},
				{Name: "Luis Soto", Shares: 300},
			},
			SourceDocument: "acta.pdf",
		},
		CompanyTaxProfile: &domain.CompanyTaxProfile{
			RFC:            "GAL010101AB1",
			Name:           "GRUPO ALFA SA DE CV",
			TaxRegime:      "Régimen General de Ley Personas Morales",
			Status:         "ACTIVO",
			IssueDate:      testutil.Date(2024, 6, 10),
			SourceDocument: "csf.pdf",
		},
	}
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "the KYC router backed by the real engine", func(t *testing.T) {
		router := newTestRouter(t)

		testutil.When(t, "validating a corporate profile", func(t *testing.T) {
			rr := testutil.PostJSON(t, router, "/kyc/validate", map[string]any{
				"as_of":   "2024-06-30",
				"profile": corporateProfile("cust-1"),
			})

			testutil.Then(t, "it returns a scored result with a run id", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
				assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
				resp := testutil.DecodeJSON[decisionhandler.ValidateResponse](t, rr)
				assert.NotEmpty(t, resp.RunID)
				assert.Equal(t, "cust-1", resp.Result.CustomerID)
				assert.Equal(t, domain.EntityPersonaMoral, resp.Result.EntityType)
				assert.True(t, resp.Result.HasFlag(decision.CodeMissingIdentityDocument))
				assert.GreaterOrEqual(t, resp.Result.Score, 0.0)
				assert.Less(t, resp.Result.Score, 1.0)
			})

			testutil.Then(t, "the evaluation shows up in /metrics", func(t *testing.T) {
				rr := testutil.Get(router, "/metrics")
				require.Equal(t, http.StatusOK, rr.Code)
				assert.True(t, strings.Contains(rr.Body.String(), `kyc_decision_validations_total{`))
			})
		})

		testutil.When(t, "validating a batch", func(t *testing.T) {
			rr := testutil.PostJSON(t, router, "/kyc/validate/batch", map[string]any{
				"as_of":    "2024-06-30",
				"profiles": []*domain.Profile{corporateProfile("a"), corporateProfile("b"), corporateProfile("c")},
			})

			testutil.Then(t, "results keep request order", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
				resp := testutil.DecodeJSON[decisionhandler.BatchValidateResponse](t, rr)
				require.Len(t, resp.Results, 3)
				for i, id := range []string{"a", "b", "c"} {
					assert.Equal(t, id, resp.Results[i].CustomerID)
				}
			})
		})

		testutil.When(t, "requesting a trace", func(t *testing.T) {
			rr := testutil.PostJSON(t, router, "/kyc/trace", map[string]any{
				"as_of":   "2024-06-30",
				"profile": corporateProfile("cust-1"),
			})

			testutil.Then(t, "both shareholders above the threshold are UBOs", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
				resp := testutil.DecodeJSON[decisionhandler.TraceResponse](t, rr)
				require.Len(t, resp.Trace.UBOs, 2)
				assert.True(t, resp.Trace.UBOs[0].IsUBO)
				assert.True(t, resp.Trace.UBOs[1].IsUBO)
			})
		})

		testutil.When(t, "the body is not JSON", func(t *testing.T) {
			rr := testutil.PostJSON(t, router, "/kyc/validate", "{")

			testutil.Then(t, "it responds with a coded bad request", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
			})
		})

		testutil.When(t, "probing health", func(t *testing.T) {
			rr := testutil.Get(router, "/healthz")

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rr.Code)
				body := testutil.DecodeJSON[map[string]string](t, rr)
				assert.Equal(t, "ok", (*body)["status"])
			})
		})
	})
}
