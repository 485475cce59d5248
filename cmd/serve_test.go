package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppp-cli/internal/loan"
	"github.com/sells-group/ppp-cli/internal/query"
)

type loansResponse struct {
	Count      int           `json:"count"`
	TotalValue string        `json:"total_value"`
	Loans      []loan.Record `json:"loans"`
}

type reportResponse struct {
	Count      int           `json:"count"`
	TotalValue string        `json:"total_value"`
	Field      string        `json:"field"`
	Top        []query.Count `json:"top"`
}

func serveGet(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := buildRouter(testDataset(), []string{"*"})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServe_Health(t *testing.T) {
	w := serveGet(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestServe_LoansAll(t *testing.T) {
	w := serveGet(t, "/loans")
	require.Equal(t, http.StatusOK, w.Code)

	var resp loansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, "$2,425,000.00", resp.TotalValue)
	assert.Len(t, resp.Loans, 4)
}

func TestServe_LoansFiltered(t *testing.T) {
	w := serveGet(t, "/loans?state=ny,ct&name=smith")
	require.Equal(t, http.StatusOK, w.Code)

	var resp loansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "$675,000.00", resp.TotalValue)
	require.Len(t, resp.Loans, 2)
	assert.Equal(t, "Smith Bakery", resp.Loans[0].BusinessName)
	assert.Equal(t, "Nutmeg Smith Tools", resp.Loans[1].BusinessName)
}

func TestServe_LoansLimit(t *testing.T) {
	w := serveGet(t, "/loans?limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp loansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Loans, 1)
	assert.Equal(t, "Harbor Software LLC", resp.Loans[0].BusinessName)
}

func TestServe_LoansBadParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown field", "/loans?color=red"},
		{"bad limit", "/loans?limit=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveGet(t, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestServe_ReportDefaultField(t *testing.T) {
	w := serveGet(t, "/report?top=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp reportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "naics_code", resp.Field)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, []query.Count{{Value: "541511", Count: 2}}, resp.Top)
}

func TestServe_ReportByState(t *testing.T) {
	w := serveGet(t, "/report?field=state&naics=5415")
	require.Equal(t, http.StatusOK, w.Code)

	var resp reportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "state", resp.Field)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []query.Count{{Value: "NY", Count: 1}, {Value: "DC", Count: 1}}, resp.Top)
}

func TestServe_ReportUnknownField(t *testing.T) {
	w := serveGet(t, "/report?field=color")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilterRequest_ChainsFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/loans?naics_human=programming&state=dc", nil)
	results, err := filterRequest(testDataset(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Capitol Code Co", results[0].BusinessName)
}

func TestServe_NAICSTitle(t *testing.T) {
	w := serveGet(t, "/naics/311811")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code  string `json:"code"`
		Title string `json:"title"`
		Known bool   `json:"known"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "311811", resp.Code)
	assert.Equal(t, "Retail Bakeries", resp.Title)
	assert.True(t, resp.Known)

	w = serveGet(t, "/naics/999999")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, loan.UnknownLabel, resp.Title)
	assert.False(t, resp.Known)
}
