//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/auth"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/testutil"
)

var serviceURL string

func TestMain(m *testing.M) {
	serviceURL = os.Getenv("SERVICE_URL")
	if serviceURL == "" {
		serviceURL = "http://localhost:8080"
	}

	// Wait for the service to be ready
	for i := 0; i < 30; i++ {
		resp, err := http.Get(serviceURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func TestHealthCheck(t *testing.T) {
	resp := getJSON(t, "/healthz", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestSimulationFlow(t *testing.T) {
	// Step 1: Create a simulation
	resp := postJSON(t, "/api/v1/simulations", map[string]any{"value": "900.00", "term": 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.SimulationResponse
	decode(t, resp, &created)
	require.Len(t, created.Schedules, 2)

	// Step 2: Read it back
	resp = getJSON(t, fmt.Sprintf("/api/v1/simulations/%d", created.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SimulationResponse
	decode(t, resp, &got)
	assert.True(t, created.TotalInstallments.Equal(got.TotalInstallments))

	// Step 3: It heads the listing
	resp = getJSON(t, "/api/v1/simulations?page=1&page_size=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.ListSimulationsResponse
	decode(t, resp, &page)
	require.NotEmpty(t, page.Records)
	assert.Equal(t, created.ID, page.Records[0].ID)

	// Step 4: It counts towards the day's volume
	day := created.CreatedAt.Format(time.DateOnly)
	resp = getJSON(t, "/api/v1/simulations/by-product?reference_date="+day, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var volume dto.DailyVolumeResponse
	decode(t, resp, &volume)
	assert.NotEmpty(t, volume.Products)
}

func TestProductsRequireToken(t *testing.T) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		t.Skip("JWT_SECRET not set")
	}

	resp := getJSON(t, "/api/v1/products", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "simulacao-credito"
	}
	token := testutil.SignHS256(t, secret, testutil.TokenOptions{
		Subject:  "e2e",
		Issuer:   issuer,
		Audience: os.Getenv("JWT_AUDIENCE"),
		Roles:    []string{auth.RoleAPIClient},
	})

	resp = getJSON(t, "/api/v1/products/eligible?value=900&term=5", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []dto.ProductResponse
	decode(t, resp, &products)
	assert.NotEmpty(t, products)
}

func postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(serviceURL+path, "application/json", bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, serviceURL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
