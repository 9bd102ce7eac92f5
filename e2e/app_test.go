package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite drives the running server over its JSON API.
type E2ETestSuite struct {
	suite.Suite
	client *http.Client
}

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Session *struct {
		Username string `json:"username"`
		Token    string `json:"token"`
	} `json:"session"`
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	jar, err := cookiejar.New(nil)
	require.NoError(suite.T(), err)
	suite.client = &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	// The server holds one session for everyone; leave it logged out.
	resp, err := suite.client.Post(appURL+"/api/logout", "application/json", nil)
	if err == nil {
		resp.Body.Close()
	}
}

func (suite *E2ETestSuite) request(method, path, body string) (int, []byte) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, appURL+path, r)
	require.NoError(suite.T(), err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err, "%s %s failed", method, path)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)
	return resp.StatusCode, data
}

func (suite *E2ETestSuite) login() {
	status, body := suite.request("POST", "/api/login", `{"username":"`+seedUser+`","password":"`+seedPassword+`"}`)
	require.Equal(suite.T(), http.StatusOK, status, string(body))

	var res result
	require.NoError(suite.T(), json.Unmarshal(body, &res))
	require.True(suite.T(), res.Success, res.Message)
	require.NotNil(suite.T(), res.Session)
	assert.Equal(suite.T(), seedUser, res.Session.Username)

	// Start every test from an empty collection.
	status, _ = suite.request("DELETE", "/api/expenses", "")
	require.Equal(suite.T(), http.StatusOK, status)
}

func (suite *E2ETestSuite) TestLoginFlow() {
	suite.login()

	status, body := suite.request("GET", "/api/session", "")
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), `"authenticated":true`)

	status, _ = suite.request("POST", "/api/logout", "")
	require.Equal(suite.T(), http.StatusOK, status)

	status, body = suite.request("GET", "/api/session", "")
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), `"authenticated":false`)
}

func (suite *E2ETestSuite) TestInvalidLogin() {
	status, body := suite.request("POST", "/api/login", `{"username":"`+seedUser+`","password":"wrongpass"}`)
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Contains(suite.T(), string(body), "Incorrect password.")
}

func (suite *E2ETestSuite) TestUnauthenticatedAccess() {
	status, body := suite.request("GET", "/api/expenses", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Contains(suite.T(), string(body), "Please log in first.")
}

func (suite *E2ETestSuite) TestAddAndListExpense() {
	suite.login()

	status, body := suite.request("POST", "/api/expenses",
		`{"name":"Test Lunch","amount":15.5,"category":"food","date":"`+time.Now().Format("2006-01-02")+`"}`)
	require.Equal(suite.T(), http.StatusCreated, status, string(body))
	assert.Contains(suite.T(), string(body), "Expense added successfully!")

	status, body = suite.request("GET", "/api/expenses", "")
	require.Equal(suite.T(), http.StatusOK, status)
	var list []struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &list))
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), "Test Lunch", list[0].Name)
	assert.Equal(suite.T(), "15.5", list[0].Amount)

	status, body = suite.request("GET", "/api/expenses/export", "")
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), "Test Lunch,15.50,Food & Dining")
}

func (suite *E2ETestSuite) TestSampleAndSummary() {
	suite.login()

	status, _ := suite.request("POST", "/api/expenses/sample", "")
	require.Equal(suite.T(), http.StatusOK, status)

	status, body := suite.request("GET", "/api/summary", "")
	require.Equal(suite.T(), http.StatusOK, status)

	var summary struct {
		Count       int    `json:"count"`
		Total       string `json:"total"`
		TopCategory string `json:"topCategory"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &summary))
	assert.Equal(suite.T(), 10, summary.Count)
	assert.Equal(suite.T(), "680.72", summary.Total)
	assert.Equal(suite.T(), "Education", summary.TopCategory)
}

func (suite *E2ETestSuite) TestMetricsExposed() {
	status, body := suite.request("GET", "/metrics", "")
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), "expense_ledger_auth_outcomes_total")
}

// TestE2ETestSuite runs the e2e test suite
func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
