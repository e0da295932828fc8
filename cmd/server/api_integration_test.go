package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// APITestSuite exercises a running server. Set TEST_SERVER_URL to target an
// existing deployment, or START_TEST_SERVER=true to launch one with go run.
type APITestSuite struct {
	suite.Suite
	serverCmd    *exec.Cmd
	serverCancel func()
	client       *http.Client
	baseURL      string
}

func (s *APITestSuite) SetupSuite() {
	s.client = &http.Client{Timeout: 5 * time.Second}

	if base := os.Getenv("TEST_SERVER_URL"); base != "" {
		s.baseURL = base
		return
	}
	if os.Getenv("START_TEST_SERVER") != "true" {
		s.T().Skip("set TEST_SERVER_URL or START_TEST_SERVER=true to run API tests")
	}
	if os.Getenv("JWT_SECRET") == "" {
		s.T().Fatal("START_TEST_SERVER=true requires JWT_SECRET")
	}

	cmd, cancel, err := startServerProcess()
	if err != nil {
		s.T().Fatalf("failed to start server subprocess: %v", err)
	}
	s.serverCmd = cmd
	s.serverCancel = cancel

	s.baseURL = "http://localhost:" + envOr("SERVER_PORT", "8080")
	timeoutSecs := 60
	if v := os.Getenv("TEST_SERVER_STARTUP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeoutSecs = n
		}
	}
	if !waitForServerHealthy(s.client, s.baseURL, timeoutSecs) {
		_ = cmd.Process.Kill()
		s.T().Fatal("server did not become healthy in time")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func startServerProcess() (*exec.Cmd, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	repoRoot := filepath.Join(wd, "..", "..")
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/server")
	cmd.Dir = repoRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, err
	}
	return cmd, cancel, nil
}

func waitForServerHealthy(client *http.Client, baseURL string, timeoutSecs int) bool {
	fmt.Fprintf(os.Stdout, "Waiting up to %ds for test server to become healthy...\n", timeoutSecs)
	deadline := time.Now().Add(time.Duration(timeoutSecs) * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err == nil && resp.StatusCode == http.StatusOK {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func (s *APITestSuite) TearDownSuite() {
	if s.serverCmd == nil || s.serverCmd.Process == nil {
		return
	}
	s.serverCancel()

	done := make(chan struct{})
	go func() {
		_ = s.serverCmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		_ = s.serverCmd.Process.Kill()
	}
}

func (s *APITestSuite) get(path string) *http.Response {
	resp, err := s.client.Get(s.baseURL + path)
	s.Require().NoError(err)
	return resp
}

func (s *APITestSuite) TestHealthCheck() {
	resp := s.get("/health")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&health))
	s.Equal("healthy", health["status"])
}

func (s *APITestSuite) TestCategoriesAreServedRepeatably() {
	var first, second []map[string]any
	for _, out := range []*[]map[string]any{&first, &second} {
		resp := s.get("/api/categories")
		s.Equal(http.StatusOK, resp.StatusCode)
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
		resp.Body.Close()
	}
	s.Equal(first, second)
}

func (s *APITestSuite) TestUnknownCategoryIs404() {
	resp := s.get("/api/categories/slug/no-such-category")
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Contains(body, "categorynotfound")
}

func (s *APITestSuite) TestBookListFeed() {
	resp := s.get("/api/feed/booklists")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "application/rss+xml")
}

func (s *APITestSuite) TestCacheInvalidateRequiresStaff() {
	resp, err := s.client.Post(s.baseURL+"/api/cache/invalidate", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
