package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/api/apitest"
	"github.com/rshade/fintrack/internal/config"
)

// testNow is the clock every command test runs at.
var testNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

// result is the captured output of one command run.
type result struct {
	stdout string
	stderr string
	err    error
}

// newTestEnv starts a backend and points a fresh fintrack home at it.
func newTestEnv(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(t)

	t.Chdir(t.TempDir())
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvServer, srv.URL)
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvPageSize, "")
	t.Setenv(config.EnvProjectConfig, "")

	prev := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() {
		nowFunc = prev
		config.ResetGlobalConfigForTest()
	})
	return srv
}

// run executes the root command with args and stdin.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun executes args and fails the test on error.
func mustRun(t *testing.T, args ...string) result {
	t.Helper()
	res := run(t, "", args...)
	require.NoError(t, res.err, "stderr: %s", res.stderr)
	return res
}

// seedMarch adds a Food and a Salary category and n Food expenses in
// March 2025, one per day, with amounts 1000, 2000, ...
func seedMarch(srv *apitest.Server, n int) (food, salary api.Category) {
	food = srv.AddCategory("Food", "#e74c3c", api.Expense)
	salary = srv.AddCategory("Salary", "#2ecc71", api.Income)
	for i := range n {
		srv.AddTransaction(float64(i+1)*1000, food.ID, api.NewDate(2025, time.March, i%28+1), "lunch")
	}
	return food, salary
}

// lastList returns the query of the most recent transaction list request.
func lastList(t *testing.T, srv *apitest.Server) map[string]string {
	t.Helper()
	reqs := srv.RequestsTo("GET", "/api/transactions")
	require.NotEmpty(t, reqs)
	q := reqs[len(reqs)-1].Query
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}
