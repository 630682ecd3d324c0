package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// isolate points config, local data and credentials at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TADA_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("TADA_LOCAL_DIR", dir)
	t.Setenv("TADA_BACKEND", "local")
	t.Setenv("TADA_UI_THEME", "mono")
	t.Setenv("TADA_LOG_LEVEL", "error")
	t.Setenv(auth.EnvToken, "")
	return dir
}

func run(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	code := Run(args, Env{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errb,
		Creds:  &auth.Store{Dir: filepath.Join(dir, "creds")},
	})
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	dir := isolate(t)
	r := run(t, dir, "")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stdout, "Usage:")
	assert.Contains(t, r.stderr, "missing subcommand")
}

func TestUsageErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown subcommand", []string{"frobnicate"}, "unknown subcommand: frobnicate"},
		{"unknown flag", []string{"ls", "--nope"}, "unknown flag"},
		{"add without title", []string{"add"}, "usage: todo add"},
		{"blank title", []string{"add", "   "}, "add: title"},
		{"done arity", []string{"done"}, "usage: todo done <index>"},
		{"done not a number", []string{"done", "two"}, "done: not a number: two"},
		{"rm out of range", []string{"rm", "3"}, "index out of range: have 0, got 3"},
		{"edit arity", []string{"edit", "1"}, "usage: todo edit"},
		{"bad backend", []string{"--backend", "cloud", "ls", "--plain"}, "backend must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, dir, "", tt.args...)
			assert.Equal(t, ExitUsage, r.code, r.stderr)
			assert.Contains(t, r.stderr, tt.want)
		})
	}
}

func TestOutOfRangeShowsHint(t *testing.T) {
	dir := isolate(t)
	r := run(t, dir, "", "done", "1")
	require.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "todo ls --plain")
}

func TestLocalWorkflow(t *testing.T) {
	dir := isolate(t)

	r := run(t, dir, "", "add", "Walk dog")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added #1")
	r = run(t, dir, "", "add", "Buy", "milk")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added #2")

	// newest first
	r = run(t, dir, "", "ls", "--plain")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "1. [ ] Buy milk")
	assert.Contains(t, r.stdout, "2. [ ] Walk dog")

	r = run(t, dir, "", "done", "1")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "completed #1 Buy milk")

	// completed items sort after pending ones
	r = run(t, dir, "", "ls", "--plain", "--group")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "1. [ ] Walk dog")
	assert.Contains(t, r.stdout, "2. [x] Buy milk")
	assert.Less(t, strings.Index(r.stdout, "Pending"), strings.Index(r.stdout, "Done"))

	r = run(t, dir, "", "edit", "2", "Buy", "oat", "milk")
	require.Equal(t, ExitOK, r.code, r.stderr)

	r = run(t, dir, "", "rm", "1")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed #1 Walk dog")

	items, err := jsonstore.New(dir).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 2, Text: "Buy oat milk", Completed: true, OwnerID: 1}}, items)
}

func TestRemoteBackend(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TADA_BACKEND", "remote")
	t.Setenv(auth.EnvToken, "Bearer secret")

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/todos":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(model.Page{
				Todos: []model.Item{{ID: 7, Text: "Remote item", OwnerID: 1}},
				Total: 1,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/todos/add":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"todo is required"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TADA_API_BASE_URL", srv.URL)

	r := run(t, dir, "", "ls", "--plain")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Remote item")
	assert.Equal(t, "Bearer secret", gotAuth)

	r = run(t, dir, "", "add", "anything")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "todo is required")
}

func jwt(t *testing.T, claims map[string]any) string {
	t.Helper()
	b, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"HS256"}`)) + "." + enc(b) + ".sig"
}

func TestAuthLifecycle(t *testing.T) {
	dir := isolate(t)

	r := run(t, dir, "", "auth", "status")
	require.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "not logged in")

	r = run(t, dir, "", "auth", "whoami")
	assert.Equal(t, ExitFailure, r.code)

	tok := jwt(t, map[string]any{"sub": "emilys", "exp": 4102444800})
	r = run(t, dir, "", "auth", "login", "--token", tok)
	require.Equal(t, ExitOK, r.code, r.stderr)

	r = run(t, dir, "", "auth", "status")
	require.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "source: file")
	assert.Contains(t, r.stdout, "2100-01-01")
	assert.NotContains(t, r.stdout, tok)

	r = run(t, dir, "", "auth", "whoami")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"sub": "emilys"`)

	r = run(t, dir, "", "auth", "logout")
	require.Equal(t, ExitOK, r.code)
	_, err := os.Stat(filepath.Join(dir, "creds", "credentials.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoginReadsStdin(t *testing.T) {
	dir := isolate(t)

	r := run(t, dir, "opaque-token-value\n", "auth", "login")
	require.Equal(t, ExitOK, r.code, r.stderr)

	ti, err := (&auth.Store{Dir: filepath.Join(dir, "creds")}).Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "opaque-token-value", ti.Token)

	r = run(t, dir, "", "auth", "whoami")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "opaque token")

	r = run(t, dir, "", "auth", "login")
	assert.Equal(t, ExitUsage, r.code)
}

func TestLoginRejectsBareScheme(t *testing.T) {
	dir := isolate(t)

	r := run(t, dir, "", "auth", "login", "--token", "Bearer")
	assert.Equal(t, ExitUsage, r.code)
	r = run(t, dir, "Bearer \n", "auth", "login")
	assert.Equal(t, ExitUsage, r.code)
	assert.NoFileExists(t, filepath.Join(dir, "creds", "credentials.json"))
}

func TestColorFlag(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TADA_UI_THEME", "classic")
	t.Setenv("NO_COLOR", "")
	t.Cleanup(func() { _ = ui.SetColorMode(ui.ColorAuto) })

	r := run(t, dir, "", "--color", "always", "add", "Buy milk")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\033[")

	r = run(t, dir, "", "--color", "never", "add", "Walk dog")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "\033[")

	t.Setenv("TADA_UI_COLOR", "always")
	r = run(t, dir, "", "add", "Pay rent")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\033[")

	r = run(t, dir, "", "--color", "sometimes", "ls", "--plain")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "ui.color")
}

func TestFlagsOverrideInvalidEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TADA_BACKEND", "cloud")
	t.Setenv("TADA_LOG_LEVEL", "chatty")

	r := run(t, dir, "", "ls", "--plain")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "backend")

	r = run(t, dir, "", "--backend", "local", "--log-level", "error", "ls", "--plain")
	assert.Equal(t, ExitOK, r.code, r.stderr)
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	r := run(t, dir, "", "config", "path")
	require.Equal(t, ExitOK, r.code)
	assert.Equal(t, path+"\n", r.stdout)

	r = run(t, dir, "", "config", "init")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.FileExists(t, path)

	r = run(t, dir, "", "config", "init")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "--force")

	r = run(t, dir, "", "--backend", "remote", "config", "show")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "backend            = remote")
	assert.Contains(t, r.stdout, "api.page_size      = 30")
}
