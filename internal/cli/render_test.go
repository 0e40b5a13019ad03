package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	path := writeQueryFile(t, ordersQuery)

	for _, d := range []string{"mysql", "postgres", "sqlserver"} {
		t.Run(d, func(t *testing.T) {
			out, err := runRoot(t, "render", "-f", path, "--dialect", d)
			require.NoError(t, err)
			g.Assert(t, "render_"+d, []byte(out))
		})
	}
}

func TestRender_JSON(t *testing.T) {
	path := writeQueryFile(t, ordersQuery)

	out, err := runRoot(t, "--format", "json", "render", "-f", path, "--dialect", "postgres")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "postgres", resp.Data.Dialect)
	assert.Contains(t, resp.Data.SQL, `"u"."Age" >= $1`)
	assert.Equal(t, []any{float64(18), "admin"}, resp.Data.Args)
}

func TestRender_ExitCodes(t *testing.T) {
	good := writeQueryFile(t, ordersQuery)

	_, err := runRoot(t, "render", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runRoot(t, "render", "-f", good, "--dialect", "oracle")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	bad := writeQueryFile(t, "from: 'Users; DROP TABLE Users'")
	_, err = runRoot(t, "render", "-f", bad)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = runRoot(t, "--format", "xml", "render", "-f", good)
	assert.ErrorContains(t, err, "invalid format")

	out, err := runRoot(t, "--format", "json", "render", "-f", bad)
	require.Error(t, err)
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "render query")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, "x: boom", WrapExitError(1, "x", &ExitError{Message: "boom"}).Error())
}
