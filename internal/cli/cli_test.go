package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/routelens/internal/pipeline"
)

const orderRoutes = `import static org.springframework.web.reactive.function.server.RequestPredicates.*;
import static org.springframework.web.reactive.function.server.RouterFunctions.route;
import org.springframework.http.MediaType;

class OrderRoutes {
    Object routes(OrderHandler h) {
        return route(GET("/orders").and(accept(MediaType.APPLICATION_JSON)), h::list)
            .andRoute(POST("/orders").and(contentType(MediaType.APPLICATION_JSON)), h::create);
    }
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScan_Text(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/OrderRoutes.java": orderRoutes,
		"src/Empty.java":       "class Empty {}",
		"README.md":            "# orders",
	})

	out, err := run(t, "scan", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "OrderRoutes.java:7:16: route GET /orders accept=APPLICATION_JSON")
	assert.Contains(t, lines[1], "OrderRoutes.java:8:14: andRoute POST /orders contentType=APPLICATION_JSON")
}

func TestScan_JSON(t *testing.T) {
	dir := writeTree(t, map[string]string{"OrderRoutes.java": orderRoutes})

	out, err := run(t, "scan", "--json", dir)
	require.NoError(t, err)

	var results []pipeline.FileResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Len(t, results[0].Routes, 2)
	assert.Equal(t, pipeline.ContentHashHex([]byte(orderRoutes)), results[0].ContentHash)
}

func TestScan_CSV(t *testing.T) {
	dir := writeTree(t, map[string]string{"OrderRoutes.java": orderRoutes})

	out, err := run(t, "scan", "--csv", dir)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"7", "16", "route", "GET", "/orders", "APPLICATION_JSON", "", ""}, rows[1][1:])
	assert.Equal(t, []string{"8", "14", "andRoute", "POST", "/orders", "", "APPLICATION_JSON", ""}, rows[2][1:])

	_, err = run(t, "scan", "--csv", "--json", dir)
	assert.Error(t, err)
}

func TestScan_Include(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"api/OrderRoutes.java": orderRoutes,
		"model/Order.java":     "class Order {}",
	})

	out, err := run(t, "scan", "--include", "api/**", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "OrderRoutes.java")

	_, err = run(t, "scan", "--include", "model/*.kt", dir)
	assert.ErrorContains(t, err, "no Java files found")
}

func TestScan_Args(t *testing.T) {
	_, err := run(t, "scan")
	assert.Error(t, err)

	_, err = run(t, "scan", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"A.java":                "class A {}",
		"pkg/B.java":            "class B {}",
		"target/C.java":         "class C {}",
		"node_modules/x/D.java": "class D {}",
		"pkg/notes.txt":         "hi",
	})

	got, err := discover([]string{dir}, "**/*.java")
	require.NoError(t, err)
	var rel []string
	for _, p := range got {
		r, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"A.java", "pkg/B.java"}, rel)

	explicit := filepath.Join(dir, "pkg", "notes.txt")
	got, err = discover([]string{explicit, explicit}, "**/*.java")
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, got)
}

func TestHover(t *testing.T) {
	dir := writeTree(t, map[string]string{"OrderRoutes.java": orderRoutes})
	file := filepath.Join(dir, "OrderRoutes.java")
	col := strings.Index(strings.Split(orderRoutes, "\n")[7], "APPLICATION_JSON") + 1

	out, err := run(t, "hover", file, "8", strconv.Itoa(col))
	require.NoError(t, err)
	assert.Contains(t, out, "**Content type:**")
	assert.Contains(t, out, "`application/json`")

	out, err = run(t, "hover", "--format", "html", file, "8", strconv.Itoa(col))
	require.NoError(t, err)
	assert.Contains(t, out, "<b>Content type:</b>")
}

func TestHover_Errors(t *testing.T) {
	dir := writeTree(t, map[string]string{"OrderRoutes.java": orderRoutes})
	file := filepath.Join(dir, "OrderRoutes.java")

	_, err := run(t, "hover", file, "1", "1")
	assert.ErrorContains(t, err, "no route element here")

	_, err = run(t, "hover", file, "0", "1")
	assert.ErrorContains(t, err, "invalid line")

	_, err = run(t, "hover", file, "99", "1")
	assert.ErrorContains(t, err, file+": line 99 is past the end of the file (11 lines)")

	_, err = run(t, "hover", "--format", "pdf", file, "8", "1")
	assert.ErrorContains(t, err, "--format")
}
