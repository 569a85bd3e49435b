package analysis

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/routelens/internal/document"
	"github.com/dgallion1/routelens/internal/route"
)

func load(t *testing.T) (*Result, string) {
	t.Helper()
	src, err := os.ReadFile("testdata/PersonRoutes.java")
	require.NoError(t, err)
	res, err := Analyze(context.Background(), "PersonRoutes.java", src)
	require.NoError(t, err)
	return res, string(src)
}

func names(els []route.Element) []string {
	var out []string
	for _, e := range els {
		out = append(out, e.Name)
	}
	return out
}

func TestAnalyze_Routes(t *testing.T) {
	res, _ := load(t)

	require.Len(t, res.Routes, 4)
	assert.Empty(t, res.Diagnostics)

	nest, first, second, third := res.Routes[0], res.Routes[1], res.Routes[2], res.Routes[3]

	assert.Equal(t, "nest", nest.Kind)
	assert.Equal(t, []string{"/person"}, names(nest.Paths))
	assert.Empty(t, nest.Methods)

	assert.Equal(t, "route", first.Kind)
	assert.Equal(t, []string{"/{id}"}, names(first.Paths))
	assert.Equal(t, []string{"GET"}, names(first.Methods))
	assert.Equal(t, []string{"APPLICATION_JSON"}, names(first.AcceptTypes))

	assert.Equal(t, "andRoute", second.Kind)
	assert.Equal(t, []string{"GET"}, names(second.Methods))
	assert.Equal(t, []string{"APPLICATION_JSON", "TEXT_PLAIN"}, names(second.AcceptTypes))

	assert.Equal(t, "andRoute", third.Kind)
	assert.Equal(t, []string{"/"}, names(third.Paths))
	assert.Equal(t, []string{"POST"}, names(third.Methods))
	assert.Equal(t, []string{"APPLICATION_JSON"}, names(third.ContentTypes))

	assert.Equal(t, 10, res.ElementCount())
}

func TestAnalyze_ElementRange(t *testing.T) {
	res, src := load(t)

	ct := res.Routes[3].ContentTypes[0]
	off := strings.Index(src, "APPLICATION_JSON)), handler::createPerson")
	require.Greater(t, off, 0)
	want, err := res.Document.ToRange(off, len("APPLICATION_JSON"))
	require.NoError(t, err)
	assert.Equal(t, want, ct.Range)
	assert.Equal(t, 17, ct.Range.Start.Line)
}

func TestResult_ElementAt(t *testing.T) {
	res, src := load(t)

	off := strings.Index(src, "APPLICATION_JSON)), handler::createPerson") + 3
	r, err := res.Document.ToRange(off, 0)
	require.NoError(t, err)

	hit, ok := res.ElementAt(r.Start)
	require.True(t, ok)
	assert.Equal(t, route.KindContentType, hit.Kind)
	assert.Equal(t, "APPLICATION_JSON", hit.Element.Name)
	assert.Equal(t, []string{"POST"}, names(hit.Route.Methods))

	_, ok = res.ElementAt(document.Position{Line: 0, Character: 0})
	assert.False(t, ok)
}

func TestAnalyze_Unsupported(t *testing.T) {
	_, err := Analyze(context.Background(), "routes.kt", []byte("fun main() {}"))
	assert.Error(t, err)
}

func TestAnalyze_NoRoutes(t *testing.T) {
	res, err := Analyze(context.Background(), "Empty.java", []byte("class Empty { void f() { g(); } }"))
	require.NoError(t, err)
	assert.Empty(t, res.Routes)
	assert.Equal(t, 0, res.ElementCount())
}
