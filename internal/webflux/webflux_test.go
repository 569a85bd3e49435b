package webflux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturnType(t *testing.T) {
	tests := []struct {
		typ, method, want string
	}{
		{RouterFunctionsType, RouteMethod, RouterFunctionType},
		{RouterFunctionsType, NestMethod, RouterFunctionType},
		{RouterFunctionsType, "toHttpHandler", ""},
		{RouterFunctionType, AndRouteMethod, RouterFunctionType},
		{RouterFunctionType, FilterMethod, RouterFunctionType},
		{RequestPredicatesType, "GET", RequestPredicateType},
		{RequestPredicatesType, ContentTypeMethod, RequestPredicateType},
		{RequestPredicatesType, "ok", ""},
		{RequestPredicateType, AndMethod, RequestPredicateType},
		{RequestPredicateType, "test", ""},
		{"java.lang.String", "valueOf", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReturnType(tt.typ, tt.method), "%s#%s", tt.typ, tt.method)
	}
}

func TestRouteCalls(t *testing.T) {
	assert.Len(t, RouteCalls, 2)
	for typ, methods := range RouteCalls {
		for _, m := range methods {
			assert.True(t, HasMethod(typ, m), "%s#%s", typ, m)
			assert.Equal(t, RouterFunctionType, ReturnType(typ, m), "%s#%s", typ, m)
		}
	}
	assert.NotContains(t, RouteCalls[RouterFunctionType], FilterMethod)
}

func TestIsHTTPMethod(t *testing.T) {
	assert.True(t, IsHTTPMethod("GET"))
	assert.True(t, IsHTTPMethod("DELETE"))
	assert.False(t, IsHTTPMethod("get"))
	assert.False(t, IsHTTPMethod("path"))
}

func TestHasMethod(t *testing.T) {
	assert.True(t, HasMethod(RequestPredicatesType, ContentTypeMethod))
	assert.True(t, HasMethod(RequestPredicatesType, "PATCH"))
	assert.True(t, HasMethod(RouterFunctionsType, RouteMethod))
	assert.False(t, HasMethod(RouterFunctionsType, "ok"))
	assert.False(t, HasMethod("java.util.List", "of"))
}
