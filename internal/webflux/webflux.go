// Package webflux names the parts of the Spring WebFlux functional routing API
// that routelens recognizes.
package webflux

const pkg = "org.springframework.web.reactive.function.server"

// Fully-qualified type names.
const (
	RouterFunctionsType   = pkg + ".RouterFunctions"
	RouterFunctionType    = pkg + ".RouterFunction"
	RequestPredicatesType = pkg + ".RequestPredicates"
	RequestPredicateType  = pkg + ".RequestPredicate"
	MediaTypeType         = "org.springframework.http.MediaType"
)

// Method names on RouterFunctions / RouterFunction.
const (
	RouteMethod    = "route"
	NestMethod     = "nest"
	AndRouteMethod = "andRoute"
	AndNestMethod  = "andNest"
	AndMethod      = "and"
	AndOtherMethod = "andOther"
	FilterMethod   = "filter"
)

// Method names on RequestPredicates / RequestPredicate.
const (
	ContentTypeMethod = "contentType"
	AcceptMethod      = "accept"
	PathMethod        = "path"
	MethodMethod      = "method"
	OrMethod          = "or"
	NegateMethod      = "negate"
)

// HTTPMethods are the RequestPredicates shortcuts named after HTTP methods.
// Each takes the route path as its first argument.
var HTTPMethods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// IsHTTPMethod reports whether name is one of HTTPMethods.
func IsHTTPMethod(name string) bool {
	for _, m := range HTTPMethods {
		if m == name {
			return true
		}
	}
	return false
}

// KnownTypes maps simple names to fully-qualified names for every type the
// resolver can bind through an on-demand import.
var KnownTypes = map[string]string{
	"RouterFunctions":   RouterFunctionsType,
	"RouterFunction":    RouterFunctionType,
	"RequestPredicates": RequestPredicatesType,
	"RequestPredicate":  RequestPredicateType,
	"MediaType":         MediaTypeType,
}

var members = map[string][]string{
	RouterFunctionsType: {RouteMethod, NestMethod, "resources", "toHttpHandler", "toWebHandler"},
	RouterFunctionType:  {AndMethod, AndOtherMethod, AndRouteMethod, AndNestMethod, FilterMethod, "route", "accept"},
	RequestPredicatesType: append([]string{
		PathMethod, MethodMethod, AcceptMethod, ContentTypeMethod,
		"all", "headers", "queryParam", "pathExtension",
	}, HTTPMethods...),
	RequestPredicateType: {AndMethod, OrMethod, NegateMethod, "test", "nest"},
}

// HasMethod reports whether method is a known member of the fully-qualified
// type. It decides which type a static on-demand import contributes a call to.
func HasMethod(declaringType, method string) bool {
	for _, m := range members[declaringType] {
		if m == method {
			return true
		}
	}
	return false
}

// ReturnType gives the declared return type of a method on one of the known
// types, or "" when it is not modeled.
func ReturnType(declaringType, method string) string {
	switch declaringType {
	case RouterFunctionsType:
		switch method {
		case RouteMethod, NestMethod:
			return RouterFunctionType
		}
	case RouterFunctionType:
		switch method {
		case AndRouteMethod, AndNestMethod, AndMethod, AndOtherMethod, FilterMethod:
			return RouterFunctionType
		}
	case RequestPredicatesType:
		if HasMethod(declaringType, method) {
			return RequestPredicateType
		}
	case RequestPredicateType:
		switch method {
		case AndMethod, OrMethod, NegateMethod:
			return RequestPredicateType
		}
	}
	return ""
}

// RouteCalls lists, per declaring type, the methods that define or chain a
// route: calls whose first argument is the route's predicate.
var RouteCalls = map[string][]string{
	RouterFunctionsType: {RouteMethod, NestMethod},
	RouterFunctionType:  {AndRouteMethod, AndNestMethod},
}
