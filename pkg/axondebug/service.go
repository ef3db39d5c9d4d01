// Package axondebug checks at compile time that a value can be mounted as a
// service.
//
// A service must answer requests and must be cloneable, because routers
// hand every concurrent request its own copy:
//
//	svc := axondebug.DebugService(NewProxy(upstream))
//
// A value missing either capability fails to compile at the call, with the
// compiler's own "does not satisfy" error naming the missing method, instead
// of failing deep inside router code.
package axondebug

import "net/http"

// Service is the capability set a mountable service needs: it serves
// requests and clones itself.
//
// Services are also shared between goroutines. Go cannot state that as a
// bound, so implementations must be safe for concurrent use by convention;
// Clone returning an independent value is the usual way to get there.
type Service[S any] interface {
	http.Handler
	Clone() S
}

// CheckService asserts that S is a Service. It does nothing at run time.
func CheckService[S Service[S]](_ *S) {}

// DebugService asserts that service is a Service and returns it unchanged.
func DebugService[S Service[S]](service S) S {
	CheckService(&service)
	return service
}
