// Package notclone mounts a service that cannot be cloned. It must not
// compile.
package notclone

import (
	"net/http"

	"github.com/toyz/axon-debug/pkg/axondebug"
)

type counter struct {
	hits int
}

func (c *counter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.hits++
	w.WriteHeader(http.StatusNoContent)
}

func Check() {
	svc := &counter{}
	axondebug.CheckService(&svc)
}
