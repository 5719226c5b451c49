package api

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/mux"
)

// PrintRoutes walks through all routes registered in the router and writes
// one line per routable endpoint to w
func PrintRoutes(w io.Writer, r *mux.Router) error {
	fmt.Fprintln(w, "METHOD\tPATH")

	return r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		if route.GetHandler() == nil {
			// Subrouter mount points have no handler of their own.
			return nil
		}

		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			pathTemplate = "<unknown>"
		}

		// If no methods are specified, assume all methods
		methodStr := "ANY"
		if methods, err := route.GetMethods(); err == nil && len(methods) > 0 {
			methodStr = strings.Join(methods, ",")
		}

		fmt.Fprintf(w, "%s\t%s\n", methodStr, pathTemplate)
		return nil
	})
}
