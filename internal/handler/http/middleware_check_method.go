// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
)

// routeNotFound is registered as both the NotFound and the MethodNotAllowed
// handler of the router.
//
// Chi's default behaviour is to respond with HTTP 405 Method Not Allowed
// whenever a request path matches a registered route but the HTTP method
// is not handled. Here both cases answer HTTP 404 with the same JSON body,
// so callers cannot tell an unsupported method from an unknown path:
//
//	{"error":"Route not found","method":"PATCH","url":"/users/1","message":"..."}
func routeNotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.RouteNotFound{
		Error:   MsgRouteNotFound,
		Method:  r.Method,
		URL:     r.URL.RequestURI(),
		Message: fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path),
	}, http.StatusNotFound)
}
