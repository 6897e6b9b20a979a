// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/samber/oops"
)

// Envelope is the response shape for every API endpoint:
// {success, message, data}. data is null on failure.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // nothing to do if the client went away mid-write
	json.NewEncoder(w).Encode(env)
}

func respondOK(w http.ResponseWriter, message string, data any) {
	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Message: message})
}

// genericFailure is the only message surfaced for store or internal errors;
// detail stays in the server log.
const genericFailure = "Something went wrong. Please try again later."

// errCode extracts the oops code from an error chain, or "".
func errCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}

// errContext returns a context value attached to an oops error, or nil.
func errContext(err error, key string) any {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Context()[key]
	}
	return nil
}
