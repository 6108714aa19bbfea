// Package api exposes the transcript service over HTTP.
//
// Routes live under /api plus a bare /healthcheck. Every typed failure from
// the lower layers maps to a status code here: input problems become 400,
// absent tenants and zero-match lookups become 404, everything else 500.
package api
