// Package api contains the HTTP handlers, request/response models, and
// error mapping for the REST surface. Handlers are thin composition over
// the stores and auth services; all interesting failure handling lives in
// the layers below and is translated here into uniform JSON error bodies.
package api
