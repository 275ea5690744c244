// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into task and user
// service calls and map service errors to status codes.
package api
