// Package api handles incoming HTTP requests for albums, challenges,
// memories, and authentication. It routes and validates requests, maps
// service errors to HTTP status codes, and shapes JSON responses, acting
// as the adapter between external clients and the application services.
package api
