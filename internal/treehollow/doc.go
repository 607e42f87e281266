// Package treehollow is the HTTP client for the tree hollow REST API.
//
// Every operation performs exactly one request and returns the raw *Response
// (status code plus body); deciding which statuses count as success is left to
// the caller. Operations other than the login handshake are gated on a
// Session scope and fail with services.ErrAuthenticationRequired before any
// network traffic when the scope has not been logged in.
package treehollow
