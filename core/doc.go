// Package core implements the serialization and HTTP plumbing shared by every
// service call: a dynamically typed JSON value, the extension-bag codec for
// open records, percent-encoded request path and query construction, and the
// response dispatcher that classifies status codes into typed results or
// structured errors.
package core
