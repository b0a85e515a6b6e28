// Package storage groups the client-storage adapters that back
// session.Storage: an in-process map (storage/memory) and a Redis namespace
// per client (storage/redisstore). The HTTP cookie adapter lives in middleware
// because it is bound to a single request.
package storage
