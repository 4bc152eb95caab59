// Package postgres provides PostgreSQL implementations of the store
// interfaces. Implementations translate PostgreSQL error codes into the
// store package's error taxonomy and accept any store.DBTX, so they work
// against both connections and transactions.
package postgres
