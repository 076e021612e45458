/*
Package ports defines the driven ports (interfaces) of the table service.

These interfaces decouple the session layer from external implementations, allowing
tables to be kept in memory, on disk or in Redis.

# Key Interfaces

  - HistoryStore: persists and loads the history tree of a table.
  - DistributedLocker: provides distributed locking for concurrent access to one table
    from several replicas.
*/
package ports
