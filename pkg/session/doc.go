/*
Package session manages a registry of tables kept in a HistoryStore.

Every mutation runs as load, apply, save while holding a per-table lock, so two requests
for the same table never resolve the same active leaf and branch its history. With a
DistributedLocker the lock also holds across replicas.
*/
package session
