/*
Package graph holds the live workflow graph a user is editing.

A Graph is a single mutable aggregate owned by one editing context. It keeps two
invariants: node ids are unique and never reused, and every edge references nodes that
exist. Removing a node therefore cascades to its incident edges. Duplicate edges and
self-loops are accepted as-is; execution semantics for them belong to the backend.

A Graph is not safe for concurrent use.
*/
package graph
