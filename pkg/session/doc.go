/*
Package session serializes access to robot state.

Each command batch is a read-execute-write cycle against the store. The Manager
guards that cycle with an in-process mutex per robot ID and, when configured, a
distributed lock so replicas sharing one backend never interleave batches.
*/
package session
