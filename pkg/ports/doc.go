/*
Package ports defines the driven ports (interfaces) of the MoonRobot controller.

These interfaces decouple the command interpreter and its use-case layer from
storage and coordination backends.

# Key Interfaces

  - Store: Persists the singleton robot, the obstacle set and the command history,
    and commits each batch (new state plus audit record) as one atomic unit.
  - DistributedLocker: Provides distributed locking so that command batches against
    the same robot are serialized across replicas.
  - Pinger: Optional health probe implemented by stores backed by a remote service.
*/
package ports
