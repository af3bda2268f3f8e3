/*
Package domain contains the core domain models of the MoonRobot simulator.

It defines the entities the command interpreter operates on: the compass heading,
grid positions, the robot state and the obstacle set, together with the audit record
produced by every command batch. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Direction: Closed compass heading (NORTH, SOUTH, EAST, WEST) with turn and step semantics.
  - Position: An unbounded integer grid cell.
  - RobotState: Position plus heading; Robot wraps it with identity and timestamps.
  - ObstacleSet: The fixed set of blocked cells checked before every translational move.
  - CommandExecutionRecord: Immutable audit entry written once per executed batch.
*/
package domain
