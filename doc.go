/*
Package moonrobot drives a single robot across an unbounded integer grid on the moon.

The robot accepts command strings over the alphabet F (forward), B (backward),
L (turn left) and R (turn right). Each string is executed as one batch: moves are
checked against a fixed set of obstacles and the first blocked move ends the batch,
leaving the robot on the last free cell.

# Architecture

The interpreter is a pure function of (state, obstacles, commands). The Controller
around it loads the robot, runs the interpreter and commits the new state together
with an immutable audit record. Storage is behind ports.Store, with memory, file and
Redis adapters; batches against the same robot are serialized by pkg/session.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/moonbase/moonrobot"
		"github.com/moonbase/moonrobot/pkg/adapters/memory"
		"github.com/moonbase/moonrobot/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		ctrl, err := moonrobot.New(memory.NewStore())
		if err != nil {
			log.Fatal(err)
		}

		obstacles := domain.NewObstacleSet(domain.Position{X: 1, Y: 4})
		if _, err := ctrl.SeedObstacles(ctx, obstacles); err != nil {
			log.Fatal(err)
		}

		rec, err := ctrl.Execute(ctx, "FLFFFRFLB")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(rec.Final.Position, rec.Final.Direction, rec.Stopped)
	}
*/
package moonrobot
