/*
Package blackjack keeps the lifecycle of a blackjack table as a branching history of
immutable snapshots.

A table moves through three phases, Starting, Playing and Done, and back to Starting.
Every accepted operation appends a new snapshot below the current one; rejected operations
leave the history untouched and return an error carrying the phase the table was in.

# Concept

The history is a tree. The current timeline is found by descending from the root into the
most recently created child at each level. The engine only ever extends that timeline, so
in normal use the tree is a single path. Branches appear when a caller appends to an older
node directly, and the newest branch then becomes current.

The Engine in this package is the entry point for library users. It serialises access to
the underlying rule engine, fires lifecycle hooks and logs through log/slog. Persistence,
the HTTP and MCP adapters and the CLI are built on top of it.

# Usage

	package main

	import (
		"context"
		"errors"
		"log"

		"github.com/aretw0/blackjack"
		"github.com/aretw0/blackjack/pkg/domain"
	)

	func main() {
		eng, err := blackjack.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		_ = eng.RegisterPlayer(ctx)
		_ = eng.BeginPlay(ctx)

		// Players cannot join a round in progress.
		if err := eng.RegisterPlayer(ctx); errors.Is(err, domain.ErrInvalidTransition) {
			log.Printf("rejected: %v", err)
		}
	}
*/
package blackjack
