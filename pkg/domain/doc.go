/*
Package domain contains the core domain model of a blackjack table's lifecycle.

It defines the values the rule engine moves between and the rules that gate those moves.
This package is kept pure and free of I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Progress: the lifecycle phase of a table (Starting, Playing, Done).
  - Snapshot: a point-in-time view of the table (progress, dealer, players, shoe).
  - Operation / Transition: the four lifecycle operations and the table of legal moves.
  - InvalidTransitionError: the single error kind raised when a guard fails.
  - CardSource / HandHolder: the collaborator contracts a Snapshot carries as opaque handles.
*/
package domain
