// Package runtime implements the table lifecycle state machine on top of a history tree.
//
// Engine is not safe for concurrent use. Wrap it (see the blackjack facade) when more than
// one goroutine can reach it.
package runtime
