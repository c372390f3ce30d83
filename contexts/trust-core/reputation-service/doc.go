// Package reputationservice contains the Tradepost trust core: per-user
// activity counters, the derived rating engine, and the rating leaderboard.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package reputationservice
