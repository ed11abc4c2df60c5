// Package electionengine implements the election lifecycle inside the
// election-operations context.
//
// The module owns the singleton election state machine (creation, candidate
// enrollment, voter enrollment, vote casting, closing, publication), the
// deterministic tally, and event production through an outbox-backed worker.
// Business rules live in application/domain layers; infrastructure stays
// behind ports and adapters.
package electionengine
