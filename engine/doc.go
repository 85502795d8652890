// Package engine implements the workflow coordination core of AgentWeave:
// the component deciding when each agent runs, what context it sees, how
// concurrent branches are merged, and how an iterative review/revision cycle
// converges or terminates.
//
// Three executors cover the supported topologies:
//
//   - SequentialExecutor runs steps strictly in order; step k sees the
//     summaries of steps 1..k-1 and nothing later.
//   - ParallelExecutor fans branch agents out concurrently and fans in to a
//     single aggregator; branch results are committed all-or-nothing so the
//     aggregator never observes a partial set.
//   - IterativeFeedbackExecutor wraps the parallel fan-out in a bounded
//     review/revise loop driven by reviewer output.
//
// All shared mutable state lives in core.RunState, owned by exactly one
// executor at a time; fan-outs collect results off-state and commit through
// a single barrier once every branch has completed.
package engine
