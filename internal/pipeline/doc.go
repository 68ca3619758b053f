// Package pipeline provides a framework for executing processing steps in
// sequence.
//
// The pipeline pattern is used to process an annotation directory through
// multiple stages: loading, color assignment, wide formatting, the long
// reshape, report writing, history persistence, and serving the highlighted
// view. Each stage is implemented as a Step that receives the accumulated
// Result and can extend it.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because it makes the stage order explicit and data flow visible:
// every step takes the prior steps' output through the Result rather than
// relying on struct field mutation order inside one large component. The
// pipeline is strictly sequential and stops at the first error; no stage
// has partial-failure recovery.
package pipeline
