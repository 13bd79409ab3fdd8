// Package pipeline orchestrates report generation as a sequence of steps.
//
// Each step loads one input into the shared LicenseReport accumulator.
// Steps run strictly in order for a single source directory; the
// BatchProcessor runs whole pipelines concurrently when multiple source
// directories are processed in one invocation.
//
// Design decision: A two-step pipeline looks heavier than two function
// calls, but it keeps the per-input policy (missing file tolerated,
// malformed file fatal) in one uniformly logged execution path, and new
// inputs (another ecosystem's export) slot in as additional steps.
package pipeline
