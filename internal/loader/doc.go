// Package loader reads the pre-generated license metadata inputs into the
// tabular model: the NuGet license JSON document and the Rush dependency CSV.
//
// Both loaders follow the same missing-input policy: an absent file is not an
// error and yields an empty table, while a present-but-malformed file fails
// the run. The loaders never reach the network; upstream tooling produced the
// files before this tool runs.
package loader
