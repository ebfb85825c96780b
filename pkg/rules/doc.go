// Package rules derives the operations that make a destination repository
// tree mirror the layout of a source tree.
//
// # Derivation
//
// DeriveRules takes two tree mappings and a policy and produces a command
// set of moves and hardlinks. Nothing is touched on disk here; the result
// is handed to the executor.
//
// Debug relocation moves debuginfo and debugsource packages of the
// destination from the "all" layout into the "debug" layout.
//
// Link matching looks up every source file in the destination. The search
// is two-level: architectures (the entry's own first, then the policy's
// fallback list) on the outside, channels in priority order on the inside.
// The first hit wins, so architecture always outranks channel.
//
// # Custom rules
//
// Exceptions the derivation cannot infer are written by hand, either as a
// JSON array:
//
//	[{"file_pattern": "kernel-rt.*", "src_repo": "RT", "src_arch": "x86_64",
//	  "dst_repo": "BaseOS"}]
//
// or, when the file is not JSON at all, one rule per line:
//
//	kernel-rt.* -> RT:x86_64/BaseOS:x86_64
package rules
