// Package model defines the minimal text-generation interface agents use to
// produce content, sentiment and analysis output. The runtime treats model
// output as an opaque string; provider adapters live in the subpackages
// model/openai and model/anthropic. MockModel provides deterministic canned
// completions for tests and examples.
package model
