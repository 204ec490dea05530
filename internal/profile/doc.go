// Package profile defines the document types flowing through a compile:
// the partial configuration fragments authored by users and presets, and
// the resolved working configuration produced by merging them.
//
// A profile is the layered, human-authored configuration document. It is
// parsed into a [Fragment]; its ancestors (via extends) parse into further
// fragments; the merge engine folds the ordered fragment list into one
// [Config] which the plugin pipeline, schema validator, and emitter then
// operate on.
//
// Fragments are immutable once resolved. Config is the single mutable
// working document for one compile invocation; nothing in this package
// persists across invocations.
package profile
