// Package kb persists the knowledge base: the labeled canonical shapes that
// recognition matches against.
//
// # Persistence Contract
//
// The flat-file backend stores a JSON array of records:
//
//	[{"label":"A","points":[[12.5,30.0],[14.1,28.7]]}, ...]
//
// Every record's point list is canonical (normalized into the 100x100 frame,
// see the geometry package); the base never stores raw clouds. This schema is
// the durable compatibility contract: files written by earlier versions of
// the recognizer load unchanged, and coordinate precision is limited only by
// float64 representation.
//
// # Atomic Replacement
//
// The only mutation path is wholesale replacement during training. Both
// backends guarantee that a crash mid-save never corrupts or loses the
// previously persisted base: the file backend writes a temporary file and
// renames it over the target, and the bbolt backend replaces its bucket
// inside a single transaction.
//
// There is deliberately no incremental append API. Training always rebuilds
// from the full labeled sample set, so partial updates have no use case and
// would complicate the crash-safety story.
package kb
