// Package solver wires extraction, classification and the knowledge base
// into the recognition entry point the CLIs use.
//
// Recognition is a pure pipeline: extract glyphs, classify each against the
// current knowledge-base snapshot, concatenate labels. The solver also owns
// snapshot lifecycle: it loads the base once at construction and exposes
// ReloadKnowledgeBase so a freshly trained base can be swapped in without
// restarting, safely with respect to in-flight recognitions.
package solver
