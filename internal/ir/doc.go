// Package ir defines the decompiler's intermediate representation: programs,
// functions, basic blocks, statements and terms.
//
// Terms and statements are closed tagged unions stored in arenas owned by the
// Program. All cross-references use integer handles (TermID, StmtID,
// BlockID); identity is handle equality, which is what liveness sets and
// reaching-definition maps key off. Nodes are appended during lifting and
// never removed, so handles stay stable for the lifetime of an analysis job.
package ir
