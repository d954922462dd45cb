// Package variant implements a dynamic object column: a row-rectangular
// container that accepts semi-structured documents and decomposes them
// into per-path Subcolumns, each independently and automatically widening
// its stored type as it observes new value shapes.
package variant
