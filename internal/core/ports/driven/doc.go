// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): document loading, embedding, answer
// generation, and persistence.
package driven
