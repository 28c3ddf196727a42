// Package domain contains the core entities and value objects of documentor:
// documents, chunks, embeddings, questions, and answers, together with the
// validation rules that make them well-formed. Entities are created through
// constructors that enforce their invariants; a value that exists is valid.
package domain
