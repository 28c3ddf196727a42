package domain

import "fmt"

// Embedding is a fixed-dimension vector representation of text.
// It is immutable and never partially valid: the vector length always
// equals the declared dimension.
type Embedding struct {
	vector    []float32
	dimension int
}

// NewEmbedding creates an embedding, enforcing that the vector length
// matches the declared dimension.
func NewEmbedding(vector []float32, dimension int) (Embedding, error) {
	if len(vector) != dimension {
		return Embedding{}, fmt.Errorf(
			"%w: vector length %d does not match dimension %d",
			ErrInvalidEmbedding, len(vector), dimension,
		)
	}
	v := make([]float32, len(vector))
	copy(v, vector)
	return Embedding{vector: v, dimension: dimension}, nil
}

// EmbeddingFromVector creates an embedding whose dimension is the
// vector length.
func EmbeddingFromVector(vector []float32) Embedding {
	e, _ := NewEmbedding(vector, len(vector))
	return e
}

// Vector returns a copy of the underlying vector.
func (e Embedding) Vector() []float32 {
	v := make([]float32, len(e.vector))
	copy(v, e.vector)
	return v
}

// Dimension returns the declared vector dimension.
func (e Embedding) Dimension() int {
	return e.dimension
}

// IsZero reports whether the embedding is the unset zero value.
func (e Embedding) IsZero() bool {
	return e.vector == nil
}
