package semantic

// Cosine computes the cosine similarity between two sparse vectors,
// bounded to [0,1]. Either vector empty or zero-norm yields exactly 0;
// identical non-empty vectors yield 1 within floating tolerance;
// disjoint-key vectors yield exactly 0.
//
// The dot product iterates only the keys the two vectors share. With a
// large vocabulary and short documents most pairs share few keys, so
// this is a performance requirement rather than an optimization.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map when probing for shared keys.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for tok, w := range small {
		if lw, ok := large[tok]; ok {
			dot += w * lw
		}
	}
	if dot == 0 {
		return 0
	}

	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}
