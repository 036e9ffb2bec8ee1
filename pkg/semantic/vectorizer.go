package semantic

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// bigramSeparator joins adjacent unigrams into bigram tokens. Unigrams
// are alphanumeric runs, so the separator can never occur inside one.
const bigramSeparator = "_"

// tokenPattern matches the alphanumeric runs that become unigrams.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// stripDiacritics folds accented characters to their base form via
// NFD decomposition, removal of combining marks, and NFC recomposition.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize normalizes text into an ordered token sequence: lowercase,
// diacritics stripped, alphanumeric runs as unigrams, followed by one
// bigram per adjacent unigram pair. Empty or whitespace-only input
// yields an empty sequence.
func Tokenize(text string) []string {
	cleaned := strings.ToLower(stripDiacritics(text))
	words := tokenPattern.FindAllString(cleaned, -1)
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, 2*len(words)-1)
	tokens = append(tokens, words...)
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+bigramSeparator+words[i+1])
	}
	return tokens
}

// Vector is a sparse token-weight mapping. Keys are present only when
// the weight is positive; an absent key means weight zero.
type Vector map[string]float64

// Norm returns the L2 norm over all entries.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Vectorizer turns raw text into sparse TF-IDF vectors after being fit
// on a corpus. The zero value is usable: before Fit (or after fitting an
// empty corpus) every idf lookup returns 0 and all transforms produce
// empty vectors.
type Vectorizer struct {
	idf      map[string]float64
	docCount int
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{idf: map[string]float64{}}
}

// Fit computes document frequencies across the corpus and derives the
// idf weight per token. Fitting is one-shot: calling Fit again replaces
// all prior statistics. An empty corpus is defined, not an error — it
// leaves every idf at the 0 default.
func (v *Vectorizer) Fit(corpus []string) {
	n := len(corpus)
	v.docCount = n

	df := map[string]int{}
	for _, doc := range corpus {
		seen := map[string]struct{}{}
		for _, tok := range Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Smoothed idf: strictly decreasing in df and always positive, so a
	// token appearing in every document of a tiny corpus still carries
	// signal instead of zeroing the whole vector.
	v.idf = make(map[string]float64, len(df))
	for tok, freq := range df {
		v.idf[tok] = math.Log(1 + float64(n)/float64(1+freq))
	}
}

// IDF returns the idf weight for a token, 0 when the token was absent
// from the fitted corpus (or no corpus has been fitted).
func (v *Vectorizer) IDF(token string) float64 {
	return v.idf[token]
}

// DocCount returns the size of the fitted corpus.
func (v *Vectorizer) DocCount() int {
	return v.docCount
}

// Transform converts text into a sparse TF-IDF vector: term frequency
// count/total multiplied by idf, with zero-weight entries dropped. Text
// with no tokens after normalization transforms to an empty vector.
func (v *Vectorizer) Transform(text string) Vector {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Vector{}
	}

	counts := map[string]int{}
	for _, tok := range tokens {
		counts[tok]++
	}

	total := float64(len(tokens))
	vec := Vector{}
	for tok, count := range counts {
		w := (float64(count) / total) * v.idf[tok]
		if w != 0 {
			vec[tok] = w
		}
	}
	return vec
}

// FitTransform fits on the corpus and transforms each document in one
// call. The result at index i equals Transform(corpus[i]) after Fit.
func (v *Vectorizer) FitTransform(corpus []string) []Vector {
	v.Fit(corpus)
	vectors := make([]Vector, len(corpus))
	for i, doc := range corpus {
		vectors[i] = v.Transform(doc)
	}
	return vectors
}
