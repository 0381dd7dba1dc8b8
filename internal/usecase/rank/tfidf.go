package rank

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// tfidfModel is a fitted TF-IDF vectorizer over the corpus vocabulary:
// unigrams and bigrams of the combined book text, stopword-filtered,
// smooth idf, l2-normalized rows. Parameters mirror the model the corpus
// was built with (max 5000 features, terms in >80% of documents dropped).
type tfidfModel struct {
	vocab map[string]int
	idf   []float64
	docs  []domain.Vector // one l2-normalized row per book, corpus order
}

// Unicode-aware: accented letters count as word characters.
var tokenPattern = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// tokenize lowercases, strips non-word characters, and drops stopwords
// and single-character tokens.
func tokenize(text string, isStopword func(string) bool) []string {
	fields := strings.Fields(tokenPattern.ReplaceAllString(strings.ToLower(text), " "))
	tokens := fields[:0]
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < 2 || isStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// terms expands tokens into unigrams and bigrams.
func terms(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// fitTFIDF builds the model from combined per-book texts.
func fitTFIDF(texts []string, isStopword func(string) bool, maxFeatures int, maxDocFrac float64) *tfidfModel {
	n := len(texts)

	docTerms := make([][]string, n)
	df := make(map[string]int)
	cf := make(map[string]int) // collection frequency, for feature selection
	for i, text := range texts {
		ts := terms(tokenize(text, isStopword))
		docTerms[i] = ts

		seen := make(map[string]struct{}, len(ts))
		for _, t := range ts {
			cf[t]++
			seen[t] = struct{}{}
		}
		for t := range seen {
			df[t]++
		}
	}

	// Drop terms appearing in more than maxDocFrac of documents, then keep
	// the maxFeatures most frequent (ties alphabetical, for determinism).
	kept := make([]string, 0, len(df))
	for t, d := range df {
		if n > 1 && float64(d)/float64(n) > maxDocFrac {
			continue
		}
		kept = append(kept, t)
	}
	sort.Slice(kept, func(i, j int) bool {
		if cf[kept[i]] != cf[kept[j]] {
			return cf[kept[i]] > cf[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if maxFeatures > 0 && len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}

	m := &tfidfModel{vocab: make(map[string]int, len(kept))}
	for i, t := range kept {
		m.vocab[t] = i
	}

	// Smooth idf: ln((1+n)/(1+df)) + 1.
	m.idf = make([]float64, len(kept))
	for t, col := range m.vocab {
		m.idf[col] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	m.docs = make([]domain.Vector, n)
	for i, ts := range docTerms {
		m.docs[i] = m.vectorize(ts)
	}
	return m
}

// transform vectorizes query text with the fitted vocabulary.
func (m *tfidfModel) transform(text string, isStopword func(string) bool) domain.Vector {
	return m.vectorize(terms(tokenize(text, isStopword)))
}

// vectorize computes an l2-normalized tf-idf row for known terms.
func (m *tfidfModel) vectorize(ts []string) domain.Vector {
	vec := make(domain.Vector, len(m.vocab))
	for _, t := range ts {
		if col, ok := m.vocab[t]; ok {
			vec[col] += float32(m.idf[col])
		}
	}

	var mag float64
	for _, v := range vec {
		mag += float64(v) * float64(v)
	}
	if mag > 0 {
		norm := float32(math.Sqrt(mag))
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
