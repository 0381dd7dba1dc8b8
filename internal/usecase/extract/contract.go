package extract

// AuthorDetector finds author names in raw query text. The default is a
// pattern heuristic; the interface exists so a proper NER component can
// replace it without touching the rest of the pipeline.
type AuthorDetector interface {
	Detect(raw string) []string
}
