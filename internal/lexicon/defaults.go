package lexicon

// Built-in tables. A category is detected when any of its phrases appears
// as a substring of the lowercased query.

var defaultGenres = map[string][]string{
	"mystery":         {"mystery", "detective", "whodunit", "crime novel", "murder"},
	"thriller":        {"thriller", "suspense", "espionage", "spy"},
	"romance":         {"romance", "romantic", "love story"},
	"fantasy":         {"fantasy", "magic", "dragons", "wizard", "epic quest"},
	"science fiction": {"science fiction", "sci-fi", "sci fi", "space opera", "cyberpunk"},
	"horror":          {"horror", "ghost story", "haunted", "vampire"},
	"historical":      {"historical", "history", "period drama", "world war"},
	"biography":       {"biography", "memoir", "autobiography", "true story"},
	"self help":       {"self help", "self-help", "personal growth", "productivity"},
	"classic":         {"classic", "classics", "literary canon"},
	"dystopian":       {"dystopian", "dystopia", "post-apocalyptic", "totalitarian"},
	"adventure":       {"adventure", "expedition", "journey", "survival tale"},
	"young adult":     {"young adult", "ya novel", "coming of age"},
	"poetry":          {"poetry", "poems", "verse"},
	"philosophy":      {"philosophy", "philosophical", "ethics"},
}

var defaultThemes = map[string][]string{
	"love":       {"love", "passion", "heartbreak"},
	"war":        {"war", "battle", "soldier"},
	"family":     {"family", "mother", "father", "sibling"},
	"friendship": {"friendship", "friends", "companionship"},
	"growing up": {"growing up", "childhood", "adolescence"},
	"survival":   {"survival", "wilderness", "castaway"},
	"justice":    {"justice", "injustice", "courtroom", "trial"},
	"power":      {"power", "corruption", "politics"},
	"identity":   {"identity", "belonging", "self discovery"},
	"loss":       {"loss", "grief", "mourning"},
}

// defaultStopwords holds common English function words plus domain filler
// words that carry no signal in book queries.
var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "can",
	"could", "did", "do", "does", "for", "from", "had", "has", "have",
	"he", "her", "his", "how", "i", "if", "in", "is", "it", "its",
	"me", "my", "no", "not", "of", "on", "or", "she", "so", "that",
	"the", "their", "them", "they", "this", "to", "was", "we", "were",
	"what", "when", "where", "which", "who", "will", "with", "would",
	"you", "your",
	// domain fillers
	"book", "books", "novel", "story", "like", "similar",
}
