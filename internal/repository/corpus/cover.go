package corpus

import "hash/fnv"

// Placeholder cover URLs for catalog entries without one. Assignment is
// deterministic by title so repeated loads agree.
var placeholderCovers = []string{
	"https://images.pexels.com/photos/1130980/pexels-photo-1130980.jpeg?auto=compress&cs=tinysrgb&w=300&h=400&fit=crop",
	"https://images.pexels.com/photos/1130626/pexels-photo-1130626.jpeg?auto=compress&cs=tinysrgb&w=300&h=400&fit=crop",
	"https://images.pexels.com/photos/1130641/pexels-photo-1130641.jpeg?auto=compress&cs=tinysrgb&w=300&h=400&fit=crop",
	"https://images.pexels.com/photos/1130623/pexels-photo-1130623.jpeg?auto=compress&cs=tinysrgb&w=300&h=400&fit=crop",
}

// CoverForTitle returns the deterministic placeholder cover for a title.
func CoverForTitle(title string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(title))
	return placeholderCovers[int(h.Sum32())%len(placeholderCovers)]
}
