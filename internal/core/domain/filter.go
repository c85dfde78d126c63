package domain

// Filter scopes store reads to one ingestion dataset. Fields combine as
// equality-AND; zero-valued fields do not constrain. New filterable
// metadata keys become new fields here rather than an open-ended map.
type Filter struct {
	// Source matches chunks whose metadata source tag equals this value.
	Source string
}

// SourceFilter returns a filter scoped to one dataset tag.
func SourceFilter(source string) Filter {
	return Filter{Source: source}
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Source == ""
}

// Matches reports whether a chunk's metadata satisfies the filter.
func (f Filter) Matches(metadata map[string]string) bool {
	if f.Source != "" && metadata[MetaSource] != f.Source {
		return false
	}
	return true
}
