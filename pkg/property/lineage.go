package property

import (
	"regexp"
	"slices"
	"strings"
)

// Lineage is a lineage with its direct sublineages.
type Lineage struct {
	Name        string   `yaml:"lineage"`
	Sublineages []string `yaml:"sublineages"`
}

// Lineages is a read-only lineage to sublineage adjacency index.
type Lineages struct {
	children map[string][]string
	names    []string
}

// NewLineages builds the index. Names mentioned only as sublineages become
// lineages without children.
func NewLineages(ll []Lineage) *Lineages {
	res := &Lineages{children: make(map[string][]string)}
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			res.names = append(res.names, s)
		}
	}
	for _, l := range ll {
		add(l.Name)
		for _, s := range l.Sublineages {
			add(s)
			if !slices.Contains(res.children[l.Name], s) {
				res.children[l.Name] = append(res.children[l.Name], s)
			}
		}
	}
	slices.Sort(res.names)
	return res
}

// Len returns the number of known lineages.
func (l *Lineages) Len() int {
	return len(l.names)
}

// Children returns direct sublineages of a lineage.
func (l *Lineages) Children(name string) []string {
	return l.children[name]
}

// Closure returns a lineage and all its descendants. The graph is walked
// iteratively with a visited set, so cycles in lineage data are harmless.
func (l *Lineages) Closure(name string) []string {
	visited := map[string]struct{}{name: {}}
	queue := []string{name}
	res := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range l.children[cur] {
			if _, ok := visited[c]; ok {
				continue
			}
			visited[c] = struct{}{}
			res = append(res, c)
			queue = append(queue, c)
		}
	}
	slices.Sort(res)
	return res
}

// Resolve expands a lineage pattern into concrete lineage names. '%'
// matches any substring, a trailing '*' adds all sublineages of every
// match. Patterns without wildcards are returned as is even if they are
// not in the index.
func (l *Lineages) Resolve(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	withSubs := strings.HasSuffix(pattern, "*")
	pattern = strings.TrimSuffix(pattern, "*")

	var matches []string
	if strings.Contains(pattern, "%") {
		re := likeRegexp(pattern)
		for _, n := range l.names {
			if re.MatchString(n) {
				matches = append(matches, n)
			}
		}
	} else {
		matches = []string{pattern}
	}

	if !withSubs {
		return matches
	}

	seen := make(map[string]struct{})
	var res []string
	for _, m := range matches {
		for _, s := range l.Closure(m) {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				res = append(res, s)
			}
		}
	}
	slices.Sort(res)
	return res
}

func likeRegexp(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "%")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
