package corpus

import "sort"

// SkillModule is the declared metadata of one documentation unit: a name,
// a description, the trigger keywords that make it relevant, and the
// reference documents it owns. Bodies of reference documents are never
// loaded here.
type SkillModule struct {
	ID          string
	Name        string
	Description string
	Keywords    []string
	References  []Reference
	ParentID    string // empty only for the root module
}

// IsRoot reports whether m is the corpus root module.
func (m SkillModule) IsRoot() bool { return m.ParentID == "" }

// Reference is one declared reference document. It is stat'ed during the
// corpus scan (size is needed for response budgeting) but not read.
type Reference struct {
	Path string // corpus-relative, slash-separated
	Size int64
}

// Warning records a module or declaration that was excluded from the corpus
// because its metadata is malformed. Warnings are never fatal.
type Warning struct {
	ModuleID string
	Path     string
	Reason   string
}

// Corpus is the loaded, immutable metadata of one corpus tree.
type Corpus struct {
	Root     string // absolute corpus root on disk
	RootID   string
	Modules  []SkillModule // sorted by ID
	Warnings []Warning

	byID map[string]int
}

// Module returns the module with the given id.
func (c *Corpus) Module(id string) (SkillModule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return SkillModule{}, false
	}
	return c.Modules[i], true
}

// RootModule returns the corpus root module.
func (c *Corpus) RootModule() SkillModule {
	m, _ := c.Module(c.RootID)
	return m
}

// Children returns the modules whose parent is id, sorted by ID.
func (c *Corpus) Children(id string) []SkillModule {
	var out []SkillModule
	for _, m := range c.Modules {
		if m.ParentID == id {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Corpus) reindex() {
	c.byID = make(map[string]int, len(c.Modules))
	for i, m := range c.Modules {
		c.byID[m.ID] = i
	}
}
