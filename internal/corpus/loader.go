package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// ModuleFile is the per-directory metadata file that declares a skill module.
const ModuleFile = "SKILL.md"

// lockFile guards the corpus root against a sync rewriting files mid-scan.
const lockFile = ".skilldex.lock"

// DefaultExcludes are directory names skipped during the corpus scan.
var DefaultExcludes = []string{".git", ".idea", ".vscode", "node_modules"}

// LoadOptions controls a corpus scan.
type LoadOptions struct {
	// Excludes lists directory names to skip; nil means DefaultExcludes.
	Excludes []string
	// Logger receives structured warnings; nil means no logging.
	Logger *zap.Logger
	// LockTimeout bounds the wait for the corpus scan lock; zero means 5s.
	LockTimeout time.Duration
}

// Load scans the corpus rooted at root and returns its module metadata.
//
// The root directory's own SKILL.md declares the root module; every
// subdirectory containing a SKILL.md declares a submodule. A module with
// malformed metadata is skipped and recorded as a Warning — only a missing
// or unloadable root module is fatal, because root is the query fallback.
// Reference document bodies are never read here; each declared path is only
// stat'ed so its size is known for response budgeting.
func Load(root string, opts LoadOptions) (*Corpus, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	excludes := opts.Excludes
	if excludes == nil {
		excludes = DefaultExcludes
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve corpus path %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot stat corpus %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", absRoot)
	}

	unlock, err := acquireScanLock(absRoot, opts.LockTimeout, logger)
	if err != nil {
		return nil, err
	}
	defer unlock()

	moduleDirs, err := findModuleDirs(absRoot, excludes)
	if err != nil {
		return nil, fmt.Errorf("cannot scan corpus %s: %w", absRoot, err)
	}

	c := &Corpus{
		Root:   absRoot,
		RootID: filepath.Base(absRoot),
	}

	// First pass: parse every module's metadata. Paths already claimed by an
	// earlier module make a later claimant malformed (a reference document
	// belongs to exactly one module).
	claimed := make(map[string]string) // ref path -> module id
	declaredIDs := make(map[string]bool)
	type parsed struct {
		mod    SkillModule
		parent string // declared parent, unvalidated
		isRoot bool
	}
	var all []parsed

	for _, dir := range moduleDirs {
		rel, err := filepath.Rel(absRoot, dir)
		if err != nil {
			return nil, err
		}
		isRoot := rel == "."
		id := c.RootID
		if !isRoot {
			id = filepath.ToSlash(rel)
			if id == c.RootID {
				c.warn(logger, id, filepath.Join(dir, ModuleFile), "module id collides with the corpus root id")
				continue
			}
		}

		mod, declaredParent, reason := parseModule(absRoot, dir, id, isRoot, claimed)
		if reason != "" {
			if isRoot {
				return nil, fmt.Errorf("cannot load corpus %s: root module is malformed: %s", absRoot, reason)
			}
			c.warn(logger, id, filepath.Join(dir, ModuleFile), reason)
			continue
		}
		for _, ref := range mod.References {
			claimed[ref.Path] = id
		}
		declaredIDs[id] = true
		all = append(all, parsed{mod: mod, parent: declaredParent, isRoot: isRoot})
	}
	if !declaredIDs[c.RootID] {
		return nil, fmt.Errorf("cannot load corpus %s: no root %s found", absRoot, ModuleFile)
	}

	// Second pass: resolve parents now that the surviving id set is known.
	for _, p := range all {
		if p.isRoot {
			c.Modules = append(c.Modules, p.mod)
			continue
		}
		m := p.mod
		switch {
		case p.parent == "":
			m.ParentID = nearestAncestor(m.ID, declaredIDs, c.RootID)
		case declaredIDs[p.parent]:
			m.ParentID = p.parent
		default:
			c.warn(logger, m.ID, "", fmt.Sprintf("declared parent %q is not a loadable module", p.parent))
			continue
		}
		c.Modules = append(c.Modules, m)
	}

	sort.Slice(c.Modules, func(i, j int) bool { return c.Modules[i].ID < c.Modules[j].ID })
	c.reindex()
	logger.Info("corpus loaded",
		zap.String("root", absRoot),
		zap.Int("modules", len(c.Modules)),
		zap.Int("warnings", len(c.Warnings)))
	return c, nil
}

// parseModule reads one module's SKILL.md and validates its declarations.
// A non-empty reason marks the module malformed.
func parseModule(absRoot, dir, id string, isRoot bool, claimed map[string]string) (SkillModule, string, string) {
	raw, err := os.ReadFile(filepath.Join(dir, ModuleFile))
	if err != nil {
		return SkillModule{}, "", fmt.Sprintf("cannot read %s: %v", ModuleFile, err)
	}
	meta, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return SkillModule{}, "", err.Error()
	}

	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return SkillModule{}, "", "missing name"
	}
	keywords := meta.keywordList()
	if len(keywords) == 0 && !isRoot {
		return SkillModule{}, "", "empty trigger keyword list"
	}

	desc := strings.TrimSpace(meta.Description)
	if desc == "" {
		desc = firstBodyLine(body)
	}

	mod := SkillModule{
		ID:          id,
		Name:        name,
		Description: desc,
		Keywords:    keywords,
	}

	seen := make(map[string]bool, len(meta.References))
	for _, declared := range meta.References {
		ref, reason := resolveReference(absRoot, dir, declared)
		if reason != "" {
			return SkillModule{}, "", reason
		}
		if owner, ok := claimed[ref.Path]; ok {
			return SkillModule{}, "", fmt.Sprintf("reference %s is already owned by module %s", ref.Path, owner)
		}
		if seen[ref.Path] {
			return SkillModule{}, "", fmt.Sprintf("reference %s is declared twice", ref.Path)
		}
		seen[ref.Path] = true
		mod.References = append(mod.References, ref)
	}
	return mod, strings.TrimSpace(meta.Parent), ""
}

// resolveReference validates one declared reference path against the module
// directory and stats it. Paths are module-relative and must stay inside the
// corpus tree.
func resolveReference(absRoot, moduleDir, declared string) (Reference, string) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return Reference{}, "empty reference path"
	}
	if filepath.IsAbs(declared) {
		return Reference{}, fmt.Sprintf("reference path must be relative: %s", declared)
	}
	full := filepath.Clean(filepath.Join(moduleDir, filepath.FromSlash(declared)))
	rel, err := filepath.Rel(absRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Reference{}, fmt.Sprintf("reference path escapes the corpus: %s", declared)
	}
	info, err := os.Stat(full)
	if err != nil {
		return Reference{}, fmt.Sprintf("reference path cannot be resolved: %s", declared)
	}
	if info.IsDir() {
		return Reference{}, fmt.Sprintf("reference path is a directory: %s", declared)
	}
	return Reference{Path: filepath.ToSlash(rel), Size: info.Size()}, ""
}

// findModuleDirs returns every directory under root (root included) that
// contains a SKILL.md, in lexical walk order.
func findModuleDirs(root string, excludes []string) ([]string, error) {
	skip := make(map[string]bool, len(excludes))
	for _, e := range excludes {
		skip[e] = true
	}
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skip[d.Name()] {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, ModuleFile)); err == nil {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// nearestAncestor walks up the slash path of id and returns the closest
// loaded module, defaulting to the root.
func nearestAncestor(id string, known map[string]bool, rootID string) string {
	for {
		i := strings.LastIndexByte(id, '/')
		if i < 0 {
			return rootID
		}
		id = id[:i]
		if known[id] {
			return id
		}
	}
}

func firstBodyLine(body string) string {
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		return ln
	}
	return ""
}

func (c *Corpus) warn(logger *zap.Logger, moduleID, path, reason string) {
	c.Warnings = append(c.Warnings, Warning{ModuleID: moduleID, Path: path, Reason: reason})
	logger.Warn("module skipped",
		zap.String("module", moduleID),
		zap.String("reason", reason))
}

// acquireScanLock takes a shared lock on the corpus so a concurrent sync
// cannot rewrite files mid-scan. A corpus on a read-only filesystem cannot
// hold a lock file; the scan proceeds without one in that case.
func acquireScanLock(root string, timeout time.Duration, logger *zap.Logger) (func(), error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	l := flock.New(filepath.Join(root, lockFile))
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryRLock()
		if err != nil {
			logger.Warn("cannot create corpus scan lock, continuing unlocked", zap.Error(err))
			return func() {}, nil
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("corpus is locked for writing (lock: %s)", l.Path())
		}
		time.Sleep(100 * time.Millisecond)
	}
}
