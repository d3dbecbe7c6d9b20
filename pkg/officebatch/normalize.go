package officebatch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// legacyTargets maps source template extensions to their canonical format.
// The two canonical extensions map to themselves and pass through unconverted.
var legacyTargets = map[string]Kind{
	".docx": KindDocx,
	".pptx": KindPptx,
	".doc":  KindDocx,
	".ppt":  KindPptx,
	".odt":  KindDocx,
	".odp":  KindPptx,
	".rtf":  KindDocx,
}

// KindForExtension returns the canonical kind a template extension maps to.
func KindForExtension(ext string) (Kind, bool) {
	kind, ok := legacyTargets[strings.ToLower(ext)]
	return kind, ok
}

// Normalizer converts legacy templates into the canonical editable format,
// converting each distinct source path at most once per process. The cache is
// process-wide state, owned by the batch and torn down with its scratch
// directory at batch end.
type Normalizer struct {
	engine  ConversionEngine
	scratch string

	mu      sync.Mutex
	entries map[string]*conversion
}

// conversion is a write-once cache slot. The first requester performs the
// conversion inside the Once; concurrent requesters for the same key block on
// it and reuse the result.
type conversion struct {
	once sync.Once
	path string
	err  error
}

// NewNormalizer creates a normalizer converting into the given scratch
// directory.
func NewNormalizer(engine ConversionEngine, scratch string) *Normalizer {
	return &Normalizer{
		engine:  engine,
		scratch: scratch,
		entries: make(map[string]*conversion),
	}
}

// Normalize returns a canonical-format counterpart for a source template.
// Canonical sources are returned unchanged and uncached. Legacy sources are
// converted once per resolved absolute path; later calls return the cached
// result. Unsupported extensions fail immediately without touching the
// engine.
func (n *Normalizer) Normalize(sourcePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(sourcePath))
	if ext == ".docx" || ext == ".pptx" {
		return sourcePath, nil
	}

	kind, ok := legacyTargets[ext]
	if !ok {
		return "", NewUnsupportedFormatError(ext)
	}

	key, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", NewDocumentError("resolve", sourcePath, err)
	}

	n.mu.Lock()
	entry, ok := n.entries[key]
	if !ok {
		entry = &conversion{}
		n.entries[key] = entry
	}
	n.mu.Unlock()

	entry.once.Do(func() {
		entry.path, entry.err = n.convert(sourcePath, kind)
	})
	return entry.path, entry.err
}

func (n *Normalizer) convert(sourcePath string, kind Kind) (string, error) {
	outDir, err := os.MkdirTemp(n.scratch, "normalize-*")
	if err != nil {
		return "", NewDocumentError("scratch", n.scratch, err)
	}

	target := strings.TrimPrefix(kind.Ext(), ".")
	produced, err := n.engine.Convert(sourcePath, outDir, target, "")
	if err != nil {
		return "", err
	}
	return produced, nil
}
