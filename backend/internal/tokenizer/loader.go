package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

// Format opens one kind of tokenizer file.
type Format struct {
	File string
	Open func(path string) (Tokenizer, error)
}

// DefaultFormats are tried in order inside a tokenizer directory.
var DefaultFormats = []Format{
	{File: "tokenizer.json", Open: OpenHFTokenizer},
	{File: "spiece.model", Open: OpenSentencePiece},
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFormats replaces the tokenizer file formats the loader understands.
func WithFormats(formats ...Format) LoaderOption {
	return func(l *Loader) {
		l.formats = formats
	}
}

// Loader resolves tokenizer names from local files only and caches loaded
// tokenizers for the life of the process. Safe for concurrent use.
type Loader struct {
	cacheDir string
	formats  []Format
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string]Tokenizer
	group singleflight.Group
}

// NewLoader creates a loader that looks up hub names under cacheDir, laid out
// like the HuggingFace hub cache.
func NewLoader(cacheDir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		cacheDir: cacheDir,
		formats:  DefaultFormats,
		logger:   logger.Named("tokenizer.loader"),
		cache:    make(map[string]Tokenizer),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the tokenizer for name. Name is a path to a tokenizer file or
// directory, or a hub repository id such as "openai/clip-vit-large-patch14".
// Nothing is fetched from the network.
func (l *Loader) Load(name string) (Tokenizer, error) {
	l.mu.RLock()
	tok, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return tok, nil
	}

	v, err, shared := l.group.Do(name, func() (interface{}, error) {
		start := time.Now()
		tok, err := l.load(name)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[name] = tok
		l.mu.Unlock()
		l.logger.Info("Tokenizer loaded",
			zap.String("name", name),
			zap.Duration("elapsed", time.Since(start)),
		)
		return tok, nil
	})
	if err != nil {
		l.logger.Warn("Tokenizer unavailable",
			zap.String("name", name),
			zap.Bool("shared", shared),
			zap.Error(err),
		)
		return nil, err
	}
	return v.(Tokenizer), nil
}

func (l *Loader) load(name string) (Tokenizer, error) {
	if name == "" {
		return nil, apperrors.NewTokenizerUnavailable(name, fmt.Errorf("empty tokenizer name"))
	}

	path, err := l.resolve(name)
	if err != nil {
		return nil, apperrors.NewTokenizerUnavailable(name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewTokenizerUnavailable(name, err)
	}
	if !info.IsDir() {
		return l.openFile(name, path)
	}

	for _, f := range l.formats {
		candidate := filepath.Join(path, f.File)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		return l.openFile(name, candidate)
	}
	return nil, apperrors.NewTokenizerUnavailable(name, fmt.Errorf("no tokenizer file in %s", path))
}

func (l *Loader) openFile(name, path string) (Tokenizer, error) {
	base := filepath.Base(path)
	for _, f := range l.formats {
		if f.File == base || filepath.Ext(f.File) == filepath.Ext(base) {
			tok, err := f.Open(path)
			if err != nil {
				return nil, apperrors.NewTokenizerUnavailable(name, err)
			}
			return tok, nil
		}
	}
	return nil, apperrors.NewTokenizerUnavailable(name, fmt.Errorf("unrecognised tokenizer file %s", base))
}

// resolve maps a name to a local file or directory.
func (l *Loader) resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%s does not exist", name)
	}
	if l.cacheDir == "" {
		return "", fmt.Errorf("no hub cache directory configured")
	}
	return SnapshotDir(l.cacheDir, name)
}

// SnapshotDir finds the checked out snapshot of a hub repository in a
// HuggingFace cache directory: the revision named by refs/main, or else the
// most recently modified snapshot.
func SnapshotDir(cacheDir, repoID string) (string, error) {
	repoDir := filepath.Join(cacheDir, "models--"+strings.ReplaceAll(repoID, "/", "--"))
	snapshots := filepath.Join(repoDir, "snapshots")

	if ref, err := os.ReadFile(filepath.Join(repoDir, "refs", "main")); err == nil {
		dir := filepath.Join(snapshots, strings.TrimSpace(string(ref)))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}

	entries, err := os.ReadDir(snapshots)
	if err != nil {
		return "", fmt.Errorf("%s not found in local cache %s", repoID, cacheDir)
	}
	var (
		newest   string
		newestAt time.Time
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestAt) {
			newest, newestAt = filepath.Join(snapshots, e.Name()), info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%s has no snapshots in local cache %s", repoID, cacheDir)
	}
	return newest, nil
}
