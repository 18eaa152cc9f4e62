// Package artifact persists fitted vectorizers and classifiers.
//
// Each artifact is a single file: an 8-byte magic followed by a
// zstd-compressed JSON document holding the format version, the save time
// and the model state.
package artifact

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/veritas/news-classifier/pkg/learning"
)

var (
	ErrArtifactNotFound = stderrors.New("artifact not found")
	ErrCorruptArtifact  = stderrors.New("corrupt artifact")
)

const formatVersion = 1

var (
	vectorizerMagic = []byte("VRTSVEC1")
	classifierMagic = []byte("VRTSNB01")
)

type document[T any] struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	State   T         `json:"state"`
}

// SaveVectorizer writes a fitted vectorizer to path, replacing any existing file
func SaveVectorizer(v *learning.Vectorizer, path string) error {
	state, err := v.State()
	if err != nil {
		return errors.Wrap(err, "exporting vectorizer")
	}
	return write(path, vectorizerMagic, document[*learning.VectorizerState]{
		Version: formatVersion,
		SavedAt: time.Now(),
		State:   state,
	})
}

// SaveClassifier writes a fitted classifier to path, replacing any existing file
func SaveClassifier(nb *learning.NaiveBayes, path string) error {
	state, err := nb.State()
	if err != nil {
		return errors.Wrap(err, "exporting classifier")
	}
	return write(path, classifierMagic, document[*learning.BayesState]{
		Version: formatVersion,
		SavedAt: time.Now(),
		State:   state,
	})
}

// LoadVectorizer reads a vectorizer saved by SaveVectorizer
func LoadVectorizer(path string) (*learning.Vectorizer, error) {
	var doc document[*learning.VectorizerState]
	if err := read(path, vectorizerMagic, &doc); err != nil {
		return nil, err
	}
	v, err := learning.VectorizerFromState(doc.State)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptArtifact, "%s: %v", path, err)
	}
	return v, nil
}

// LoadClassifier reads a classifier saved by SaveClassifier
func LoadClassifier(path string) (*learning.NaiveBayes, error) {
	var doc document[*learning.BayesState]
	if err := read(path, classifierMagic, &doc); err != nil {
		return nil, err
	}
	nb, err := learning.NaiveBayesFromState(doc.State)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptArtifact, "%s: %v", path, err)
	}
	return nb, nil
}

func write(path string, magic []byte, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding artifact")
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return errors.Wrap(err, "creating zstd encoder")
	}
	defer enc.Close()

	var buf bytes.Buffer
	buf.Write(magic)
	buf.Write(enc.EncodeAll(payload, nil))

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating directory %s", dir)
		}
	}

	// Write next to the target and rename so readers never see a torn file.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming into %s", path)
	}
	return nil
}

func read(path string, magic []byte, doc any) error {
	raw, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(ErrArtifactNotFound, path)
	}
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	if !bytes.HasPrefix(raw, magic) {
		return errors.Wrapf(ErrCorruptArtifact, "%s: bad magic", path)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return errors.Wrap(err, "creating zstd decoder")
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(raw[len(magic):], nil)
	if err != nil {
		return errors.Wrapf(ErrCorruptArtifact, "%s: %v", path, err)
	}

	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(payload, &header); err != nil {
		return errors.Wrapf(ErrCorruptArtifact, "%s: %v", path, err)
	}
	if header.Version != formatVersion {
		return errors.Wrapf(ErrCorruptArtifact, "%s: unsupported format version %d", path, header.Version)
	}
	if err := json.Unmarshal(payload, doc); err != nil {
		return errors.Wrapf(ErrCorruptArtifact, "%s: %v", path, err)
	}
	return nil
}
