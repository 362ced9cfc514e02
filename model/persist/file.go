package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
	"gopkg.in/yaml.v3"

	"github.com/riffdaw/engine/model"
)

// lzmaMagic is the container header for an LZMA-wrapped project file.
var lzmaMagic = []byte("FDAW")

type document struct {
	Song model.Song `json:"song"`
}

// Load reads a project file, auto-detecting the optional LZMA wrapper by
// its "FDAW" magic header, then the document's encoding (JSON is the
// canonical format; YAML is accepted for hand-edited or legacy files,
// falling back from JSON the same way sointu's ReadSong does).
func Load(r io.Reader) (model.Song, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.Song{}, fmt.Errorf("persist: reading project file: %w", err)
	}
	if bytes.HasPrefix(raw, lzmaMagic) {
		lr, err := lzma.NewReader(bytes.NewReader(raw[len(lzmaMagic):]))
		if err != nil {
			return model.Song{}, fmt.Errorf("persist: opening LZMA stream: %w", err)
		}
		raw, err = io.ReadAll(lr)
		if err != nil {
			return model.Song{}, fmt.Errorf("persist: decompressing LZMA stream: %w", err)
		}
	}
	var doc document
	if errJSON := json.Unmarshal(raw, &doc); errJSON != nil {
		if errYAML := yaml.Unmarshal(raw, &doc); errYAML != nil {
			return model.Song{}, fmt.Errorf("persist: not a valid project file (json: %v; yaml: %v)", errJSON, errYAML)
		}
	}
	if err := doc.Song.Validate(); err != nil {
		return model.Song{}, fmt.Errorf("persist: loaded song failed validation: %w", err)
	}
	return doc.Song, nil
}

// SaveOptions controls how Save frames the document.
type SaveOptions struct {
	// LZMA wraps the JSON document in an LZMA stream behind the "FDAW"
	// magic header.
	LZMA bool
}

// Save writes song as the canonical `{"song": Song}` JSON document,
// optionally LZMA-wrapped.
func Save(w io.Writer, song model.Song, opts SaveOptions) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("persist: refusing to save an invalid song: %w", err)
	}
	raw, err := json.Marshal(document{Song: song})
	if err != nil {
		return fmt.Errorf("persist: encoding song: %w", err)
	}
	if !opts.LZMA {
		_, err := w.Write(raw)
		return err
	}
	if _, err := w.Write(lzmaMagic); err != nil {
		return err
	}
	lw, err := lzma.NewWriter(w)
	if err != nil {
		return fmt.Errorf("persist: opening LZMA stream: %w", err)
	}
	if _, err := lw.Write(raw); err != nil {
		lw.Close()
		return fmt.Errorf("persist: compressing project file: %w", err)
	}
	return lw.Close()
}
