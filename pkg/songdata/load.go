package songdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/GuinanGuo/fight-song-viz/pkg/assetcache"
)

//go:embed data/fight-songs.json
var embeddedDataset []byte

// LoadOptions steer where the dataset comes from. Zero value = embedded copy.
type LoadOptions struct {
	Path  string            // local file, wins over URL
	URL   string            // remote file, fetched through the asset cache
	Cache *assetcache.Cache // may be nil when URL is empty
}

// Load reads the school records, runs the trope scanner over records that
// carry lyrics but no precomputed flags, and validates the result. A failure
// here is fatal to initialization; callers surface a retry state.
func Load(opts LoadOptions) ([]*School, error) {
	raw, src, err := readDataset(opts)
	if err != nil {
		return nil, err
	}
	var schools []*School
	if err := json.Unmarshal(raw, &schools); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", src, err)
	}
	if len(schools) == 0 {
		return nil, fmt.Errorf("dataset %s contains no schools", src)
	}

	scanner := NewTropeScanner()
	for _, s := range schools {
		if s.TropeCount == 0 && s.Lyrics != "" {
			scanner.Apply(s)
		}
	}
	for _, s := range schools {
		if s.Name == "" || s.Conference == "" {
			return nil, fmt.Errorf("dataset %s: record missing school or conference", src)
		}
		if s.BPM <= 0 || s.Duration <= 0 {
			return nil, fmt.Errorf("dataset %s: %s has non-positive bpm or duration", src, s.Name)
		}
	}
	log.Printf("[DATA] Loaded %d schools from %s", len(schools), src)
	return schools, nil
}

func readDataset(opts LoadOptions) (raw []byte, src string, err error) {
	if opts.Path != "" {
		raw, err = os.ReadFile(opts.Path)
		if err != nil {
			return nil, "", fmt.Errorf("read dataset: %w", err)
		}
		return raw, opts.Path, nil
	}
	if opts.URL != "" {
		if opts.Cache == nil {
			return nil, "", fmt.Errorf("dataset URL given without a cache")
		}
		raw, err = opts.Cache.Fetch(opts.URL, "[DATA]")
		if err != nil {
			return nil, "", fmt.Errorf("fetch dataset: %w", err)
		}
		return raw, opts.URL, nil
	}
	return embeddedDataset, "embedded dataset", nil
}
