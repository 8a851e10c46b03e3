package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	yaml := `
collection: clueweb-sample
corpus:
  url2docid_path: /data/url2docid.bin
frontier_policy: oracle-quality-updates
seenset_variant: bitarray
max_pages: 500
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.FrontierPolicy != PolicyQualityUpdates {
		t.Fatalf("FrontierPolicy = %s, want %s", cfg.FrontierPolicy, PolicyQualityUpdates)
	}
	if !cfg.FrontierPolicy.IsQuality() || !cfg.FrontierPolicy.UpdatesEnabled() {
		t.Fatalf("expected oracle-quality-updates to be quality and updates-enabled")
	}
	if cfg.SeenSetVariant != SeenSetBitmap {
		t.Fatalf("SeenSetVariant = %s, want %s", cfg.SeenSetVariant, SeenSetBitmap)
	}
	if cfg.MaxPages != 500 {
		t.Fatalf("MaxPages = %d, want 500", cfg.MaxPages)
	}
	// Untouched fields keep Default()'s values.
	if cfg.SaveEveryNPages != 1000 {
		t.Fatalf("SaveEveryNPages = %d, want default 1000", cfg.SaveEveryNPages)
	}
	if cfg.NumSeedURLs != 10 {
		t.Fatalf("NumSeedURLs = %d, want default 10", cfg.NumSeedURLs)
	}
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	cfg := Default()
	cfg.Corpus.URL2DocIDPath = "/data/url2docid.bin"
	cfg.FrontierPolicy = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to reject an unknown frontier policy")
	}
}

func TestValidateRequiresCorpusPath(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to require corpus.url2docid_path")
	}
}
