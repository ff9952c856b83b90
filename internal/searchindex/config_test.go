package searchindex

import "testing"

func TestResolveConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("SEARCH_INDEX_URL", "http://search.local:9200")
	t.Setenv("SEARCH_INDEX_NAME", "")
	t.Setenv("SEARCH_INDEX_VECTOR_DIM", "")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.IndexName != "recipes" {
		t.Fatalf("IndexName: want=recipes got=%q", cfg.IndexName)
	}
	if cfg.VectorDim != 384 {
		t.Fatalf("VectorDim: want=384 got=%d", cfg.VectorDim)
	}
}

func TestValidateConfig_MissingURL(t *testing.T) {
	err := ValidateConfig(Config{IndexName: "recipes", VectorDim: 384})
	if ce, ok := err.(*ConfigError); !ok || ce.Code != ConfigErrorMissingURL {
		t.Fatalf("want ConfigErrorMissingURL, got %v", err)
	}
}

func TestValidateConfig_InvalidURL(t *testing.T) {
	err := ValidateConfig(Config{URL: "not-a-url", IndexName: "recipes", VectorDim: 384})
	if ce, ok := err.(*ConfigError); !ok || ce.Code != ConfigErrorInvalidURL {
		t.Fatalf("want ConfigErrorInvalidURL, got %v", err)
	}
}

func TestValidateConfig_InvalidVectorDim(t *testing.T) {
	err := ValidateConfig(Config{URL: "http://search.local:9200", IndexName: "recipes", VectorDim: 0})
	if ce, ok := err.(*ConfigError); !ok || ce.Code != ConfigErrorInvalidVectorDim {
		t.Fatalf("want ConfigErrorInvalidVectorDim, got %v", err)
	}
}
