package config

import (
	"fmt"
	"strings"
)

const minSecretLength = 32

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Auth.AdminEnabled() && len(c.Auth.AdminJWTSecret) < minSecretLength {
		return fmt.Errorf("auth.admin_jwt_secret must be at least %d characters (got %d)",
			minSecretLength, len(c.Auth.AdminJWTSecret))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Indexer.validate(); err != nil {
		return fmt.Errorf("indexer: %w", err)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", s.DefaultPageSize)
	}
	if s.MaxPageSize < s.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size (got %d < %d)", s.MaxPageSize, s.DefaultPageSize)
	}
	if s.MaxCombinations <= 0 {
		return fmt.Errorf("max_combinations must be > 0 (got %d)", s.MaxCombinations)
	}
	if s.RankedMinTokens <= 0 || s.RankedMinTokenLength <= 0 {
		return fmt.Errorf("ranked thresholds must be > 0 (got %d, %d)", s.RankedMinTokens, s.RankedMinTokenLength)
	}
	if s.MaxQueryLength <= 0 {
		return fmt.Errorf("max_query_length must be > 0 (got %d)", s.MaxQueryLength)
	}
	return nil
}

func (i *IndexerConfig) validate() error {
	if i.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0 (got %d)", i.PageSize)
	}
	if i.SegmentWorkers <= 0 {
		return fmt.Errorf("segment_workers must be > 0 (got %d)", i.SegmentWorkers)
	}
	return nil
}
