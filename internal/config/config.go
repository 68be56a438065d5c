package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 설정 값 검증 실패
var ErrInvalidConfig = errors.New("invalid config")

// Severity 심각도
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) String() string {
	return string(s)
}

// Rank 필터링용 순위 (info < warning < error)
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// ParseSeverity 문자열을 Severity로 변환
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "critical", "high":
		return SeverityError
	case "warning", "warn", "medium":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// LayerCount 규칙 레이어 수
const LayerCount = 6

// RuleConfig 개별 규칙 설정
type RuleConfig struct {
	ID      string `yaml:"id" toml:"id"`
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// Thresholds 검사 임계값
type Thresholds struct {
	ComplexityModerate   int `yaml:"complexity_moderate" toml:"complexity_moderate"`
	ComplexityHigh       int `yaml:"complexity_high" toml:"complexity_high"`
	NestingDepth         int `yaml:"nesting_depth" toml:"nesting_depth"`
	ComponentLines       int `yaml:"component_lines" toml:"component_lines"`
	FileLines            int `yaml:"file_lines" toml:"file_lines"`
	FileBytes            int `yaml:"file_bytes" toml:"file_bytes"`
	DuplicateMinChars    int `yaml:"duplicate_min_chars" toml:"duplicate_min_chars"`
	DuplicateStrictChars int `yaml:"duplicate_strict_chars" toml:"duplicate_strict_chars"`
	FunctionLines        int `yaml:"function_lines" toml:"function_lines"`
	MaxParameters        int `yaml:"max_parameters" toml:"max_parameters"`
	MaxStateHooks        int `yaml:"max_state_hooks" toml:"max_state_hooks"`
	MemoPropCount        int `yaml:"memo_prop_count" toml:"memo_prop_count"`
	PropDrillingProps    int `yaml:"prop_drilling_props" toml:"prop_drilling_props"`
	PropDrillingSpreads  int `yaml:"prop_drilling_spreads" toml:"prop_drilling_spreads"`
}

// Config 전체 설정
type Config struct {
	Version     string       `yaml:"version" toml:"version"`
	Layers      []int        `yaml:"layers,omitempty" toml:"layers,omitempty"`
	Categories  []string     `yaml:"categories,omitempty" toml:"categories,omitempty"`
	MinSeverity string       `yaml:"min_severity,omitempty" toml:"min_severity,omitempty"`
	Rules       []RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`
	Thresholds  Thresholds   `yaml:"thresholds" toml:"thresholds"`
	Exclude     []string     `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	Jobs        int          `yaml:"jobs,omitempty" toml:"jobs,omitempty"`
	MaxNodes    int          `yaml:"max_nodes,omitempty" toml:"max_nodes,omitempty"`
	CacheDir    string       `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
}

// Default 기본 설정
func Default() *Config {
	return &Config{
		Version:     "1",
		MinSeverity: string(SeverityInfo),
		Thresholds: Thresholds{
			ComplexityModerate:   10,
			ComplexityHigh:       15,
			NestingDepth:         4,
			ComponentLines:       200,
			FileLines:            500,
			FileBytes:            10 * 1024,
			DuplicateMinChars:    50,
			DuplicateStrictChars: 100,
			FunctionLines:        50,
			MaxParameters:        5,
			MaxStateHooks:        5,
			MemoPropCount:        3,
			PropDrillingProps:    5,
			PropDrillingSpreads:  3,
		},
		MaxNodes: 200000,
	}
}

// LoadConfig 설정 파일 로드 (.yaml/.yml/.toml)
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 설정 값 검증
func (c *Config) Validate() error {
	for _, layer := range c.Layers {
		if layer < 1 || layer > LayerCount {
			return fmt.Errorf("%w: layer %d out of range 1-%d", ErrInvalidConfig, layer, LayerCount)
		}
	}
	t := c.Thresholds
	if t.ComplexityModerate <= 0 || t.ComplexityHigh < t.ComplexityModerate {
		return fmt.Errorf("%w: complexity thresholds %d/%d", ErrInvalidConfig, t.ComplexityModerate, t.ComplexityHigh)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative", ErrInvalidConfig)
	}
	for _, pattern := range c.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalidConfig, pattern, err)
		}
	}
	return nil
}

// IsLayerEnabled 레이어 활성화 여부
func (c *Config) IsLayerEnabled(layer int) bool {
	if len(c.Layers) == 0 {
		return true
	}
	for _, l := range c.Layers {
		if l == layer {
			return true
		}
	}
	return false
}

// IsRuleEnabled 규칙 활성화 여부 (명시적으로 끈 규칙만 비활성)
func (c *Config) IsRuleEnabled(id string) bool {
	for _, rule := range c.Rules {
		if rule.ID == id && rule.Enabled != nil {
			return *rule.Enabled
		}
	}
	return true
}

// IsCategoryEnabled 카테고리 필터 통과 여부
func (c *Config) IsCategoryEnabled(category string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// FilterByCategories 카테고리별 필터링
func (c *Config) FilterByCategories(categories string) {
	if categories == "" {
		return
	}
	c.Categories = nil
	for _, cat := range strings.Split(categories, ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			c.Categories = append(c.Categories, cat)
		}
	}
}

// FilterByLayers 레이어별 필터링 ("1,2,5")
func (c *Config) FilterByLayers(layers string) error {
	if layers == "" {
		return nil
	}
	c.Layers = nil
	for _, part := range strings.Split(layers, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("%w: layer %q", ErrInvalidConfig, part)
		}
		c.Layers = append(c.Layers, n)
	}
	return c.Validate()
}

// FilterBySeverity 최소 심각도 설정
func (c *Config) FilterBySeverity(minSeverity Severity) {
	c.MinSeverity = string(minSeverity)
}

// Passes 최소 심각도 이상인지 확인
func (c *Config) Passes(severity Severity) bool {
	if c.MinSeverity == "" {
		return true
	}
	return severity.Rank() >= ParseSeverity(c.MinSeverity).Rank()
}

// DisableRule 규칙 비활성화
func (c *Config) DisableRule(id string) {
	off := false
	for i := range c.Rules {
		if c.Rules[i].ID == id {
			c.Rules[i].Enabled = &off
			return
		}
	}
	c.Rules = append(c.Rules, RuleConfig{ID: id, Enabled: &off})
}

// ExcludeMatcher exclude 패턴 매처 생성
func (c *Config) ExcludeMatcher() (func(path string) bool, error) {
	globs := make([]glob.Glob, 0, len(c.Exclude))
	for _, pattern := range c.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalidConfig, pattern, err)
		}
		globs = append(globs, g)
	}
	return func(path string) bool {
		path = filepath.ToSlash(path)
		for _, g := range globs {
			if g.Match(path) {
				return true
			}
		}
		return false
	}, nil
}

// DisabledRules 비활성화된 규칙 ID 목록
func (c *Config) DisabledRules() []string {
	var ids []string
	for _, rule := range c.Rules {
		if rule.Enabled != nil && !*rule.Enabled {
			ids = append(ids, rule.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Fingerprint 분석 결과에 영향을 주는 설정의 직렬화 (캐시 키 구성용)
func (c *Config) Fingerprint() string {
	snapshot := struct {
		Layers      []int      `yaml:"layers"`
		Categories  []string   `yaml:"categories"`
		MinSeverity string     `yaml:"min_severity"`
		Disabled    []string   `yaml:"disabled"`
		Thresholds  Thresholds `yaml:"thresholds"`
		MaxNodes    int        `yaml:"max_nodes"`
	}{c.Layers, c.Categories, c.MinSeverity, c.DisabledRules(), c.Thresholds, c.MaxNodes}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return c.Version
	}
	return c.Version + "\n" + string(data)
}
