package config

import (
	"errors"
	"fmt"
	"strings"

	"shopmigrate/converter/internal/domain"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log        LogConfig      `mapstructure:"log"`
	Source     SourceConfig   `mapstructure:"source"`
	Categories CategoryConfig `mapstructure:"categories"`
	Variants   VariantConfig  `mapstructure:"variants"`
	Content    ContentConfig  `mapstructure:"content"`
	Pipeline   PipelineConfig `mapstructure:"pipeline"`
	Export     ExportConfig   `mapstructure:"export"`
	Client     ClientConfig   `mapstructure:"client"`
	Database   DatabaseConfig `mapstructure:"database"`
	Redis      RedisConfig    `mapstructure:"redis"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// SourceConfig describes the export produced by the source platform
type SourceConfig struct {
	Path             string            `mapstructure:"path"`
	URL              string            `mapstructure:"url"` // downloaded to Path when set
	Delimiter        string            `mapstructure:"delimiter"`
	Columns          SourceColumns     `mapstructure:"columns"`
	AttributeAliases map[string]string `mapstructure:"attribute_aliases"`
}

type SourceColumns struct {
	SKU              string `mapstructure:"sku"`
	MasterCode       string `mapstructure:"master_code"`
	Name             string `mapstructure:"name"`
	Parameters       string `mapstructure:"parameters"`
	Category         string `mapstructure:"category"`
	RegularPrice     string `mapstructure:"regular_price"`
	SalePrice        string `mapstructure:"sale_price"`
	Stock            string `mapstructure:"stock"`
	Description      string `mapstructure:"description"`
	ShortDescription string `mapstructure:"short_description"`
	MainImage        string `mapstructure:"main_image"`
	Images           string `mapstructure:"images"`
	Weight           string `mapstructure:"weight"`
	Disabled         string `mapstructure:"disabled"`
}

// CategoryConfig drives the classification engine
type CategoryConfig struct {
	RulesFile               string   `mapstructure:"rules_file"`
	EnableMultiCategory     bool     `mapstructure:"enable_multi_category"`
	MaxCategoriesPerProduct int      `mapstructure:"max_categories_per_product"`
	MultiCategoryStrategy   string   `mapstructure:"multi_category_strategy"`
	UseLeafCategoryOnly     bool     `mapstructure:"use_leaf_category_only"`
	PathSeparator           string   `mapstructure:"path_separator"`
	MultiCategorySeparator  string   `mapstructure:"multi_category_separator"`
	ValidateCategories      bool     `mapstructure:"validate_categories"`
	DefaultCategory         string   `mapstructure:"default_category"`
	FallbackToOriginal      bool     `mapstructure:"fallback_to_original"`
	AttributeKeys           []string `mapstructure:"attribute_keys"`
}

// VariantConfig drives the grouping engine
type VariantConfig struct {
	Enabled                   bool              `mapstructure:"enabled"`
	SKUPatternFallback        bool              `mapstructure:"sku_pattern_fallback"`
	SKUSuffixPattern          string            `mapstructure:"sku_suffix_pattern"`
	ParentSKUSuffix           string            `mapstructure:"parent_sku_suffix"`
	VariationAttributes       []string          `mapstructure:"variation_attributes"`
	ParentNameStripAttributes []string          `mapstructure:"parent_name_strip_attributes"`
	DefaultOverrides          map[string]string `mapstructure:"default_overrides"`
}

type ContentConfig struct {
	StripTags              []string `mapstructure:"strip_tags"`
	ShortDescriptionLength int      `mapstructure:"short_description_length"`
}

type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

// ExportConfig holds target formats and sinks
type ExportConfig struct {
	OutputDir       string            `mapstructure:"output_dir"`
	Formats         []string          `mapstructure:"formats"` // woocommerce, webtoffee
	Sinks           []string          `mapstructure:"sinks"`   // csv, postgres, redis
	WriteBOM        bool              `mapstructure:"write_bom"`
	ImageBaseURL    string            `mapstructure:"image_base_url"`
	AttributeLabels map[string]string `mapstructure:"attribute_labels"`
	TagAttributes   []string          `mapstructure:"tag_attributes"`
	MaxTags         int               `mapstructure:"max_tags"`
	LowStockAmount  int               `mapstructure:"low_stock_amount"`
}

// ClientConfig holds HTTP client settings for downloads and image checks
type ClientConfig struct {
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxWorkers           int      `mapstructure:"max_workers"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
	ProxyTestURL         string   `mapstructure:"proxy_test_url"`
	CheckImages          bool     `mapstructure:"check_images"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	Database     int    `mapstructure:"database"`
	StreamPrefix string `mapstructure:"stream_prefix"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path looks for config.yaml in the working directory and falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the engines cannot run with
func (c *Config) Validate() error {
	if _, err := domain.ParseSelectionStrategy(c.Categories.MultiCategoryStrategy); err != nil {
		return err
	}
	if c.Categories.MaxCategoriesPerProduct < 1 {
		return fmt.Errorf("%w: max_categories_per_product must be at least 1, got %d",
			domain.ErrConfiguration, c.Categories.MaxCategoriesPerProduct)
	}
	if c.Categories.PathSeparator == "" || c.Categories.MultiCategorySeparator == "" {
		return fmt.Errorf("%w: category separators must not be empty", domain.ErrConfiguration)
	}
	if c.Categories.PathSeparator == c.Categories.MultiCategorySeparator {
		return fmt.Errorf("%w: path separator and multi-category separator must differ", domain.ErrConfiguration)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("%w: pipeline.workers must be at least 1", domain.ErrConfiguration)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("source.path", "./export.csv")
	v.SetDefault("source.url", "")
	v.SetDefault("source.delimiter", ",")
	v.SetDefault("source.columns.sku", "KodZbozi")
	v.SetDefault("source.columns.master_code", "KodMasterVyrobku")
	v.SetDefault("source.columns.name", "JmenoZbozi")
	v.SetDefault("source.columns.parameters", "HodnotyParametru")
	v.SetDefault("source.columns.category", "Kategorie")
	v.SetDefault("source.columns.regular_price", "CenaBezna")
	v.SetDefault("source.columns.sale_price", "ZakladniCena")
	v.SetDefault("source.columns.stock", "NaSklade")
	v.SetDefault("source.columns.description", "Popis")
	v.SetDefault("source.columns.short_description", "KratkyPopis")
	v.SetDefault("source.columns.main_image", "HlavniObrazek")
	v.SetDefault("source.columns.images", "DalsiObrazky")
	v.SetDefault("source.columns.weight", "Hmotnost")
	v.SetDefault("source.columns.disabled", "Vypnuto")
	v.SetDefault("source.attribute_aliases", map[string]string{
		"pohlavi":   "gender",
		"pohlaví":   "gender",
		"sport":     "sport",
		"typ":       "type",
		"velikost":  "size",
		"barva":     "color",
		"povrch":    "surface",
		"sezona":    "season",
		"sezóna":    "season",
		"znacka":    "brand",
		"značka":    "brand",
		"kategorie": "category",
		"material":  "material",
		"materiál":  "material",
	})

	v.SetDefault("categories.rules_file", "")
	v.SetDefault("categories.enable_multi_category", true)
	v.SetDefault("categories.max_categories_per_product", 2)
	v.SetDefault("categories.multi_category_strategy", "complementary")
	v.SetDefault("categories.use_leaf_category_only", false)
	v.SetDefault("categories.path_separator", " > ")
	v.SetDefault("categories.multi_category_separator", " | ")
	v.SetDefault("categories.validate_categories", true)
	v.SetDefault("categories.default_category", "Nezařazené")
	v.SetDefault("categories.fallback_to_original", true)
	v.SetDefault("categories.attribute_keys", []string{
		"gender", "sport", "type", "size", "color", "surface", "season", "brand", "category", "material",
	})

	v.SetDefault("variants.enabled", true)
	v.SetDefault("variants.sku_pattern_fallback", true)
	v.SetDefault("variants.sku_suffix_pattern", `^(.+?)_\d+$`)
	v.SetDefault("variants.parent_sku_suffix", "_parent")
	v.SetDefault("variants.variation_attributes", []string{"size", "color"})
	v.SetDefault("variants.parent_name_strip_attributes", []string{"size", "color"})

	v.SetDefault("content.strip_tags", []string{"script", "style", "iframe"})
	v.SetDefault("content.short_description_length", 160)

	v.SetDefault("pipeline.workers", 4)

	v.SetDefault("export.output_dir", "./output")
	v.SetDefault("export.formats", []string{"woocommerce", "webtoffee"})
	v.SetDefault("export.sinks", []string{"csv"})
	v.SetDefault("export.write_bom", true)
	v.SetDefault("export.image_base_url", "")
	v.SetDefault("export.attribute_labels", map[string]string{
		"gender":   "Pohlaví",
		"sport":    "Sport",
		"type":     "Typ",
		"size":     "Velikost",
		"color":    "Barva",
		"surface":  "Povrch",
		"season":   "Sezóna",
		"brand":    "Značka",
		"material": "Materiál",
	})
	v.SetDefault("export.tag_attributes", []string{"brand", "sport", "season"})
	v.SetDefault("export.max_tags", 5)
	v.SetDefault("export.low_stock_amount", 2)

	v.SetDefault("client.timeout", 30)
	v.SetDefault("client.max_retries", 3)
	v.SetDefault("client.max_workers", 10)
	v.SetDefault("client.max_requests_per_second", 10)
	v.SetDefault("client.proxy_test_url", "")
	v.SetDefault("client.check_images", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "converter")
	v.SetDefault("database.user", "converter_user")
	v.SetDefault("database.password", "converter_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream_prefix", "converter:stream:")
}
