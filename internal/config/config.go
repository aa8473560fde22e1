// Package config loads bookmerge settings from the environment.
//
// Keys map to BOOKMERGE_<SECTION>_<KEY> variables, e.g. BOOKMERGE_PATHS_GOODREADS
// or BOOKMERGE_MERGE_PREFER. Defaults come from the `default` struct tags.
package config

import (
	"reflect"
	"strings"

	"github.com/lehigh-university-libraries/bookmerge/internal/logger"
	"github.com/lehigh-university-libraries/bookmerge/internal/merge"
	"github.com/lehigh-university-libraries/bookmerge/internal/normalize"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BOOKMERGE"

// Config holds all configuration for the application.
type Config struct {
	Paths PathsConfig   `mapstructure:"paths"`
	Log   logger.Config `mapstructure:"log"`
	Merge MergeConfig   `mapstructure:"merge"`
}

// PathsConfig locates the landing inputs and the output directories.
type PathsConfig struct {
	Goodreads     string `mapstructure:"goodreads" default:"landing/goodreads_books.json"`
	GoogleParquet string `mapstructure:"google_parquet" default:"landing/googlebooks_books.parquet"`
	GoogleCSV     string `mapstructure:"google_csv" default:"landing/googlebooks_books.csv"`
	GoogleVolumes string `mapstructure:"google_volumes" default:""`
	StandardDir   string `mapstructure:"standard_dir" default:"standard"`
	DocsDir       string `mapstructure:"docs_dir" default:"docs"`
	ReportsDir    string `mapstructure:"reports_dir" default:"reports"`
	SQLite        string `mapstructure:"sqlite" default:""`
}

// MergeConfig is the environment form of merge.Rules.
type MergeConfig struct {
	AuthorDelimiters  string `mapstructure:"author_delimiters" default:"|,;"`
	CategoryDelimiter string `mapstructure:"category_delimiter" default:"|"`
	ListSeparator     string `mapstructure:"list_separator" default:" | "`
	PrimaryLabel      string `mapstructure:"primary_label" default:"goodreads"`
	SecondaryLabel    string `mapstructure:"secondary_label" default:"google"`
	Prefer            string `mapstructure:"prefer" default:"goodreads"`
}

// Rules converts the merge section into engine rules.
func (m MergeConfig) Rules() merge.Rules {
	return merge.Rules{
		Lists: normalize.Lists{
			AuthorDelimiters:  m.AuthorDelimiters,
			CategoryDelimiter: m.CategoryDelimiter,
		},
		ListSeparator:  m.ListSeparator,
		PrimaryLabel:   m.PrimaryLabel,
		SecondaryLabel: m.SecondaryLabel,
		Prefer:         m.Prefer,
	}
}

// Load reads configuration from environment variables. Call godotenv first
// to have a .env file contribute.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. BOOKMERGE_PATHS_GOODREADS -> paths.goodreads)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues walks the struct and registers every `mapstructure` key with its
// `default` tag so AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
