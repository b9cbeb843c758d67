package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Annotator AnnotatorConfig `yaml:"annotator"`
	Script    ScriptConfig    `yaml:"script"`
	Learning  LearningConfig  `yaml:"learning"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"5s"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"        env-default:"info"`
	Format     string `yaml:"format"       env:"LOG_FORMAT"       env-default:"text"`
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"50"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}

// AnnotatorConfig holds text annotation settings.
type AnnotatorConfig struct {
	MaxWordLength int    `yaml:"max_word_length"   env:"ANNOTATOR_MAX_WORD_LENGTH"   env-default:"16"`
	OpenBracket   string `yaml:"open_bracket"      env:"ANNOTATOR_OPEN_BRACKET"      env-default:"【"`
	CloseBracket  string `yaml:"close_bracket"     env:"ANNOTATOR_CLOSE_BRACKET"     env-default:"】"`
	LearningOpen  string `yaml:"learning_open"     env:"ANNOTATOR_LEARNING_OPEN"     env-default:"《"`
	LearningClose string `yaml:"learning_close"    env:"ANNOTATOR_LEARNING_CLOSE"    env-default:"》"`
	Workers       int    `yaml:"workers"           env:"ANNOTATOR_WORKERS"           env-default:"4"`
	PriorityBatch int    `yaml:"priority_batch"    env:"ANNOTATOR_PRIORITY_BATCH"    env-default:"100"`
}

// ScriptConfig holds kanji classification settings. An empty JoyoPath
// selects the bundled list.
type ScriptConfig struct {
	JoyoPath string `yaml:"joyo_path" env:"SCRIPT_JOYO_PATH"`
}

// LearningConfig points at the user's learning-word list file.
type LearningConfig struct {
	Path string `yaml:"path" env:"LEARNING_PATH"`
}
