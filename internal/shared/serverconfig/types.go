package serverconfig

import "time"

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Resources  ResourcesConfig  `yaml:"resources" mapstructure:"resources"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"`
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type GameConfig struct {
	// TickInterval of 0 disables the ticker; ticks are then only driven by Step.
	TickInterval    time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	MaxTickDuration time.Duration `yaml:"max_tick_duration" mapstructure:"max_tick_duration"`
	AskTimeout      time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	UndoLimit       int           `yaml:"undo_limit" mapstructure:"undo_limit"`
	InitialMap      string        `yaml:"initial_map" mapstructure:"initial_map"`
	LazyPopulate    bool          `yaml:"lazy_populate" mapstructure:"lazy_populate"`
	TransactionTTL  time.Duration `yaml:"transaction_ttl" mapstructure:"transaction_ttl"`
	// TransactionsPerKey caps each (source, destination) queue of the render log.
	TransactionsPerKey int `yaml:"transactions_per_key" mapstructure:"transactions_per_key"`
}

type StorageConfig struct {
	Driver  string        `yaml:"driver" mapstructure:"driver"` // file | memory | mongodb
	MapDir  string        `yaml:"map_dir" mapstructure:"map_dir"`
	IndexDB string        `yaml:"index_db" mapstructure:"index_db"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type ResourcesConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type HTTPServerConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
}
