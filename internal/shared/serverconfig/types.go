package serverconfig

import "time"

type Config struct {
	MySQL        MySQLConfig        `yaml:"mysql" mapstructure:"mysql"`
	MongoDB      MongoDBConfig      `yaml:"mongodb" mapstructure:"mongodb"`
	SQLite       SQLiteConfig       `yaml:"sqlite" mapstructure:"sqlite"`
	PlayerServer PlayerServerConfig `yaml:"playerserver" mapstructure:"playerserver"`
	Economy      EconomyConfig      `yaml:"economy" mapstructure:"economy"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Logic        LogicConfig        `yaml:"logic" mapstructure:"logic"`
	JWTSecret    string             `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	// 连接最长存活时间，0 表示不限
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" mapstructure:"slow_threshold"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

// SQLiteConfig 事件流水库，path 为空则不开启
type SQLiteConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	BufferSize int    `yaml:"buffer_size" mapstructure:"buffer_size"`
}

type PlayerServerConfig struct {
	Host       string        `yaml:"host" mapstructure:"host"`
	Port       int           `yaml:"port" mapstructure:"port"`
	NeedSecret bool          `yaml:"need_secret" mapstructure:"need_secret"`
	IsDev      bool          `yaml:"is_dev" mapstructure:"is_dev"`
	AskTimeout time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
}

// EconomyConfig 新玩家初始数值与各类定时任务间隔
type EconomyConfig struct {
	Storage          string           `yaml:"storage" mapstructure:"storage"` // memory/mongodb/mysql
	AccrualInterval  time.Duration    `yaml:"accrual_interval" mapstructure:"accrual_interval"`
	ConstructionTick time.Duration    `yaml:"construction_tick" mapstructure:"construction_tick"`
	FlushInterval    time.Duration    `yaml:"flush_interval" mapstructure:"flush_interval"`
	StartResources   map[string]int64 `yaml:"start_resources" mapstructure:"start_resources"`
	ResourceCap      int64            `yaml:"resource_cap" mapstructure:"resource_cap"`
	BaseIncome       map[string]int64 `yaml:"base_income" mapstructure:"base_income"`
	TroopCap         int64            `yaml:"troop_cap" mapstructure:"troop_cap"`
	MaxGenerals      int              `yaml:"max_generals" mapstructure:"max_generals"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type LogicConfig struct {
	JSONData string `yaml:"json_data" mapstructure:"json_data"`
	ServerID int    `yaml:"server_id" mapstructure:"server_id"`
}
