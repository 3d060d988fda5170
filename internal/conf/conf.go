package conf

// Bootstrap 服务启动配置（configs/config.yaml）
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Log    *Log    `json:"log"`
	Engine *Engine `json:"engine"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Network    string `json:"network"`
	Addr       string `json:"addr"`
	TimeoutSec int64  `json:"timeout_sec"`
}

type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
	Rabbitmq *Rabbitmq `json:"rabbitmq"`
	Rng      *Rng      `json:"rng"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Redis struct {
	Addr            []string `json:"addr"`
	Password        string   `json:"password"`
	Db              int32    `json:"db"`
	ReadTimeoutSec  int64    `json:"read_timeout_sec"`
	WriteTimeoutSec int64    `json:"write_timeout_sec"`
}

type Rabbitmq struct {
	Url      string `json:"url"`
	Exchange string `json:"exchange"`
}

// Rng 外部RNG服务配置
type Rng struct {
	Url        string `json:"url"`
	TimeoutSec int64  `json:"timeout_sec"`
}

type Log struct {
	Mode  int32  `json:"mode"`
	Level string `json:"level"`
	App   string `json:"app"`
	Dir   string `json:"dir"`
	File  bool   `json:"file"`
}

// Engine 引擎配置
type Engine struct {
	GameConfigDir string `json:"game_config_dir"` // 游戏数学配置目录
}
