package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del backtester.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Backtest   BacktestConfig   `yaml:"backtest"`
	Martingale MartingaleConfig `yaml:"martingale"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// DataConfig describe el origen de la serie de velas.
type DataConfig struct {
	Source string `yaml:"source"` // csv | sqlite | parquet
	Path   string `yaml:"path"`   // fichero CSV/Parquet o base SQLite
	Symbol string `yaml:"symbol"` // símbolo dentro de la base SQLite
}

// BacktestConfig controla el run base.
type BacktestConfig struct {
	PayoutRate   float64 `yaml:"payout_rate"`   // 0.85 = 85% de retorno en win
	TradeAmount  float64 `yaml:"trade_amount"`  // stake por trade
	Lookback     int     `yaml:"lookback"`      // velas de histórico por ventana
	StartCandle  int     `yaml:"start_candle"`  // primera barra de señal
	EndCandle    int     `yaml:"end_candle"`    // 0 = hasta el final de la serie
	DurationBars int     `yaml:"duration_bars"` // duración de la apuesta en barras

	Breakout  BreakoutConfig  `yaml:"breakout"`
	Engulfing EngulfingConfig `yaml:"engulfing"`
	Bollinger BollingerConfig `yaml:"bollinger"`
}

// BreakoutConfig parametriza la estrategia breakout.
type BreakoutConfig struct {
	MaxATRPercent float64 `yaml:"max_atr_percent"` // filtro de volatilidad
}

// EngulfingConfig parametriza la estrategia engulfing.
type EngulfingConfig struct {
	MinBodyRatio float64 `yaml:"min_body_ratio"` // fuerza mínima del cuerpo
}

// BollingerConfig parametriza la estrategia bollinger.
type BollingerConfig struct {
	Period    int     `yaml:"period"`
	Deviation float64 `yaml:"deviation"`
}

// MartingaleConfig controla el overlay de sizing.
type MartingaleConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Multiplier float64 `yaml:"multiplier"` // factor sobre el stake base
}

// SweepConfig define la rejilla del grid search de Bollinger.
type SweepConfig struct {
	PeriodMin     int     `yaml:"period_min"`
	PeriodMax     int     `yaml:"period_max"`
	PeriodStep    int     `yaml:"period_step"`
	DeviationMin  float64 `yaml:"deviation_min"`
	DeviationMax  float64 `yaml:"deviation_max"`
	DeviationStep float64 `yaml:"deviation_step"`
	Workers       int     `yaml:"workers"` // 0 = NumCPU
}

// StorageConfig controla dónde se persiste el histórico de runs.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("QBOT_DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("QBOT_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Data.Source == "" {
		cfg.Data.Source = "csv"
	}
	if cfg.Data.Symbol == "" {
		cfg.Data.Symbol = "USDJPY"
	}
	if cfg.Backtest.PayoutRate <= 0 {
		cfg.Backtest.PayoutRate = 0.85
	}
	if cfg.Backtest.TradeAmount <= 0 {
		cfg.Backtest.TradeAmount = 10
	}
	if cfg.Backtest.Lookback <= 0 {
		cfg.Backtest.Lookback = 30
	}
	if cfg.Backtest.StartCandle <= 0 {
		cfg.Backtest.StartCandle = 100
	}
	if cfg.Backtest.DurationBars <= 0 {
		cfg.Backtest.DurationBars = 1
	}
	if cfg.Backtest.Bollinger.Period <= 0 {
		cfg.Backtest.Bollinger.Period = 14
	}
	if cfg.Backtest.Bollinger.Deviation <= 0 {
		cfg.Backtest.Bollinger.Deviation = 1.0
	}
	if cfg.Martingale.Multiplier <= 0 {
		cfg.Martingale.Multiplier = 1.5
	}
	if cfg.Sweep.PeriodMin <= 0 {
		cfg.Sweep.PeriodMin = 10
	}
	if cfg.Sweep.PeriodMax <= 0 {
		cfg.Sweep.PeriodMax = 20
	}
	if cfg.Sweep.PeriodStep <= 0 {
		cfg.Sweep.PeriodStep = 2
	}
	if cfg.Sweep.DeviationMin <= 0 {
		cfg.Sweep.DeviationMin = 0.5
	}
	if cfg.Sweep.DeviationMax <= 0 {
		cfg.Sweep.DeviationMax = 2.0
	}
	if cfg.Sweep.DeviationStep <= 0 {
		cfg.Sweep.DeviationStep = 0.5
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "qbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
