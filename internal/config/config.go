package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ScanConfig holds configuration for the position scan command.
type ScanConfig struct {
	RPCURL    string
	Pair      string
	Factory   string
	TokenX    string
	TokenY    string
	Owner     string
	BinStep   uint16
	Radius    uint32
	Workers   int
	SymbolX   string
	SymbolY   string
	USDX      float64
	USDY      float64
	DecimalsX int
	DecimalsY int
	TVLUSD    float64
	Volume24h float64
	Out       string
	PGDSN     string
	LogLevel  string
}

// LoadScan merges config file, environment variables, and flags into ScanConfig.
func LoadScan(cfgFile string, flags *pflag.FlagSet) (ScanConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"radius":     uint32(50),
		"workers":    10,
		"decimals-x": 18,
		"decimals-y": 18,
		"log-level":  "info",
	})
	if err != nil {
		return ScanConfig{}, err
	}

	cfg := ScanConfig{
		RPCURL:    v.GetString("rpc"),
		Pair:      v.GetString("pair"),
		Factory:   v.GetString("factory"),
		TokenX:    v.GetString("token-x"),
		TokenY:    v.GetString("token-y"),
		Owner:     v.GetString("owner"),
		BinStep:   uint16(v.GetUint32("bin-step")),
		Radius:    v.GetUint32("radius"),
		Workers:   v.GetInt("workers"),
		SymbolX:   v.GetString("symbol-x"),
		SymbolY:   v.GetString("symbol-y"),
		USDX:      v.GetFloat64("usd-x"),
		USDY:      v.GetFloat64("usd-y"),
		DecimalsX: v.GetInt("decimals-x"),
		DecimalsY: v.GetInt("decimals-y"),
		TVLUSD:    v.GetFloat64("tvl-usd"),
		Volume24h: v.GetFloat64("volume-24h-usd"),
		Out:       v.GetString("out"),
		PGDSN:     v.GetString("pg-dsn"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}

// WithdrawConfig holds configuration for the withdraw planning command. It
// scans like ScanConfig and then selects shares to burn.
type WithdrawConfig struct {
	ScanConfig
	FromBin    uint32
	ToBin      uint32
	Percentage int
}

// LoadWithdraw merges config file, environment variables, and flags into
// WithdrawConfig.
func LoadWithdraw(cfgFile string, flags *pflag.FlagSet) (WithdrawConfig, error) {
	scan, err := LoadScan(cfgFile, flags)
	if err != nil {
		return WithdrawConfig{}, err
	}

	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"percentage": 100,
	})
	if err != nil {
		return WithdrawConfig{}, err
	}

	return WithdrawConfig{
		ScanConfig: scan,
		FromBin:    v.GetUint32("from-bin"),
		ToBin:      v.GetUint32("to-bin"),
		Percentage: v.GetInt("percentage"),
	}, nil
}

// PlanConfig holds configuration for the deposit planning command.
type PlanConfig struct {
	Strategy     string
	MinPrice     float64
	MaxPrice     float64
	CurrentPrice float64
	NumBins      int
	BinStep      uint16
	TokenX       string
	TokenY       string
	LogLevel     string
}

// LoadPlan merges config file, environment variables, and flags into PlanConfig.
func LoadPlan(cfgFile string, flags *pflag.FlagSet) (PlanConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"strategy":  "uniform",
		"num-bins":  50,
		"bin-step":  uint32(25),
		"log-level": "info",
	})
	if err != nil {
		return PlanConfig{}, err
	}

	cfg := PlanConfig{
		Strategy:     v.GetString("strategy"),
		MinPrice:     v.GetFloat64("min-price"),
		MaxPrice:     v.GetFloat64("max-price"),
		CurrentPrice: v.GetFloat64("current-price"),
		NumBins:      v.GetInt("num-bins"),
		BinStep:      uint16(v.GetUint32("bin-step")),
		TokenX:       v.GetString("token-x"),
		TokenY:       v.GetString("token-y"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	RPCURL   string
	Quoter   string
	TokenIn  string
	TokenOut string
	AmountIn string
	Slippage float64
	LogLevel string
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"slippage":  0.5,
		"log-level": "info",
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	cfg := QuoteConfig{
		RPCURL:   v.GetString("rpc"),
		Quoter:   v.GetString("quoter"),
		TokenIn:  v.GetString("token-in"),
		TokenOut: v.GetString("token-out"),
		AmountIn: v.GetString("amount-in"),
		Slippage: v.GetFloat64("slippage"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("BINSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
