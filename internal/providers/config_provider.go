package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"vtlink/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "VTLINK_LOG_LEVEL")
	viper.BindEnv("youtube.apiKey", "VTLINK_YOUTUBE_API_KEY")
	viper.BindEnv("bilibili.requestDelay", "VTLINK_BILIBILI_DELAY")
	viper.BindEnv("scanner.sweepInterval", "VTLINK_SWEEP_INTERVAL")
	viper.BindEnv("cache.enabled", "VTLINK_CACHE_ENABLED")
	viper.BindEnv("cache.size", "VTLINK_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	applyStoreDefaults(&conf.Store)
	if conf.Submission.HourlyLimit <= 0 {
		conf.Submission.HourlyLimit = 10
	}
	if conf.Scanner.VideoSample <= 0 || conf.Scanner.VideoSample > 10 {
		conf.Scanner.VideoSample = 10
	}

	conf.AppName = "VtuberLinkDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyStoreDefaults(sc *structures.StoreConfig) {
	if sc.Level1Length <= 0 {
		sc.Level1Length = 2
	}
	if sc.Level2Length <= 0 {
		sc.Level2Length = 2
	}
	if sc.HashLength <= 0 {
		sc.HashLength = 8
	}
}
