package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/spf13/viper"
)

const (
	// NetworkKey selects the THORChain network, either "mainnet" or "stagenet"
	NetworkKey = "NETWORK"
	// ThornodeURLKey overrides the thornode base URL derived from the network
	ThornodeURLKey = "THORNODE_URL"
	// DatadirKey is the local data directory to store the deposit history
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// TrackIntervalKey is the delay between deposit status polls, ie. 3s
	TrackIntervalKey = "TRACK_INTERVAL"
	// TrackMaxAttemptsKey is the number of status polls before a tracked deposit times out
	TrackMaxAttemptsKey = "TRACK_MAX_ATTEMPTS"
	// AwaitBudgetKey is the maximum time to wait for a reference ID after broadcasting a registration, ie. 5m
	AwaitBudgetKey = "AWAIT_BUDGET"
	// NoDbKey disables the local badger history store
	NoDbKey = "NO_DB"

	DbLocation = "db"

	networkMainnet  = "mainnet"
	networkStagenet = "stagenet"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("memoless", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("MEMOLESS")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, networkMainnet)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(TrackIntervalKey, "3s")
	vip.SetDefault(TrackMaxAttemptsKey, 200)
	vip.SetDefault(AwaitBudgetKey, "5m")
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(NoDbKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the history store, or the empty string
// when the store is disabled.
func GetDbDir() string {
	if GetBool(NoDbKey) {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func IsStagenet() bool {
	return strings.ToLower(GetString(NetworkKey)) == networkStagenet
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	network := strings.ToLower(GetString(NetworkKey))
	if network != networkMainnet && network != networkStagenet {
		return fmt.Errorf(
			"%s must be either %s or %s", NetworkKey, networkMainnet, networkStagenet,
		)
	}

	if GetDuration(TrackIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", TrackIntervalKey)
	}

	if GetInt(TrackMaxAttemptsKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", TrackMaxAttemptsKey)
	}

	if GetDuration(AwaitBudgetKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", AwaitBudgetKey)
	}

	return nil
}

func initDatadir() error {
	if GetBool(NoDbKey) {
		return nil
	}
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
