package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envVarConfig defines an explicit environment variable mapping.
type envVarConfig struct {
	key    string // config key
	envVar string // environment variable name
}

var envVars = []envVarConfig{
	{key: "log.level", envVar: "TRACETAIL_LOG_LEVEL"},
	{key: "log.file", envVar: "TRACETAIL_LOG_FILE"},
	{key: "watch.command", envVar: "TRACETAIL_WATCH_COMMAND"},
	{key: "watch.log_dir", envVar: "TRACETAIL_WATCH_LOG_DIR"},
	{key: "daemon.pid_file", envVar: "TRACETAIL_DAEMON_PID_FILE"},
}

func loadEnv(v *viper.Viper) error {
	// A .env in the working directory wins over ~/.tracetail.env.
	if err := godotenv.Load(); err != nil {
		if home, err := os.UserHomeDir(); err == nil {
			godotenv.Load(filepath.Join(home, ".tracetail.env"))
		}
	}

	v.SetEnvPrefix("TRACETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return err
		}
	}
	return nil
}
