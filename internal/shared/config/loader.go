package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var mu sync.Mutex

func load(configPath string, out any, watch bool) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := unmarshal(v, out); err != nil {
		return err
	}

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("config file changed:", e.Name)
			if err := unmarshal(v, out); err != nil {
				log.Println("config reload rejected:", err)
			}
		})
		v.WatchConfig()
	}
	return nil
}

func unmarshal(v *viper.Viper, out any) error {
	mu.Lock()
	defer mu.Unlock()
	return v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
