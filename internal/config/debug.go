package config

import "os"

func IsDebug() bool {
	return os.Getenv("ALEX_DEBUG") == "1"
}
