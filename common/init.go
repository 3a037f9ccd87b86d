package common

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/logger"
)

var (
	Port         = flag.Int("port", 3000, "the listening port")
	PrintVersion = flag.Bool("version", false, "print version and exit")
	PrintHelp    = flag.Bool("help", false, "print help and exit")
	LogDir       = flag.String("log-dir", "", "specify the log directory")
)

func printHelp() {
	fmt.Println("Jewel Studio " + Version + " - text to jewelry design, 2D preview and 3D model.")
	fmt.Println("Usage: jewel-studio [--port <port>] [--log-dir <log directory>] [--version] [--help]")
}

// Init parses the command line and prepares the log directory. It runs from
// main rather than init so that test binaries keep their own flags.
func Init() {
	flag.Parse()

	if *PrintVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	if *PrintHelp {
		printHelp()
		os.Exit(0)
	}

	if os.Getenv("SESSION_SECRET") != "" {
		if os.Getenv("SESSION_SECRET") == "random_string" {
			logger.SysError("SESSION_SECRET is set to an example value, please change it to a random string.")
		} else {
			config.SessionSecret = os.Getenv("SESSION_SECRET")
		}
	}
	if os.Getenv("SQLITE_PATH") != "" {
		SQLitePath = os.Getenv("SQLITE_PATH")
	}

	// flag > env > default
	logDir := *LogDir
	if logDir == "" {
		logDir = os.Getenv("LOG_DIR")
	}
	if logDir == "" {
		logDir = "./logs"
	}

	var err error
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		err = os.Mkdir(logDir, 0777)
		if err != nil {
			log.Fatal(err)
		}
	}
	logger.LogDir = logDir
}

// ValidateKeys checks the upstream credentials the same way the service
// refuses to start without them.
func ValidateKeys(stabilityKey, meshyKey string) error {
	if stabilityKey == "" || !strings.HasPrefix(stabilityKey, "sk-") {
		return fmt.Errorf("invalid or missing Stability AI API key")
	}
	if meshyKey == "" {
		return fmt.Errorf("missing Meshy API key")
	}
	return nil
}
