package env

import (
	"os"
	"path/filepath"
)

const (
	appName = "kuzukago"

	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	KUZUKAGO_CONFIG_PATH string
	KUZUKAGO_LOG_PATH    string
	KUZUKAGO_TRASH_DIR   string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	KUZUKAGO_CONFIG_PATH = os.Getenv("KUZUKAGO_CONFIG_PATH")
	if KUZUKAGO_CONFIG_PATH == "" {
		KUZUKAGO_CONFIG_PATH = filepath.Join(configHome(), appName, "config.yaml")
	}

	KUZUKAGO_LOG_PATH = os.Getenv("KUZUKAGO_LOG_PATH")
	if KUZUKAGO_LOG_PATH == "" {
		KUZUKAGO_LOG_PATH = filepath.Join(dataHome(), appName, "debug.log")
	}

	KUZUKAGO_TRASH_DIR = os.Getenv("KUZUKAGO_TRASH_DIR")
	if KUZUKAGO_TRASH_DIR == "" {
		KUZUKAGO_TRASH_DIR = filepath.Join(dataHome(), appName, "Trash")
	}
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), defaultXDGConfigDirname)
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), defaultXDGDataDirname)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return home
}
