package statusweb3mockgo

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// ServerConfig configures the websocket bridge server.
type ServerConfig struct {
	ListenAddr     string   `toml:"listen_addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Config is the on-disk configuration of the web3mock tool.
type Config struct {
	Session SessionConfiguration `toml:"session"`
	Server  ServerConfig         `toml:"server"`
}

func DefaultConfig() Config {
	return Config{
		Session: DefaultSessionConfiguration(),
		Server: ServerConfig{
			ListenAddr:     "127.0.0.1:8546",
			AllowedOrigins: []string{"*"},
		},
	}
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, id, link)
	},
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	// Add file name to errors that have a line number.
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(path + ", " + err.Error())
	}
	if err != nil {
		return cfg, err
	}

	if err := cfg.Session.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
