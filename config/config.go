package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "QFORMS_"

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	Debug       bool

	// Store selects the forms/submissions backend: "sqlite" or "memory".
	Store string
	// FormsDir is loaded into the catalogue at startup; empty means the built-in definitions.
	FormsDir   string
	PublicDir  string
	PrivateDir string

	AdminUser     string
	AdminPassword string
}

// ParseFlags reads the configuration from the command line. Every flag
// defaults to the matching QFORMS_* environment variable, which may also
// come from a .env file in the working directory.
func ParseFlags() (cfg Config, err error) {
	return Parse(flag.CommandLine, os.Args[1:])
}

func Parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}

	var host string
	fs.StringVar(&host, "host", env("HOST", "0.0.0.0"), "listen host name")
	var port uint
	fs.UintVar(&port, "port", envUint("PORT", 80), "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", env("DB_URL", "qforms.sqlite"), "path to SQLite3 DB file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", env("TOKEN_SECRET", ""), "secret key for token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", envUint("TOKEN_TTL", 120), "token TTL in seconds")
	fs.BoolVar(&cfg.Debug, "debug", env("DEBUG", "") == "true", "log at DEBUG level")
	fs.StringVar(&cfg.Store, "store", env("STORE", StoreSQLite), "forms and submissions backend (sqlite|memory)")
	fs.StringVar(&cfg.FormsDir, "forms-dir", env("FORMS_DIR", ""), "directory of form documents loaded at startup (default built-in forms)")
	fs.StringVar(&cfg.PublicDir, "public-dir", env("PUBLIC_DIR", "public"), "directory of public static files")
	fs.StringVar(&cfg.PrivateDir, "private-dir", env("PRIVATE_DIR", "private"), "directory of admin static files")
	fs.StringVar(&cfg.AdminUser, "admin-user", env("ADMIN_USER", ""), "create or reset this admin user at startup")
	fs.StringVar(&cfg.AdminPassword, "admin-password", env("ADMIN_PASSWORD", ""), "password for -admin-user")
	err = fs.Parse(args)
	if err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	switch {
	case cfg.TokenSecret == "":
		err = errors.New("missing parameter -token-secret")
	case cfg.Store != StoreSQLite && cfg.Store != StoreMemory:
		err = errors.New("parameter -store must be sqlite or memory")
	case cfg.AdminUser != "" && cfg.AdminPassword == "":
		err = errors.New("parameter -admin-user requires -admin-password")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func env(name, def string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		return v
	}
	return def
}

func envUint(name string, def uint) uint {
	v, err := strconv.ParseUint(env(name, ""), 10, 0)
	if err != nil {
		return def
	}
	return uint(v)
}
