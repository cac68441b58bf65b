// Package cmd implements the pat CLI application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/ecb"
	"github.com/etnz/patrimony/eodhd"
	"github.com/etnz/patrimony/exchangerate"
	"github.com/etnz/patrimony/httpcache"
	"github.com/etnz/patrimony/store"
	"github.com/etnz/patrimony/tradegate"
	"github.com/etnz/patrimony/yahoo"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Commands lists the subcommands of pat, and their group.
var Commands = []struct {
	Group   string
	Command subcommands.Command
}{
	{"reports", &holdingCmd{}},
	{"reports", &taxCmd{}},
	{"reports", &cashCmd{}},
	{"reports", &summaryCmd{}},
	{"reports", &logCmd{}},
	{"reports", &usersCmd{}},
	{"transactions", &recordCmd{kind: patrimony.KindBuy}},
	{"transactions", &recordCmd{kind: patrimony.KindSell}},
	{"transactions", &dividendCmd{}},
	{"help", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
// Their defaults come from the environment, or a .env file in the working directory.

var (
	storeKind = flag.String("store", getEnv("PATRIMONY_STORE", "jsonl"), "Ledger store, `jsonl` or `sqlite`")
	storePath = flag.String("path", getEnv("PATRIMONY_PATH", "."), "Directory of the ledger store")
	userName  = flag.String("user", getEnv("PATRIMONY_USER", "default"), "Owner of the ledger")
	baseCur   = flag.String("base", getEnv("PATRIMONY_BASE_CURRENCY", "EUR"), "Base currency of the reports")
	logLevel  = flag.String("log-level", getEnv("PATRIMONY_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	offline   = flag.Bool("offline", getEnvAsBool("PATRIMONY_OFFLINE", false), "Do not query any quote or rate provider")
	cacheDir  = flag.String("cache", getEnv("PATRIMONY_CACHE", defaultCacheDir()), "Directory of the daily HTTP cache, empty to disable")
	eodhdKey  = flag.String("eodhd-api-key", getEnv("EODHD_API_KEY", ""), "EODHD API key, enables the eodhd.com provider. You can get one at https://eodhd.com/")
	raw       = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal")
)

// out is where reports are printed.
var out io.Writer = os.Stdout

var loadEnv = sync.OnceFunc(func() { _ = godotenv.Load() })

func getEnv(key, defaultValue string) string {
	loadEnv()
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := getEnv(key, ""); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "patrimony")
}

// newLogger returns a console logger on stderr at the configured level.
func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ledgerStore is a store that can list its users.
type ledgerStore interface {
	patrimony.LedgerStore
	Users(ctx context.Context) ([]string, error)
}

// openStore opens the configured store. The returned func releases it.
func openStore() (ledgerStore, func() error, error) {
	switch *storeKind {
	case "jsonl":
		return store.NewFile(*storePath), func() error { return nil }, nil
	case "sqlite":
		s, err := store.OpenSQLite(filepath.Join(*storePath, "patrimony.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, want jsonl or sqlite", *storeKind)
	}
}

// providers returns the rate and quote providers, nil when offline.
func providers(log zerolog.Logger) (patrimony.RateProvider, patrimony.QuoteProvider) {
	if *offline {
		return nil, nil
	}
	client := &http.Client{Timeout: 10 * time.Second}
	if *cacheDir != "" {
		client = httpcache.New(*cacheDir, log).Client()
	}
	tg := tradegate.New(client, log)
	yf := yahoo.New(log)
	rates := patrimony.RateChain{tg, exchangerate.New(log), ecb.New(client, log), yf}
	quotes := patrimony.QuoteChain{yf, tg}
	if *eodhdKey != "" {
		eo := eodhd.New(*eodhdKey, client, log)
		rates = append(rates, eo)
		quotes = append(quotes, eo)
	}
	return rates, quotes
}

// openAccountingSystem loads the user ledger and wires the providers.
func openAccountingSystem(ctx context.Context) (*patrimony.AccountingSystem, error) {
	log := newLogger()
	s, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	ledger, err := patrimony.LoadLedger(ctx, s, *userName)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("user", *userName).Int("transactions", ledger.Len()).Msg("ledger loaded")

	rates, quotes := providers(log)
	as, err := patrimony.NewAccountingSystem(ledger, *baseCur, rates, quotes)
	if err != nil {
		return nil, err
	}
	as.Log = log
	return as, nil
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if !*raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
		if err == nil {
			styled, err := r.Render(md)
			if err == nil {
				fmt.Fprint(out, styled)
				return
			}
		}
	}
	fmt.Fprint(out, md)
}

// fail reports err on stderr and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
