package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/flagx"
)

var knownFlags = []string{"-a", "-u", "-d", "-t", "-i", "-s", "-l", "-f"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   account endpoint URL
//	-u string   avatar upload endpoint URL
//	-d string   local database path (":memory:" keeps nothing)
//	-t int      request timeout (seconds)
//	-i int      online check interval (seconds)
//	-s int      session lifetime (seconds, 0 disables expiry)
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text, json, console
//
// Arguments not listed above (such as -c) are filtered out with
// flagx.FilterArgs. Panics on a malformed value.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "a", cfg.ServerEndpointURL, "account endpoint URL")
	fs.StringVar(&cfg.AvatarEndpointURL, "u", cfg.AvatarEndpointURL, "avatar upload endpoint URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	sessionTTL := fs.Int("s", int(cfg.SessionTTL.Seconds()), "session lifetime (in seconds, 0 = no expiry)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json, console)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.SessionTTL = time.Duration(*sessionTTL) * time.Second
}
