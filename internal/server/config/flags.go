package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-m int      maximum upload size, MiB
//	-ae string  bootstrap admin email
//	-ap string  bootstrap admin password
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-ae", "-ap", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	maxUpload := fs.Int64("m", config.MaxUploadBytes>>20, "maximum upload size (in MiB)")

	fs.StringVar(&config.AdminEmail, "ae", config.AdminEmail, "bootstrap admin email")
	fs.StringVar(&config.AdminPassword, "ap", config.AdminPassword, "bootstrap admin password")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Unset unit flags keep the finer-grained values from the JSON file.
	if flagx.IsSet(fs, "t") {
		config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	}
	if flagx.IsSet(fs, "m") {
		config.MaxUploadBytes = *maxUpload << 20
	}
}
