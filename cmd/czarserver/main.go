/*
Czarserver starts the CZar transpile-cache server and begins listening for
new connections.

Usage:

	czarserver [flags]
	czarserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using the /api/v1 REST endpoints described in SPEC_FULL.md §B.1: submitting
source for transpilation, fetching a previously computed result, and (for an
admin account) clearing the cache or reading its stats. By default, it
listens on localhost:8080. This can be changed with the --listen/-l flag (or
the CZARSERVER_LISTEN_ADDRESS environment variable).

If a JWT token secret is not given, one is automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as
soon as the server shuts down. This is suitable for testing, but a fixed
secret must be given via either a CLI flag or environment variable for
production use.

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		CZARSERVER_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are fewer
		than 32 bytes in the secret, it is repeated until it is. The maximum
		size is 64 bytes. If not given, defaults to the value of environment
		variable CZARSERVER_TOKEN_SECRET. If no secret is specified, a
		random secret is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to a data directory, e.g. sqlite:path/to/db_dir. If not
		given, defaults to the value of environment variable
		CZARSERVER_DATABASE, and if that is not given, an in-memory database
		is used.

	-u, --admin-user USERNAME
		Username of the admin account to create on startup if it does not
		already exist. Defaults to "admin".

	-p, --admin-pass PASSWORD
		Password of the admin account created on startup. Defaults to
		"czar-admin", which must be changed before any production use.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/czar/internal/version"
	"github.com/dekarrin/czar/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "CZARSERVER_LISTEN_ADDRESS"
	EnvSecret = "CZARSERVER_TOKEN_SECRET"
	EnvDB     = "CZARSERVER_DATABASE"
)

const (
	ExitSuccess = iota
	ExitBadArgs
	ExitInitError
)

var (
	flagVersion   = pflag.BoolP("version", "v", false, "Give the current version of czarserver and then exit.")
	flagListen    = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret    = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB        = pflag.String("db", "", "Use the given DB connection string.")
	flagAdminUser = pflag.StringP("admin-user", "u", "admin", "Username of the bootstrap admin account.")
	flagAdminPass = pflag.StringP("admin-pass", "p", "czar-admin", "Password of the bootstrap admin account.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (czar v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitBadArgs)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}
	if _, _, err := splitHostPort(listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(ExitBadArgs)
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		dbConnStr = "inmem"
	}
	dbCfg, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(ExitBadArgs)
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	tokSecret, err := resolveSecret(tokSecStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(ExitBadArgs)
	}

	cfg := server.Config{
		TokenSecret: tokSecret,
		DB:          dbCfg,
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	if err := srv.Bootstrap(context.Background(), *flagAdminUser, *flagAdminPass); err != nil {
		log.Printf("ERROR could not create initial admin account: %v", err)
		os.Exit(ExitInitError)
	}

	log.Printf("INFO  Starting czarserver %s on %s...", version.ServerCurrent, listenAddr)
	if err := srv.ServeForever(listenAddr); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func resolveSecret(given string) ([]byte, error) {
	if given == "" {
		secret := make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return secret, nil
	}

	secret := []byte(given)
	for len(secret) < server.MinSecretSize {
		doubled := make([]byte, len(secret)*2)
		copy(doubled, secret)
		copy(doubled[len(secret):], secret)
		secret = doubled
	}
	if len(secret) > server.MaxSecretSize {
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(secret), server.MaxSecretSize)
	}
	return secret, nil
}

func splitHostPort(addr string) (host string, port int, err error) {
	parts := strings.SplitN(addr, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("not in ADDRESS:PORT or :PORT format")
	}
	port, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", parts[1])
	}
	return parts[0], port, nil
}
