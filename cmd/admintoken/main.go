// Command admintoken mints an admin bearer token for catalog writes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"MiniCart/internal/auth"
	"MiniCart/internal/config"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load("admintoken", "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := auth.CheckSecret(cfg.JWTSecret); err != nil {
		fmt.Fprintln(os.Stderr, "JWT_SECRET:", err)
		os.Exit(1)
	}

	tok, err := auth.NewTokenMaker(cfg.JWTSecret).New(*subject, auth.RoleAdmin, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
