// Command devtoken prints a signed bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/domain"
)

func main() {
	sub := flag.String("sub", "dev-user", "user ID (token subject)")
	email := flag.String("email", "dev@example.com", "email address")
	name := flag.String("name", "", "nickname")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(domain.Identity{UserID: *sub, Email: *email, Nickname: *name}, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
