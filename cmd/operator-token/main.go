// Command operator-token prints a signed operator token for the write
// endpoints, using the same JWT_* environment as the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	jwttoken "ukid/internal/jwt_token"
	"ukid/internal/platform/config"
)

func main() {
	subject := flag.String("subject", "", "operator identity recorded on audit events")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	scopes := flag.String("scopes", "companies:write", "space-separated scopes")
	flag.Parse()

	cfg := config.FromEnv()
	svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	token, err := svc.GenerateOperatorToken(*subject, strings.Fields(*scopes), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "operator-token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
