// Command token issues a bearer token for the cloudee API, signed with
// CLOUDEE_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/home-digital/cloudee/internal/services"
)

func main() {
	subject := flag.String("subject", "", "caller the token is issued to")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	token, err := issue(os.Getenv("CLOUDEE_JWT_SECRET"), *subject, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(secret, subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("-subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("-ttl must be positive")
	}
	return services.NewAuthService(secret).IssueToken(subject, ttl)
}
