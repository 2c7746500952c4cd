// Package main provides a CLI tool for generating test tokens for the PAAA gateway.
// These tokens use the dev signing key by default and will NOT work in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"paaa/internal/paaa/adapters/authjwt"
	"paaa/internal/platform/config"
)

const (
	defaultIssuer     = "paaa-dev"
	defaultAdminScope = "admin"
	defaultTokenTTL   = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

type common struct {
	key      *string
	issuer   *string
	audience *string
	ttl      *time.Duration
	json     *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		key:      fs.String("key", config.DevSigningKey, "HS256 signing key"),
		issuer:   fs.String("issuer", defaultIssuer, "Token issuer"),
		audience: fs.String("audience", "", "Token audience (optional)"),
		ttl:      fs.Duration("ttl", defaultTokenTTL, "Token time-to-live"),
		json:     fs.Bool("json", false, "Output as JSON"),
	}
}

func main() {
	accessCmd := flag.NewFlagSet("access", flag.ExitOnError)
	accessPatron := accessCmd.String("patron", "", "Patron account the token is bound to")
	accessScopes := accessCmd.String("scopes", "signup,updatepatron", "Comma-separated operations the token grants")
	accessCommon := commonFlags(accessCmd)

	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)
	adminScope := adminCmd.String("scope", defaultAdminScope, "Admin scope name")
	adminCommon := commonFlags(adminCmd)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access":
		_ = accessCmd.Parse(os.Args[2:])
		issue("access_token", *accessPatron, parseScopes(*accessScopes), accessCommon)
	case "admin":
		_ = adminCmd.Parse(os.Args[2:])
		issue("admin_token", "", []string{*adminScope}, adminCommon)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test tokens for the PAAA gateway

WARNING: By default these tokens use the dev signing key and will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  access    Generate a patron-bound access token
  admin     Generate a token carrying the admin scope

Examples:
  # Token allowing alice to block and unblock her account
  tokengen access -patron alice -scopes blockpatron,unblockpatron

  # Token for self-registration
  tokengen access -scopes signup

  # Admin token valid for one hour, as JSON
  tokengen admin -ttl 1h -json

Use "tokengen <command> -h" for more information about a command.`)
}

func issue(kind, patron string, scopes []string, c common) {
	v := authjwt.New(*c.key, *c.issuer, *c.audience, defaultAdminScope, *c.ttl)

	token, err := v.Issue(context.Background(), patron, scopes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	keyType := "custom"
	if *c.key == config.DevSigningKey {
		keyType = "dev"
	}

	if *c.json {
		printJSON(tokenOutput{
			Token:     token,
			Type:      kind,
			ExpiresIn: c.ttl.String(),
			Claims: map[string]any{
				"patron": patron,
				"scope":  scopes,
				"iss":    *c.issuer,
			},
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Signing Key: %s\n", keyType)
	fmt.Printf("Expires In:  %s\n", *c.ttl)
	if patron != "" {
		fmt.Printf("Patron:      %s\n", patron)
	}
	fmt.Printf("Scopes:      %v\n", scopes)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -X POST -H \"Authorization: Bearer <token>\" http://localhost:8080/paaa/<patron>/<operation>")
}

func parseScopes(scopes string) []string {
	if scopes == "" {
		return []string{}
	}
	parts := strings.Split(scopes, ",")
	result := make([]string, 0, len(parts))
	for _, s := range parts {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
