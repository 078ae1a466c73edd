package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"

	"waterguard/internal/mail"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: gmail-auth-helper <credentials.json>")
	}

	credentialsData, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read credentials file: %v", err)
	}
	credentials, err := mail.ParseGoogleCredentials(credentialsData)
	if err != nil {
		log.Fatalf("Failed to parse credentials: %v", err)
	}

	config := mail.OAuthConfig(credentials)
	// offline access with forced consent so Google always returns a refresh token
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Printf("🔗 Gmail send-permission helper\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("1. Open this URL in your browser:\n")
	fmt.Printf("   %s\n\n", authURL)
	fmt.Printf("2. Sign in as the account in SENDER_EMAIL and allow sending mail\n")
	fmt.Printf("3. Paste the authorization code below\n\n")
	fmt.Printf("📝 Authorization code: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Failed to read authorization code: %v", err)
	}

	token, err := config.Exchange(context.Background(), authCode)
	if err != nil {
		log.Fatalf("Failed to exchange code for token: %v", err)
	}
	if token.RefreshToken == "" {
		log.Fatal("Google did not return a refresh token; revoke the app's access and try again")
	}

	fmt.Printf("\n✅ Done. Add these to your .env file:\n\n")
	fmt.Printf("MAIL_TRANSPORT=gmail\n")
	fmt.Printf("GMAIL_CREDENTIALS_JSON='%s'\n", string(credentialsData))
	fmt.Printf("GMAIL_REFRESH_TOKEN='%s'\n", token.RefreshToken)
}
