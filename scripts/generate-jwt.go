package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	secret := os.Getenv("API_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: API_JWT_SECRET environment variable must be set")
		fmt.Fprintln(os.Stderr, "Usage: API_JWT_SECRET=secret go run scripts/generate-jwt.go")
		os.Exit(1)
	}

	sub := os.Getenv("JWT_SUBJECT")
	if sub == "" {
		sub = uuid.NewString()
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenString)
}
