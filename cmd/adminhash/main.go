// Command adminhash prints an Argon2id hash of the admin password read from
// stdin, for use as WMB_ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "adminhash"})
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadPassword()
	if err != nil {
		logg.Error(ctx, "failed to load password config", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "admin password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		logg.Error(ctx, "failed to read password", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(strings.TrimRight(line, "\r\n"), cfg)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
