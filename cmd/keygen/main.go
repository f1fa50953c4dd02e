// AngelaMos | 2026
// main.go

package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/carterperez-dev/saasify-contacts/internal/auth"
)

func main() {
	dir := flag.String("dir", "keys", "directory to write the ES256 key pair into")
	force := flag.Bool("force", false, "overwrite an existing key pair")
	flag.Parse()

	if err := run(*dir, *force); err != nil {
		slog.Error("key generation failed", "error", err)
		os.Exit(1)
	}
}

func run(dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if _, err := os.Stat(privatePath); err == nil && !force {
		slog.Info("key pair already exists, skipping", "path", privatePath)
		return nil
	}

	if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
		return err
	}

	slog.Info("key pair written",
		"private", privatePath,
		"public", publicPath,
	)
	return nil
}
