package commands

import (
	"fmt"
	"io"
	"log/slog"

	authService "github.com/allisson/orchestrator/internal/auth/service"
)

type apiKeyOutput struct {
	APIKey string `json:"api_key"`
	Hash   string `json:"hash"`
}

// RunCreateAPIKey generates an operator API key. The plain key is printed once; the hash is
// what goes into API_KEY_HASHES.
func RunCreateAPIKey(keyService authService.APIKeyService, logger *slog.Logger, format string, io IOTuple) error {
	plainKey, hashedKey, err := keyService.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate api key: %w", err)
	}

	logger.Info("api key generated")

	output := apiKeyOutput{APIKey: plainKey, Hash: hashedKey}
	return writeOutput(io.Writer, format, output, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "API key (shown once, send it as X-API-Key):")
		_, _ = fmt.Fprintf(w, "  %s\n\n", output.APIKey)
		_, _ = fmt.Fprintln(w, "Append this hash to API_KEY_HASHES:")
		_, _ = fmt.Fprintf(w, "  %s\n", output.Hash)
	})
}
