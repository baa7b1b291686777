package llm

import (
	"fmt"
	"net/http"

	"neuroleap-backend/internal/config"
	"neuroleap-backend/utilities"
)

// AuthenticateHuggingFace verifies the configured token by making a test
// request. Called once at startup when image generation is enabled.
func AuthenticateHuggingFace(cfg *config.APIConfig) error {
	url := "https://huggingface.co/api/whoami"
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.THIRD_PARTY.HFToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to authenticate with Hugging Face API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed: received status code %d", resp.StatusCode)
	}

	utilities.Info("Successfully authenticated with Hugging Face API.")
	return nil
}
