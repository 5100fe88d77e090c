package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to cardkeep.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to cardkeep! Let's configure your card archive.")
	fmt.Println()

	cfg := DefaultConfig()

	dataPrompt := promptui.Prompt{
		Label:   "Data directory (front/, back/, metadata.json)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	providerPrompt := promptui.Select{
		Label: "Where are the card images stored",
		Items: []string{"local — a directory on this machine", "s3 — an S3 bucket"},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}

	if providerIdx == 0 {
		cfg.ImagesProvider = ProviderLocal
		imagesPrompt := promptui.Prompt{
			Label:   "Images directory",
			Default: "images",
		}
		imagesDir, err := imagesPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("images dir: %w", err)
		}
		cfg.ImagesDir = imagesDir
	} else {
		cfg.ImagesProvider = ProviderS3
		bucketPrompt := promptui.Prompt{Label: "S3 bucket"}
		bucket, err := bucketPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("bucket: %w", err)
		}
		cfg.S3.Bucket = bucket

		regionPrompt := promptui.Prompt{Label: "AWS region", Default: cfg.S3.Region}
		region, err := regionPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("region: %w", err)
		}
		cfg.S3.Region = region

		prefixPrompt := promptui.Prompt{Label: "Key prefix (optional)"}
		prefix, err := prefixPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("prefix: %w", err)
		}
		cfg.S3.Prefix = prefix
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save("cardkeep.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Wrote cardkeep.yml. Start the server with: cardkeep serve")
	return cfg, nil
}
