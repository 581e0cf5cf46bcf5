package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jonathan/auto-applier/internal/config"
	"github.com/jonathan/auto-applier/internal/handoff"
	"github.com/jonathan/auto-applier/internal/llm"
)

// defaultSettingsPath is where the settings document lives unless overridden.
const defaultSettingsPath = "data/settings.json"

// resolveAPIKey prefers the flag, then the GEMINI_API_KEY environment
// variable.
func resolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("GEMINI_API_KEY")
}

// loadSettings reads and validates the settings document, applying an
// optional CV root override first.
func loadSettings(path, cvRoot string) (*config.Settings, error) {
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cvRoot != "" {
		settings.CVRoot = cvRoot
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// loadSettingsUnvalidated reads the settings document without enforcing the
// CV-root requirement, for commands that only touch stored state.
func loadSettingsUnvalidated(path string) (*config.Settings, error) {
	return config.Load(path)
}

// newLLMClient builds the generation client, failing early when no API key
// is available.
func newLLMClient(ctx context.Context, apiKey string) (llm.Client, error) {
	key := resolveAPIKey(apiKey)
	if key == "" {
		return nil, fmt.Errorf("no API key provided; set GEMINI_API_KEY or use --api-key")
	}
	return llm.NewClient(ctx, nil, key)
}

// terminalBroker answers popup requests interactively on stdin. The notifier
// returns immediately; the read happens on its own goroutine so the worker
// can block on the rendezvous.
func terminalBroker() *handoff.Broker {
	reader := bufio.NewReader(os.Stdin)
	var mu sync.Mutex

	return handoff.NewBroker(func(req *handoff.Request) {
		go func() {
			mu.Lock()
			defer mu.Unlock()

			if req.Kind == handoff.KindCaptcha {
				fmt.Printf("\n%s\nPress Enter when done, or type 'skip': ", req.Question)
				line, err := reader.ReadString('\n')
				if err != nil || strings.TrimSpace(line) == "skip" {
					req.Dismiss()
					return
				}
				req.Resolve("", false)
				return
			}

			fmt.Printf("\nQuestion: %s\nAnswer (empty to skip): ", req.Question)
			line, err := reader.ReadString('\n')
			answer := strings.TrimSpace(line)
			if err != nil || answer == "" {
				req.Dismiss()
				return
			}
			fmt.Print("Remember this answer? [y/N]: ")
			memLine, _ := reader.ReadString('\n')
			remember := strings.HasPrefix(strings.ToLower(strings.TrimSpace(memLine)), "y")
			req.Resolve(answer, remember)
		}()
	})
}
