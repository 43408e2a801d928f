package chromebrowser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveChromePath returns the Chrome executable to launch: explicitPath if
// set, else $CHROME_PATH, else the first system installation found. The empty
// string means nothing was found.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}
	for _, candidate := range chromeCandidates(runtime.GOOS, os.Getenv) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// chromeCandidates lists installation names or paths for goos, Chromium
// before Chrome.
func chromeCandidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "linux":
		return []string{
			"chromium",
			"chromium-browser",
			"google-chrome-stable",
			"google-chrome",
		}
	case "windows":
		var candidates []string
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			base := getenv(env)
			if base == "" {
				continue
			}
			candidates = append(candidates,
				base+`\Chromium\Application\chrome.exe`,
				base+`\Google\Chrome\Application\chrome.exe`,
			)
		}
		return candidates
	}
	return nil
}

// resolveExecutable stats absolute paths and looks bare names up in PATH.
func resolveExecutable(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) || strings.Contains(nameOrPath, `:\`) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
