// Package service installs daycontrol as a macOS launchd agent that runs the
// scheduler in the background.
package service

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/chris/daycontrol/config"
	"github.com/joho/godotenv"
)

const (
	label     = "com.daycontrol.agent"
	binDest   = "/usr/local/bin/daycontrol"
	plistName = label + ".plist"
)

func plistDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents")
}

func plistPath() string {
	return filepath.Join(plistDir(), plistName)
}

func logDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "Logs")
}

func stdoutLogPath() string { return filepath.Join(logDir(), "daycontrol-stdout.log") }
func stderrLogPath() string { return filepath.Join(logDir(), "daycontrol-stderr.log") }

// Install copies the binary to /usr/local/bin, seeds ~/.daycontrol/config
// from .env if needed, writes the launchd plist, and loads it.
func Install() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("resolving symlinks: %w", err)
	}
	if err := copyBinary(exe, binDest); err != nil {
		return err
	}
	fmt.Printf("installed binary to %s\n", binDest)

	seeded, err := seedConfig(".env", config.ConfigFile())
	if err != nil {
		return err
	}
	if seeded {
		fmt.Printf("seeded config from .env -> %s\n", config.ConfigFile())
	}

	plist, err := renderPlist(resolveWorkDir(config.ConfigFile()))
	if err != nil {
		return fmt.Errorf("generating plist: %w", err)
	}

	// Unload an older copy first; a failure here only means it wasn't loaded.
	if _, err := os.Stat(plistPath()); err == nil {
		_ = launchctl("unload", plistPath())
	}
	if err := os.MkdirAll(plistDir(), 0755); err != nil {
		return fmt.Errorf("creating LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(plistPath(), []byte(plist), 0644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}
	fmt.Printf("wrote plist to %s\n", plistPath())

	if err := launchctl("load", plistPath()); err != nil {
		return fmt.Errorf("loading plist: %w", err)
	}
	fmt.Println("service loaded; morning and evening check-ins will run on schedule")
	return nil
}

func copyBinary(src, dest string) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading binary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, input, 0755); err != nil {
		return fmt.Errorf("copying binary to %s: %w", dest, err)
	}
	return nil
}

// seedConfig copies envFile to configFile when configFile does not exist yet.
// It reports whether a copy was made.
func seedConfig(envFile, configFile string) (bool, error) {
	if _, err := os.Stat(configFile); err == nil {
		return false, nil
	}
	envData, err := os.ReadFile(envFile)
	if err != nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0700); err != nil {
		return false, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(configFile, envData, 0600); err != nil {
		return false, fmt.Errorf("writing config: %w", err)
	}
	return true, nil
}

// resolveWorkDir picks the service's working directory. A relative
// DATABASE_PATH in the installed config is resolved against the directory
// install was run from; otherwise the config directory is used.
func resolveWorkDir(configFile string) string {
	envVars, _ := godotenv.Read(configFile)
	if dbPath, ok := envVars["DATABASE_PATH"]; ok && !filepath.IsAbs(dbPath) {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return filepath.Dir(configFile)
}

// Uninstall unloads and removes the plist and the installed binary.
func Uninstall() error {
	if _, err := os.Stat(plistPath()); err == nil {
		if err := launchctl("unload", plistPath()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: unload failed: %v\n", err)
		}
		if err := os.Remove(plistPath()); err != nil {
			return fmt.Errorf("removing plist: %w", err)
		}
		fmt.Printf("removed %s\n", plistPath())
	} else {
		fmt.Println("plist not found, skipping")
	}

	if _, err := os.Stat(binDest); err == nil {
		if err := os.Remove(binDest); err != nil {
			return fmt.Errorf("removing binary: %w", err)
		}
		fmt.Printf("removed %s\n", binDest)
	} else {
		fmt.Printf("%s not found, skipping\n", binDest)
	}

	fmt.Println("uninstalled")
	return nil
}

func Status() error {
	cmd := exec.Command("launchctl", "list", label)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Println("service is not loaded")
	}
	return nil
}

func launchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launchctl %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.StdoutLog}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrLog}}</string>
</dict>
</plist>
`))

type plistData struct {
	Label     string
	BinPath   string
	WorkDir   string
	StdoutLog string
	StderrLog string
}

func renderPlist(workDir string) (string, error) {
	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, plistData{
		Label:     label,
		BinPath:   binDest,
		WorkDir:   workDir,
		StdoutLog: stdoutLogPath(),
		StderrLog: stderrLogPath(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
