package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/bryanjohn05/SignSerenade/internal/backend"
	"github.com/bryanjohn05/SignSerenade/internal/capture"
	"github.com/bryanjohn05/SignSerenade/internal/config"
	"github.com/bryanjohn05/SignSerenade/internal/detect"
	"github.com/bryanjohn05/SignSerenade/internal/landmark"
	"github.com/bryanjohn05/SignSerenade/internal/server"
	"github.com/bryanjohn05/SignSerenade/internal/signs"
	"github.com/bryanjohn05/SignSerenade/internal/store"
	"github.com/bryanjohn05/SignSerenade/internal/tray"
)

const listenAddr = ":8080"

func main() {
	fmt.Println("SignSerenade - Sign Language Translator")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".signserenade")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "signserenade.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	resolver := config.NewResolver(st.Settings())
	client := backend.NewClient(resolver.BaseURL)

	session := capture.NewSession(capture.NewCamera(0), st.Settings())
	defer session.Stop()

	loop := detect.NewLoop(detect.Config{
		Frames:   session,
		Backend:  client,
		Log:      st.Detections(),
		Gate:     motionGate(st.Settings()),
		Interval: storedInterval(st.Settings()),
	})
	defer loop.Stop()

	// The landmark overlay is optional; without the Python service the
	// daemon runs fine minus the overlay.
	var overlay landmark.Detector
	if d, err := landmark.NewMediaPipeDetector(landmark.DefaultConfig()); err == nil {
		overlay = d
		defer d.Close()
	} else {
		log.Printf("Landmark overlay disabled: %v", err)
	}

	webDir := findDir("web")
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		VideoDir:  findDir("signs"),
		Store:     st,
		Session:   session,
		Loop:      loop,
		Backend:   client,
		Index:     signs.NewIndex(),
		Detector:  overlay,
		Resolver:  resolver,
	})
	defer srv.Close()

	go func() {
		fmt.Printf("Starting server on %s\n", listenAddr)
		if err := srv.ListenAndServe(listenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the inference model in the background so startup never
	// blocks on a cold backend.
	go func() {
		if err := client.WaitForModel(context.Background(), backend.DefaultBackoff()); err != nil {
			log.Printf("Inference model not ready: %v", err)
			return
		}
		log.Printf("Inference model loaded")
	}()

	t := tray.New()
	t.OnToggle(func() {
		if session.Toggle() {
			loop.Start()
		} else {
			loop.Stop()
		}
		t.SetCameraActive(session.Active())
	})
	t.OnOpen(func() {
		openBrowser("http://localhost" + listenAddr)
	})
	t.OnQuit(func() {
		loop.Stop()
		session.Stop()
	})

	unsubscribe := loop.Subscribe(func(u detect.Update) {
		if u.Top != "" {
			t.SetLastSign(u.Top)
		}
	})
	defer unsubscribe()

	// Blocks until Quit is chosen from the menu
	t.Run()
}

// storedInterval reads the persisted capture interval, falling back to the
// loop default for missing or unparsable values.
func storedInterval(settings *store.SettingsRepository) time.Duration {
	raw, err := settings.Get(store.KeyCaptureInterval)
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// motionGate returns a frame gate when motion gating is switched on in
// settings. Off by default, since a held sign is a static scene.
func motionGate(settings *store.SettingsRepository) func([]byte) bool {
	if v, err := settings.Get(store.KeyMotionGate); err != nil || v != "on" {
		return nil
	}
	gate := capture.NewMotionGate(1.0)
	return gate.ChangedJPEG
}

// findDir searches for a named directory near the working directory, then
// under the user data directory.
func findDir(name string) string {
	for _, p := range []string{name, "../" + name, "../../" + name} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homePath := filepath.Join(homeDir, ".signserenade", name)
	if info, err := os.Stat(homePath); err == nil && info.IsDir() {
		return homePath
	}

	return ""
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
