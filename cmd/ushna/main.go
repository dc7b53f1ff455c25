package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/ushna/internal/capture"
	"github.com/ayusman/ushna/internal/server"
	"github.com/ayusman/ushna/internal/store"
	"github.com/ayusman/ushna/internal/tray"
	"github.com/ayusman/ushna/internal/viewer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		device     = flag.String("device", "/dev/video0", "thermal camera video device")
		dataDir    = flag.String("data", "", "data directory (default ~/.ushna)")
		staticDir  = flag.String("static", "", "static web directory (default: autodetect)")
		useTray    = flag.Bool("tray", false, "run with a system tray icon")
		autoRecord = flag.Bool("auto-record", false, "start recordings on thermal activity")
	)
	flag.Parse()

	fmt.Println("Ushna - Thermal Camera Viewer")

	// Initialize the data directory
	dir := *dataDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dir = filepath.Join(homeDir, ".ushna")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		log.Fatalf("Failed to create media directory: %v", err)
	}

	st, err := store.New(filepath.Join(dir, "ushna.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Wait for the camera to enumerate. A missing device is not fatal; the
	// pipeline keeps retrying and the server reports degraded health.
	if !capture.WaitForDevice(*device, capture.DeviceWaitTimeout) {
		log.Printf("Device %s not found, starting without camera", *device)
	}

	cam := capture.NewCamera(*device)
	if err := capture.OpenWithRetry(cam, capture.OpenRetries, capture.OpenRetryDelay); err != nil {
		log.Printf("Camera not available: %v", err)
	}

	v := viewer.New(viewer.Config{
		Camera:     cam,
		Store:      st,
		MediaDir:   mediaDir,
		AutoRecord: *autoRecord,
	})
	if err := v.Start(); err != nil {
		log.Fatalf("Failed to start viewer: %v", err)
	}

	// Find web directory
	webDir := *staticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Viewer:    v,
	})

	httpSrv := &http.Server{Addr: *addr, Handler: srv}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		srv.Close()
		v.Stop()
	}

	if *useTray {
		runTray(v, *addr, shutdown)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
		shutdown()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			v.Stop()
			log.Fatalf("Server failed: %v", err)
		}
	}
}

// runTray blocks on the system tray event loop. systray requires the main
// goroutine on most platforms, so the HTTP server stays in its goroutine.
func runTray(v *viewer.Viewer, addr string, shutdown func()) {
	t := tray.New()

	t.OnRecord(func(bool) {
		if err := v.Command("r"); err != nil {
			log.Printf("Record command failed: %v", err)
		}
		t.SetRecording(v.Settings().Recording)
	})
	t.OnSnapshot(func() {
		prev := v.Settings().SnapTime
		if err := v.Command("p"); err != nil {
			log.Printf("Snapshot command failed: %v", err)
			return
		}
		// The snapshot is written by the pipeline, not the command itself
		go func() {
			if when, ok := awaitSnapshot(v, prev, 5*time.Second); ok {
				t.SetLastSnapshot(when)
			}
		}()
	})
	t.OnOpen(func() {
		openBrowser(viewerURL(addr))
	})
	t.OnQuit(shutdown)

	t.Run()
}

// awaitSnapshot polls until the viewer reports a snapshot time different
// from prev, returning it once the pipeline has written the file.
func awaitSnapshot(v *viewer.Viewer, prev string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if when := v.Settings().SnapTime; when != prev {
			return when, true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return "", false
}

// viewerURL turns a listen address into something a browser can open.
func viewerURL(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL with the platform opener.
func openBrowser(url string) {
	for _, opener := range []string{"xdg-open", "open"} {
		if path, err := exec.LookPath(opener); err == nil {
			if err := exec.Command(path, url).Start(); err != nil {
				log.Printf("Failed to open browser: %v", err)
			}
			return
		}
	}
	log.Printf("No browser opener found, visit %s", url)
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.ushna/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".ushna", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
