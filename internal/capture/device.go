package capture

import (
	"log"
	"os"
	"time"
)

// Device wait and retry defaults.
const (
	DeviceWaitTimeout = 120 * time.Second
	OpenRetries       = 5
	OpenRetryDelay    = 3 * time.Second
)

// WaitForDevice polls for the device node to appear, checking once per
// second until timeout. Returns true if the node exists.
func WaitForDevice(path string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Second)
	}
}

// OpenWithRetry opens the camera, retrying a fixed number of times with a
// delay between attempts. USB thermal cameras commonly need a few seconds
// after enumeration before the first open succeeds.
func OpenWithRetry(cam Camera, attempts int, delay time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		log.Printf("Camera open attempt %d/%d", attempt, attempts)
		if err = cam.Open(); err == nil {
			log.Println("Camera opened successfully")
			return nil
		}
		log.Printf("Camera open failed: %v", err)
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	return err
}
