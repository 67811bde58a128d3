// The simulator plays the driver client: it walks each registered route,
// interpolating positions between consecutive waypoints, and submits a
// fix to the API at a fixed interval. Useful for demos and for smoke
// checking a deployment without real devices on the road.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Vishal-jain-01/bustrack/internal/adapters/routesfile"
	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
)

type fixPayload struct {
	VehicleID  string    `json:"vehicle_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Speed      float64   `json:"speed"`
	Source     string    `json:"source"`
	CapturedAt time.Time `json:"captured_at"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the bustrack API")
	routesFile := flag.String("routes", "configs/routes.json", "routes manifest to drive")
	interval := flag.Duration("interval", 5*time.Second, "time between fixes per vehicle")
	steps := flag.Int("steps", 20, "interpolation steps between consecutive waypoints")
	vehicles := flag.String("vehicles", "", "comma-separated vehicle ids to simulate (default: all)")
	flag.Parse()

	registry, err := routesfile.Load(*routesFile)
	if err != nil {
		log.Fatalf("routes: %v", err)
	}

	filter := map[string]bool{}
	if *vehicles != "" {
		for _, v := range strings.Split(*vehicles, ",") {
			filter[strings.TrimSpace(v)] = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		log.Printf("received signal %v, stopping simulator", sig)
		cancel()
	}()

	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	count := 0
	for _, route := range registry.All() {
		if len(filter) > 0 && !filter[route.VehicleID] {
			continue
		}
		count++
		wg.Add(1)
		go func(r domain.Route) {
			defer wg.Done()
			driveRoute(ctx, client, *apiURL, r, *interval, *steps)
		}(route)
	}

	log.Printf("simulating %d vehicles against %s every %s", count, *apiURL, *interval)
	wg.Wait()
}

// driveRoute loops the vehicle along its route forever, jumping back to
// the origin after reaching the terminus.
func driveRoute(ctx context.Context, client *http.Client, apiURL string, route domain.Route, interval time.Duration, steps int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	segment := 0 // index of the waypoint the vehicle is leaving
	step := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		from := route.Waypoints[segment].Location
		to := route.Waypoints[segment+1].Location
		t := float64(step) / float64(steps)

		payload := fixPayload{
			VehicleID:  route.VehicleID,
			Lat:        from.Lat + (to.Lat-from.Lat)*t,
			Lng:        from.Lon + (to.Lon-from.Lon)*t,
			Speed:      30 + 10*t, // plausible city-bus speeds, km/h
			Source:     string(domain.SourceSimulated),
			CapturedAt: time.Now(),
		}

		if err := submit(ctx, client, apiURL, payload); err != nil {
			log.Printf("[%s] submit: %v", route.VehicleID, err)
		}

		step++
		if step > steps {
			step = 0
			segment++
			if segment >= len(route.Waypoints)-1 {
				segment = 0
			}
		}
	}
}

func submit(ctx context.Context, client *http.Client, apiURL string, payload fixPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/v1/fixes", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)
	}
	return nil
}
