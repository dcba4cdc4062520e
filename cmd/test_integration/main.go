package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const baseURL = "http://localhost:8080/api"

// End-to-end smoke test against a running server: submit a story, render
// the first panel twice (miss then hit), then delete the episode.
func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	// 1. Health
	fmt.Println("1. Health check...")
	var health map[string]interface{}
	if err := getJSON("/health", &health); err != nil {
		fail("health check", err)
	}

	// 2. Submit a story
	fmt.Println("2. Submitting story...")
	story := map[string]string{
		"story_text":           "Today I woke up late, sprinted to the bus stop in the rain, and still somehow arrived early. My coworker had saved me a coffee.",
		"character_name":       "Alex",
		"character_appearance": "tall with curly brown hair, glasses, casual hoodie style",
	}
	var submitted struct {
		EpisodeID string `json:"episode_id"`
		Title     string `json:"title"`
		Panels    []struct {
			PanelID string `json:"panel_id"`
		} `json:"panels"`
	}
	if err := postJSON("/story/submit", story, &submitted); err != nil {
		fail("story submit", err)
	}
	if len(submitted.Panels) == 0 {
		fail("story submit", fmt.Errorf("no panels in response"))
	}
	fmt.Printf("   Episode %s (%q) with %d panels\n", submitted.EpisodeID, submitted.Title, len(submitted.Panels))

	// 3. Render the first panel, twice
	fmt.Println("3. Generating first panel image (expect generated, then cached)...")
	for i, want := range []string{"generated", "cached"} {
		var generated struct {
			Status string `json:"status"`
		}
		req := map[string]string{"episode_id": submitted.EpisodeID, "panel_id": submitted.Panels[0].PanelID}
		if err := postJSON("/panels/generate", req, &generated); err != nil {
			fail(fmt.Sprintf("panel generate #%d", i+1), err)
		}
		if generated.Status != want {
			fail("panel generate", fmt.Errorf("status %q, want %q", generated.Status, want))
		}
	}

	// 4. Clean up
	fmt.Println("4. Deleting episode...")
	req, _ := http.NewRequest(http.MethodDelete, baseURL+"/episodes/"+submitted.EpisodeID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		fail("episode delete", fmt.Errorf("err=%v status=%v", err, respStatus(resp)))
	}
	resp.Body.Close()

	fmt.Println("Integration Test PASSED")
}

func getJSON(path string, out interface{}) error {
	resp, err := http.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func postJSON(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}
	return json.Unmarshal(raw, out)
}

func respStatus(resp *http.Response) interface{} {
	if resp == nil {
		return nil
	}
	return resp.StatusCode
}

func fail(step string, err error) {
	fmt.Printf("FAILED at %s: %v\n", step, err)
	os.Exit(1)
}
