// Command test_integration smoke-tests a running `streetwatch serve`.
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

func main() {
	baseURL := os.Getenv("STREETWATCH_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Health check...")
	if _, ok := sendRequest(http.MethodGet, baseURL+"/healthz", nil); !ok {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Asking a question...")
	body, ok := sendRequest(http.MethodPost, baseURL+"/chat", map[string]string{
		"question": "What happened downtown?",
	})
	if !ok {
		fmt.Println("FAILED: Chat")
		os.Exit(1)
	}

	var answer map[string]any
	if err := json.Unmarshal(body, &answer); err != nil {
		fmt.Printf("FAILED: Chat returned invalid JSON: %v\n", err)
		os.Exit(1)
	}
	for _, key := range []string{"answer", "coords", "recent_news"} {
		if _, found := answer[key]; !found {
			fmt.Printf("FAILED: Chat response is missing %q\n", key)
			os.Exit(1)
		}
	}
	fmt.Println("PASSED: Chat")
}

func sendRequest(method, url string, payload interface{}) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
