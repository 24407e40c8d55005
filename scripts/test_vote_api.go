package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"featureboard-be/internal/pkg/serverutils"

	"github.com/fatih/color"
)

var baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	_ = json.Unmarshal(raw, &parsed)
	return resp, parsed, nil
}

func mustToken(secret, userId string) string {
	token, err := serverutils.SignToken(secret, userId)
	if err != nil {
		color.Red("Failed to sign token: %v", err)
		os.Exit(1)
	}
	return token
}

// step runs one request and reports whether the status matched.
func step(title string, want int, method, url, token string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	resp, parsed, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode == want {
		color.Green("Status: %s", resp.Status)
	} else {
		color.Red("Status: %s (expected %d)", resp.Status, want)
	}
	prettyPrint(parsed)
	return parsed
}

func main() {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		baseURL = v
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}
	owner := mustToken(secret, "owner-smoke")
	alice := mustToken(secret, "alice-smoke")
	bob := mustToken(secret, "bob-smoke")

	color.Cyan("🚀 Starting Vote API Smoke Test\n")

	product := step("[OWNER] 1. Create product", http.StatusCreated, "POST", "/product/v1", owner, map[string]interface{}{
		"name":        "Smoke Board",
		"description": "Created by the vote API smoke test",
	})
	productId := idOf(product)

	feature := step("[ALICE] 2. Submit feature", http.StatusCreated, "POST", "/feature/v1", alice, map[string]interface{}{
		"product_id":  productId,
		"title":       "Keyboard shortcuts",
		"description": "Navigate the board without a mouse",
		"category":    "UI/UX Improvement",
	})
	featureId := idOf(feature)
	votePath := fmt.Sprintf("/feature/v1/%d/vote", featureId)

	step("[BOB] 3. Has voted (expect false)", http.StatusOK, "GET", votePath, bob, nil)
	step("[BOB] 4. Add vote", http.StatusCreated, "POST", votePath, bob, nil)
	step("[BOB] 5. Add vote again (expect 409)", http.StatusConflict, "POST", votePath, bob, nil)
	step("[BOB] 6. Toggle (removes)", http.StatusOK, "POST", votePath+"/toggle", bob, nil)
	step("[BOB] 7. Remove vote (expect 404)", http.StatusNotFound, "DELETE", votePath, bob, nil)
	step("[BOB] 8. My votes", http.StatusOK, "GET", "/vote/v1/me", bob, nil)

	step("[OWNER] 9. Move to planned", http.StatusOK, "PATCH", fmt.Sprintf("/feature/v1/%d/status", featureId), owner, map[string]interface{}{
		"status": "planned",
	})
	step("[ANON] 10. Roadmap", http.StatusOK, "GET", fmt.Sprintf("/roadmap/v1/%d", productId), "", nil)
	step("[ANON] 11. Feature list sorted by votes", http.StatusOK, "GET", fmt.Sprintf("/feature/v1?product_id=%d&sort=votes-desc&status=all", productId), "", nil)

	color.Cyan("\n✅ Smoke test finished")
}

func idOf(resp map[string]interface{}) int64 {
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		color.Red("Response has no data, aborting")
		os.Exit(1)
	}
	id, _ := data["id"].(float64)
	return int64(id)
}
