// Package e2e_test contains end-to-end tests
package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestE2E_QuoteLifecycle(t *testing.T) {
	skipIfNotE2E(t)
	base := apiURL(t)

	// Step 1: store a quote (computes and persists in one call)
	req := projectionRequest()
	req["property_name"] = "E2E Tower " + time.Now().Format("20060102150405")
	req["client_name"] = "E2E Client"

	body, _ := json.Marshal(req)
	resp, err := http.Post(base+"/api/quotes", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Create request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		t.Skip("Persistence not configured on target server")
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	if created.Data.ID == "" {
		t.Fatal("Created quote should have an ID")
	}
	id := created.Data.ID

	// Step 2: fetch it back with the stored results
	getResp, err := http.Get(base + "/api/quotes/" + id)
	if err != nil {
		t.Fatalf("Get request failed: %v", err)
	}
	defer getResp.Body.Close()

	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", getResp.StatusCode)
	}

	var fetched struct {
		Data struct {
			ID         string                 `json:"id"`
			Status     string                 `json:"status"`
			Projection map[string]interface{} `json:"projection"`
			Exits      map[string]interface{} `json:"exits"`
		} `json:"data"`
	}
	json.NewDecoder(getResp.Body).Decode(&fetched)

	if fetched.Data.ID != id {
		t.Errorf("Fetched ID = %q, want %q", fetched.Data.ID, id)
	}
	if fetched.Data.Status != "draft" {
		t.Errorf("New quote status = %q, want draft", fetched.Data.Status)
	}
	if fetched.Data.Projection == nil {
		t.Error("Stored quote should carry its computed projection")
	}
	if fetched.Data.Exits == nil {
		t.Error("Stored quote should carry its exit analysis")
	}

	// Step 3: list should include it
	listResp, err := http.Get(base + "/api/quotes?limit=100")
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	defer listResp.Body.Close()

	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	json.NewDecoder(listResp.Body).Decode(&list)

	found := false
	for _, s := range list.Data {
		if s.ID == id {
			found = true
			break
		}
	}
	if !found {
		t.Error("Created quote missing from list")
	}

	// Step 4: delete
	delReq, _ := http.NewRequest(http.MethodDelete, base+"/api/quotes/"+id, nil)
	delResp, err := http.DefaultClient.Do(delReq)
	if err != nil {
		t.Fatalf("Delete request failed: %v", err)
	}
	defer delResp.Body.Close()

	if delResp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 on delete, got %d", delResp.StatusCode)
	}

	// Step 5: fetch after delete is a 404
	goneResp, err := http.Get(base + "/api/quotes/" + id)
	if err != nil {
		t.Fatalf("Get-after-delete request failed: %v", err)
	}
	defer goneResp.Body.Close()

	if goneResp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", goneResp.StatusCode)
	}
}
