package server

import (
	"context"
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{
		"overlay_layout", "overlay_render", "wrap_text",
		"overlay_translate_image", "ocr_regions", "image_load",
	}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	seen := make(map[string]bool)
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, want[i])
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s schema type: got %v", tool.Name, tool.InputSchema["type"])
		}
		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok || len(props) == 0 {
			t.Errorf("%s has no properties", tool.Name)
			continue
		}
		if req, ok := tool.InputSchema["required"].([]string); ok {
			for _, r := range req {
				if _, ok := props[r]; !ok {
					t.Errorf("%s requires undeclared property %s", tool.Name, r)
				}
			}
		}
	}
}

func TestGetToolDefinitions_Marshal(t *testing.T) {
	if _, err := json.Marshal(GetToolDefinitions()); err != nil {
		t.Fatalf("tool definitions do not marshal: %v", err)
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	tools, ok := resp.Result.(map[string]interface{})["tools"].([]Tool)
	if !ok || len(tools) != len(GetToolDefinitions()) {
		t.Errorf("unexpected tools payload: %+v", resp.Result)
	}
}
