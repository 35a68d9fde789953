// Package mcp exposes the pin overlay as a Model Context Protocol server so
// AI agents can inspect markers and place pins as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/galhadida80/planpin"
	"github.com/galhadida80/planpin/internal/dto"
	"github.com/galhadida80/planpin/pkg/domain"
)

// GroupView is the structured shape of one rendered marker group.
type GroupView struct {
	Cluster              bool          `json:"cluster" jsonschema_description:"True when the marker aggregates more than one pin"`
	Count                int           `json:"count" jsonschema_description:"Number of pins behind the marker"`
	CentroidX            float64       `json:"centroid_x" jsonschema_description:"Normalized X of the marker centroid"`
	CentroidY            float64       `json:"centroid_y" jsonschema_description:"Normalized Y of the marker centroid"`
	RepresentativeStatus domain.Status `json:"representative_status" jsonschema_description:"Status that colors the marker"`
	Color                string        `json:"color" jsonschema_description:"Hex color derived from the representative status"`
	Members              []domain.Pin  `json:"members"`
}

// MarkerList is the output of the list_markers tool.
type MarkerList struct {
	Groups []GroupView `json:"groups" jsonschema_description:"Marker groups currently on the overlay"`
	Pins   int         `json:"pins" jsonschema_description:"Total pins loaded into the overlay"`
}

// StatusResponse is the output of the get_pin_status tool.
type StatusResponse struct {
	PinID    string        `json:"pin_id"`
	Status   domain.Status `json:"status"`
	Resolved bool          `json:"resolved" jsonschema_description:"False while the status lookup is still pending or has failed"`
}

// Engine is the overlay surface the MCP server drives.
type Engine interface {
	Pins() []domain.Pin
	SetPins(ctx context.Context, pins []domain.Pin)
	Groups() []domain.Group
	Statuses() map[string]domain.Status
	Viewport() domain.Viewport
}

// Server wraps an overlay engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server over the given engine.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("planpin-mcp", strings.TrimSpace(planpin.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_markers
	listTool := mcp.NewTool("list_markers",
		mcp.WithDescription("List the marker groups currently rendered on the floorplan overlay, including cluster membership and status colors."),
		mcp.WithOutputSchema[MarkerList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListMarkers))

	// TOOL: place_pin
	placeTool := mcp.NewTool("place_pin",
		mcp.WithDescription("Place a new pin on the floorplan at a normalized (0..1) position. The overlay re-resolves statuses and re-renders."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Unique pin ID")),
		mcp.WithString("entity_type", mcp.Required(), mcp.Description("Business entity kind: 'defect' or 'safety_issue'")),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("ID of the bound business entity")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Normalized X position in 0..1")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Normalized Y position in 0..1")),
		mcp.WithOutputSchema[MarkerList](),
	)
	s.mcpServer.AddTool(placeTool, mcp.NewStructuredToolHandler(s.handlePlacePin))

	// TOOL: get_pin_status
	statusTool := mcp.NewTool("get_pin_status",
		mcp.WithDescription("Get the resolved status of a single pin."),
		mcp.WithString("pin_id", mcp.Required(), mcp.Description("Pin ID to look up")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleGetPinStatus))
}

func (s *Server) handleListMarkers(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (MarkerList, error) {
	return s.markerList(), nil
}

func (s *Server) handlePlacePin(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (MarkerList, error) {
	doc, err := dto.FromArgs(args)
	if err != nil {
		return MarkerList{}, err
	}

	pin, err := doc.ToDomain()
	if err != nil {
		return MarkerList{}, fmt.Errorf("invalid pin: %w", err)
	}

	pins := s.engine.Pins()
	for _, existing := range pins {
		if existing.ID == pin.ID {
			return MarkerList{}, fmt.Errorf("pin '%s' already exists", pin.ID)
		}
	}

	s.engine.SetPins(ctx, append(pins, pin))
	return s.markerList(), nil
}

func (s *Server) handleGetPinStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StatusResponse, error) {
	pinID, _ := args["pin_id"].(string)
	if pinID == "" {
		return StatusResponse{}, fmt.Errorf("pin_id is required")
	}

	found := false
	for _, p := range s.engine.Pins() {
		if p.ID == pinID {
			found = true
			break
		}
	}
	if !found {
		return StatusResponse{}, fmt.Errorf("pin '%s': %w", pinID, domain.ErrPinNotFound)
	}

	status, ok := s.engine.Statuses()[pinID]
	return StatusResponse{PinID: pinID, Status: status, Resolved: ok}, nil
}

func (s *Server) markerList() MarkerList {
	groups := s.engine.Groups()
	views := make([]GroupView, len(groups))
	for i, g := range groups {
		members := make([]domain.Pin, len(g.Members))
		for j, m := range g.Members {
			members[j] = m.Pin
		}
		views[i] = GroupView{
			Cluster:              g.IsCluster(),
			Count:                g.Size(),
			CentroidX:            g.CentroidX,
			CentroidY:            g.CentroidY,
			RepresentativeStatus: g.RepresentativeStatus,
			Color:                g.RepresentativeStatus.Color(),
			Members:              members,
		}
	}
	return MarkerList{Groups: views, Pins: len(s.engine.Pins())}
}

func (s *Server) registerResources() {
	// EXPOSE: planpin://overlay
	s.mcpServer.AddResource(mcp.NewResource("planpin://overlay", "Current Overlay State",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.markerList())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal overlay state: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "planpin://overlay",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
