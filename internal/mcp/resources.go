// ABOUTME: MCP resource implementations for workouts.
// ABOUTME: Provides workouts://recent, workouts://templates, and workouts://in-progress resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/workouts/internal/models"
	"github.com/harperreed/workouts/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriRecent     = "workouts://recent"
	uriTemplates  = "workouts://templates"
	uriInProgress = "workouts://in-progress"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriRecent,
		Name:        "Recent Sessions",
		Description: "Last 10 logged sessions with their exercises and sets",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriTemplates,
		Name:        "Workout Templates",
		Description: "Every template workout with its planned exercises and sets",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriInProgress,
		Name:        "Sessions In Progress",
		Description: "Started sessions not yet completed, with elapsed time",
		MIMEType:    "application/json",
	}, s.handleInProgressResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	trees, err := s.listTrees(ctx, storage.FilterLogs, 10)
	if err != nil {
		return nil, err
	}

	return jsonResource(uriRecent, map[string]interface{}{
		"sessions": trees,
		"count":    len(trees),
	})
}

func (s *Server) handleTemplatesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	trees, err := s.listTrees(ctx, storage.FilterTemplates, 0)
	if err != nil {
		return nil, err
	}

	return jsonResource(uriTemplates, map[string]interface{}{
		"templates": trees,
		"count":     len(trees),
	})
}

func (s *Server) handleInProgressResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	trees, err := s.listTrees(ctx, storage.FilterInProgress, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sessions := make([]map[string]interface{}, 0, len(trees))
	for _, w := range trees {
		logged, planned := countSets(w)
		sessions = append(sessions, map[string]interface{}{
			"workout":         w,
			"elapsed_minutes": int(w.Log.Duration(now).Minutes()),
			"sets_logged":     logged,
			"sets_planned":    planned,
		})
	}

	return jsonResource(uriInProgress, map[string]interface{}{
		"generated_at": now.Format(time.RFC3339),
		"sessions":     sessions,
		"count":        len(sessions),
	})
}

func (s *Server) listTrees(ctx context.Context, filter storage.WorkoutFilter, limit int) ([]*models.Workout, error) {
	workouts, err := s.repo.ListWorkouts(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	trees := make([]*models.Workout, 0, len(workouts))
	for _, w := range workouts {
		tree, err := s.repo.GetWorkoutTree(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workout %d: %w", w.ID, err)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func countSets(w *models.Workout) (logged, planned int) {
	for _, we := range w.Exercises {
		for _, s := range we.Sets {
			planned++
			if s.Logged() {
				logged++
			}
		}
	}
	return logged, planned
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
