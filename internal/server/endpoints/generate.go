package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/AbhinavPrakashCoading/dockit/internal/api"
	"github.com/AbhinavPrakashCoading/dockit/internal/fallback"
)

// GenerateSchemaRequest is the request body for POST /api/generate-schema.
type GenerateSchemaRequest struct {
	ExamName string `json:"examName"`
}

// GenerateSchemaResponse wraps a generated fallback schema.
type GenerateSchemaResponse struct {
	Success bool            `json:"success"`
	Schema  fallback.Schema `json:"schema"`
	Message string          `json:"message"`
}

// GenerateSchemaEndpoint handles POST /api/generate-schema. It returns a
// curated document-requirement schema for a named exam without touching any
// PDF, for use when extraction is impossible or produced nothing usable.
type GenerateSchemaEndpoint struct{}

func (e *GenerateSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/generate-schema", e.handler
}

func (e *GenerateSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req GenerateSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unreadable body still gets a usable schema, matching the behavior
		// clients of the legacy service rely on.
		writeJSON(w, http.StatusOK, GenerateSchemaResponse{
			Success: true,
			Schema:  fallback.Basic(""),
			Message: "Generated basic fallback schema",
		})
		return
	}
	if req.ExamName == "" {
		writeError(w, http.StatusBadRequest, "examName is required")
		return
	}

	schema := fallback.Generate(req.ExamName)
	writeJSON(w, http.StatusOK, GenerateSchemaResponse{
		Success: true,
		Schema:  schema,
		Message: "Schema generated via fallback heuristics",
	})
}

func (e *GenerateSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-schema <exam-name>",
		Short: "Generate a fallback document schema for an exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateSchemaResponse
			req := GenerateSchemaRequest{ExamName: args[0]}
			if err := client.Post(cmd.Context(), "/api/generate-schema", req, &resp); err != nil {
				return err
			}
			return api.Output(resp.Schema)
		},
	}
}
